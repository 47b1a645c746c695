package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrMissingTenant      = errors.New("tenant no identificado")
	ErrTenantAlreadyBound = errors.New("el contexto ya tiene un tenant asignado")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrSequenceContention = errors.New("no se pudo asignar número de documento por contención")
	ErrTimeout            = errors.New("tiempo de espera agotado")

	// ErrNumberTaken es interno del generador de secuencias: otro escritor tomó el número.
	ErrNumberTaken = errors.New("número de documento ya utilizado")

	// ErrCrossTenantAccess se presenta al cliente igual que not-found.
	ErrCrossTenantAccess = fmt.Errorf("acceso a recurso de otro tenant: %w", ErrNotFound)
)

// ValidationError detalla el campo que no pasó la validación.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// DuplicateError indica la restricción única violada.
type DuplicateError struct {
	Constraint string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("valor duplicado (%s)", e.Constraint)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }
