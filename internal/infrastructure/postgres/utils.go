package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/backoffice-api/internal/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
	codeQueryCanceled       = "57014"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return false
}

// constraintName nombre de la restricción violada, si el error viene de PostgreSQL.
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// isTimeout cubre el deadline del contexto, timeouts de red de pgconn y statement_timeout (57014).
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeQueryCanceled
}

// storageErr traduce timeouts a domain.ErrTimeout conservando el error original.
// Un id con formato inválido (22P02) no puede existir y se reporta como not-found; una FK
// compuesta violada (23503) significa que la referencia no existe en el tenant.
func storageErr(err error) error {
	if err == nil || errors.Is(err, domain.ErrTimeout) || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if isTimeout(err) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeInvalidText:
			return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
		case codeForeignKeyViolation:
			return &domain.ValidationError{Field: pgErr.ConstraintName, Reason: "referencia inexistente"}
		}
	}
	return err
}

// duplicateErr convierte una violación única en domain.DuplicateError.
func duplicateErr(err error) error {
	return &domain.DuplicateError{Constraint: constraintName(err)}
}

// isNumberKey indica si la restricción violada es la clave (tenant_id, number) de un documento.
func isNumberKey(err error) bool {
	return strings.HasSuffix(constraintName(err), "_tenant_number_key")
}
