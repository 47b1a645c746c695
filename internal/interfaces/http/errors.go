package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
)

// msgNotFound es el mismo para recursos inexistentes y de otro tenant.
const msgNotFound = "recurso no encontrado"

// errorResponse traduce un error de dominio a status HTTP y cuerpo.
func errorResponse(err error) (int, dto.ErrorResponse) {
	var (
		verr  *domain.ValidationError
		dup   *domain.DuplicateError
		fiErr *fiber.Error
	)
	switch {
	case errors.Is(err, domain.ErrMissingTenant):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "MISSING_TENANT", Message: "tenant no identificado"}
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: verr.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: msgNotFound}
	case errors.As(err, &dup):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: dup.Error()}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrSequenceContention):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "SEQUENCE_CONTENTION", Message: err.Error()}
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, dto.ErrorResponse{Code: "TIMEOUT", Message: "tiempo de espera agotado"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido o expirado"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"}
	case errors.As(err, &fiErr):
		return fiErr.Code, dto.ErrorResponse{Code: "HTTP", Message: fiErr.Message}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	}
}

// writeError responde con el error traducido. Los 5xx se registran con el error original.
func writeError(c *fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	if status >= fiber.StatusInternalServerError {
		zerolog.Ctx(c.UserContext()).Error().Err(err).Str("code", body.Code).Msg("error en petición")
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler fiber.Config.ErrorHandler con el mismo mapeo que los handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}

// pathID valida que el parámetro de ruta sea un UUID y lo devuelve en forma canónica.
// Un id mal formado no existe en ningún tenant: se responde como not-found.
func pathID(c *fiber.Ctx, name string) (string, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return "", domain.ErrNotFound
	}
	return id.String(), nil
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
