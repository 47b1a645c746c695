// Package tenant transporta el tenant resuelto dentro del context.Context de la petición.
package tenant

import (
	"context"
	"strings"

	"github.com/jhoicas/backoffice-api/internal/domain"
)

type ctxKey struct{}

// WithTenant asigna el tenant al contexto. Una vez asignado no puede reemplazarse.
func WithTenant(ctx context.Context, id string) (context.Context, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx, domain.ErrMissingTenant
	}
	if _, ok := ctx.Value(ctxKey{}).(string); ok {
		return ctx, domain.ErrTenantAlreadyBound
	}
	return context.WithValue(ctx, ctxKey{}, id), nil
}

// FromContext devuelve el tenant del contexto o ErrMissingTenant.
func FromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok || id == "" {
		return "", domain.ErrMissingTenant
	}
	return id, nil
}

// MustWithTenant es para tests y herramientas: hace panic si no puede asignar.
func MustWithTenant(ctx context.Context, id string) context.Context {
	out, err := WithTenant(ctx, id)
	if err != nil {
		panic(err)
	}
	return out
}
