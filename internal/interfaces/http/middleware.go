package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/backoffice-api/internal/application/tenancy"
	"github.com/jhoicas/backoffice-api/internal/domain/tenant"
)

// Locals keys del tenant y el usuario en Fiber.
const (
	LocalTenantID = "tenant_id"
	LocalUserID   = "user_id"
	LocalRole     = "role"
)

// RequestLogger adjunta logger al contexto y registra método, ruta, status y latencia.
func RequestLogger(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		l := base.With().Str("method", c.Method()).Str("path", c.Path()).Logger()
		c.SetUserContext(l.WithContext(c.UserContext()))

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := zerolog.Ctx(c.UserContext()).Info()
		if status >= fiber.StatusInternalServerError {
			ev = zerolog.Ctx(c.UserContext()).Error()
		}
		ev.Int("status", status).Dur("latency", time.Since(start)).Msg("petición")
		return nil
	}
}

// RequestTimeout fija el plazo de la petición en el contexto que llega a la base.
func RequestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// TenantMiddleware resuelve el tenant y lo fija en el contexto; sin tenant la petición no
// llega al handler.
func TenantMiddleware(r *tenancy.Resolver, header string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := r.Resolve(tenancy.Request{
			Path:          c.Path(),
			TenantHeader:  c.Get(header),
			Authorization: c.Get(fiber.HeaderAuthorization),
		})
		if err != nil {
			return writeError(c, err)
		}
		ctx, err := tenant.WithTenant(c.UserContext(), res.TenantID)
		if err != nil {
			return writeError(c, err)
		}
		lc := zerolog.Ctx(ctx).With().Str("tenant_id", res.TenantID)
		if res.UserID != "" {
			lc = lc.Str("user_id", res.UserID)
		}
		if res.Impersonated {
			lc = lc.Bool("impersonated", true)
		}
		l := lc.Logger()
		c.SetUserContext(l.WithContext(ctx))

		c.Locals(LocalTenantID, res.TenantID)
		c.Locals(LocalUserID, res.UserID)
		c.Locals(LocalRole, res.Role)
		return c.Next()
	}
}

// GetTenantID devuelve el tenant resuelto (después del middleware).
func GetTenantID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalTenantID).(string)
	return s
}

// GetUserID devuelve el usuario del token, vacío si la petición no traía token.
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}
