// Package tenancy resuelve el tenant de cada petición a partir de la ruta, el token y la cabecera.
package tenancy

import (
	"fmt"
	"strings"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/pkg/jwt"
)

// Request datos de la petición que intervienen en la resolución.
type Request struct {
	Path          string
	TenantHeader  string
	Authorization string // valor completo de la cabecera Authorization
}

// Resolution resultado de la resolución.
type Resolution struct {
	TenantID     string
	Public       bool
	Impersonated bool   // super_admin actuando en nombre de TenantID
	UserID       string // vacío si no hubo token
	Role         string
}

// Config reglas de resolución.
type Config struct {
	JWTSecret     string
	DefaultTenant string
	PublicRoutes  []string
}

// Resolver aplica la precedencia: ruta pública > token firmado > cabecera.
type Resolver struct {
	cfg Config
}

// NewResolver construye el resolver.
func NewResolver(cfg Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// IsPublic indica si la ruta no requiere tenant.
func (r *Resolver) IsPublic(path string) bool {
	for _, p := range r.cfg.PublicRoutes {
		if path == p || strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

// Resolve devuelve el tenant de la petición o un error de dominio:
// ErrUnauthorized (token inválido), ErrForbidden (suplantación o tenant reservado) o ErrMissingTenant.
func (r *Resolver) Resolve(req Request) (Resolution, error) {
	if r.IsPublic(req.Path) {
		return Resolution{TenantID: r.cfg.DefaultTenant, Public: true}, nil
	}

	res, err := r.fromToken(req.Authorization)
	if err != nil {
		return Resolution{}, err
	}
	if res.TenantID == "" {
		res.TenantID = strings.TrimSpace(req.TenantHeader)
	}
	if res.TenantID == "" {
		return Resolution{}, domain.ErrMissingTenant
	}
	if res.TenantID == r.cfg.DefaultTenant {
		return Resolution{}, fmt.Errorf("tenant reservado en ruta privada: %w", domain.ErrForbidden)
	}
	return res, nil
}

func (r *Resolver) fromToken(authorization string) (Resolution, error) {
	raw, ok := bearer(authorization)
	if !ok {
		return Resolution{}, nil
	}
	claims, err := jwt.Parse(r.cfg.JWTSecret, raw)
	if err != nil {
		return Resolution{}, fmt.Errorf("token inválido: %w", domain.ErrUnauthorized)
	}
	res := Resolution{TenantID: strings.TrimSpace(claims.TenantID), UserID: claims.UserID, Role: claims.Role}

	if act := strings.TrimSpace(claims.ActAsTenant); act != "" {
		if claims.Role != jwt.RoleSuperAdmin {
			return Resolution{}, fmt.Errorf("suplantación sin rol super_admin: %w", domain.ErrForbidden)
		}
		res.TenantID = act
		res.Impersonated = true
	}
	return res, nil
}

// bearer extrae el token de "Bearer <token>". Sin cabecera devuelve ok=false.
func bearer(h string) (string, bool) {
	h = strings.TrimSpace(h)
	if h == "" {
		return "", false
	}
	const prefix = "bearer "
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		// Cabecera presente pero mal formada: se trata como token inválido.
		return h, true
	}
	return strings.TrimSpace(h[len(prefix):]), true
}
