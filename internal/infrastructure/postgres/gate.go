package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/tenant"
)

// ErrUnscopedStatement sentencia que no filtra por tenant_id = $1.
var ErrUnscopedStatement = fmt.Errorf("sentencia sin filtro de tenant")

var tenantParam = regexp.MustCompile(`\$1\b`)

// Gate envuelve un Querier y confina cada sentencia al tenant del contexto.
//
// Convención: $1 es siempre el tenant y lo agrega el gate; los argumentos del llamador
// empiezan en $2. Una sentencia que no menciona tenant_id y $1 se rechaza sin ejecutarse.
type Gate struct {
	q Querier
}

// NewGate construye el gate sobre un pool o una transacción.
func NewGate(q Querier) *Gate {
	return &Gate{q: q}
}

// Tenant devuelve el tenant del contexto.
func (g *Gate) Tenant(ctx context.Context) (string, error) {
	return tenant.FromContext(ctx)
}

func (g *Gate) scope(ctx context.Context, sql string, args []any) ([]any, error) {
	tid, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(sql, "tenant_id") || !tenantParam.MatchString(sql) {
		return nil, ErrUnscopedStatement
	}
	out := make([]any, 0, len(args)+1)
	out = append(out, tid)
	return append(out, args...), nil
}

// Exec ejecuta una sentencia confinada al tenant.
func (g *Gate) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	scoped, err := g.scope(ctx, sql, args)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	tag, err := g.q.Exec(ctx, sql, scoped...)
	return tag, storageErr(err)
}

// Query ejecuta una consulta confinada al tenant.
func (g *Gate) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	scoped, err := g.scope(ctx, sql, args)
	if err != nil {
		return nil, err
	}
	rows, err := g.q.Query(ctx, sql, scoped...)
	if err != nil {
		return nil, storageErr(err)
	}
	return rows, nil
}

// QueryRow ejecuta una consulta de una fila confinada al tenant.
// Los errores del gate se entregan en Scan, como hace pgx.
func (g *Gate) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	scoped, err := g.scope(ctx, sql, args)
	if err != nil {
		return errRow{err: err}
	}
	return mappedRow{row: g.q.QueryRow(ctx, sql, scoped...)}
}

// Owns verifica que una fila cargada pertenece al tenant del contexto.
// Un desajuste se registra y se presenta como not-found.
func (g *Gate) Owns(ctx context.Context, rowTenant string) error {
	tid, err := tenant.FromContext(ctx)
	if err != nil {
		return err
	}
	if rowTenant != tid {
		zerolog.Ctx(ctx).Warn().
			Str("tenant_id", tid).
			Str("row_tenant_id", rowTenant).
			Msg("acceso a fila de otro tenant bloqueado")
		return domain.ErrCrossTenantAccess
	}
	return nil
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

type mappedRow struct{ row pgx.Row }

func (r mappedRow) Scan(dest ...any) error { return storageErr(r.row.Scan(dest...)) }
