// Package sequence numeración por tenant y tipo de documento, sin huecos reutilizados ni duplicados.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// Config límites de reintento ante contención.
type Config struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// IssueFunc inserta el documento numerado dentro de la misma transacción que reservó el número.
type IssueFunc func(number int64, r Repos) error

// Generator asigna el siguiente número libre. La clave única de document_sequences resuelve las carreras.
type Generator struct {
	tx  TxRunner
	cfg Config
}

// NewGenerator construye el generador.
func NewGenerator(tx TxRunner, cfg Config) *Generator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 5 * time.Millisecond
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = cfg.InitialBackoff
	}
	return &Generator{tx: tx, cfg: cfg}
}

// Next reserva un número sin documento asociado.
func (g *Generator) Next(ctx context.Context, docType entity.DocumentType) (int64, error) {
	return g.Issue(ctx, docType, nil)
}

// Issue reserva MAX+1 e invoca fn en la misma transacción. Si otro escritor tomó el número se
// reintenta con backoff exponencial; agotados los intentos devuelve ErrSequenceContention.
func (g *Generator) Issue(ctx context.Context, docType entity.DocumentType, fn IssueFunc) (int64, error) {
	if !docType.Valid() {
		return 0, domain.Invalid("document_type", "tipo de documento sin secuencia")
	}
	var (
		issued   int64
		attempts int
	)
	op := func() error {
		attempts++
		err := g.tx.RunDocument(ctx, func(r Repos) error {
			last, err := r.Sequences.Last(ctx, docType)
			if err != nil {
				return err
			}
			n := last + 1
			if err := r.Sequences.Reserve(ctx, docType, n); err != nil {
				return err
			}
			if fn != nil {
				if err := fn(n, r); err != nil {
					return err
				}
			}
			issued = n
			return nil
		})
		if err == nil || errors.Is(err, domain.ErrNumberTaken) {
			return err
		}
		return backoff.Permanent(err)
	}

	err := backoff.RetryNotify(op, g.policy(ctx), func(err error, wait time.Duration) {
		zerolog.Ctx(ctx).Debug().
			Str("document_type", string(docType)).
			Int("attempt", attempts).
			Dur("wait", wait).
			Msg("número tomado, reintentando")
	})
	switch {
	case err == nil:
		return issued, nil
	case errors.Is(err, domain.ErrNumberTaken):
		zerolog.Ctx(ctx).Warn().
			Str("document_type", string(docType)).
			Int("attempts", attempts).
			Msg("contención de secuencia agotó los reintentos")
		return 0, domain.ErrSequenceContention
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return 0, fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	default:
		return 0, err
	}
}

func (g *Generator) policy(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = g.cfg.InitialBackoff
	eb.MaxInterval = g.cfg.MaxBackoff
	eb.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(g.cfg.MaxAttempts-1)), ctx)
}
