// Package finance cuentas por pagar/cobrar y suscripciones. Los estados derivados del tiempo
// (vencida, trial terminado) se reconcilian al leer; no hay tarea programada.
package finance

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	domfinance "github.com/jhoicas/backoffice-api/internal/domain/finance"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// Config comportamiento de la reconciliación.
type Config struct {
	// ExpireTrials pasa a suspended los trials cuyo fin ya pasó.
	ExpireTrials bool
}

// Reconciler persiste las transiciones pending -> overdue y trial -> suspended.
// Es idempotente: un registro ya reconciliado no produce escritura.
type Reconciler struct {
	cfg Config
	now func() time.Time
}

// NewReconciler construye el reconciliador.
func NewReconciler(cfg Config) *Reconciler {
	return &Reconciler{cfg: cfg, now: time.Now}
}

// ReconcilePayables marca como vencidas las cuentas pendientes con vencimiento pasado.
// Devuelve cuántas filas cambió.
func (r *Reconciler) ReconcilePayables(ctx context.Context, marker repository.OverdueMarker, records []*entity.AccountPayable) (int, error) {
	now := r.now()
	changed := 0
	for _, a := range records {
		if !domfinance.IsOverdue(a.Status, a.DueDate, now) {
			continue
		}
		ok, err := marker.MarkOverdue(ctx, a.ID)
		if err != nil {
			return changed, err
		}
		if ok {
			a.Status = entity.BillOverdue
			changed++
		}
	}
	logChanged(ctx, "accounts_payable", changed)
	return changed, nil
}

// ReconcileReceivables igual que ReconcilePayables para cuentas por cobrar.
func (r *Reconciler) ReconcileReceivables(ctx context.Context, marker repository.OverdueMarker, records []*entity.AccountReceivable) (int, error) {
	now := r.now()
	changed := 0
	for _, a := range records {
		if !domfinance.IsOverdue(a.Status, a.DueDate, now) {
			continue
		}
		ok, err := marker.MarkOverdue(ctx, a.ID)
		if err != nil {
			return changed, err
		}
		if ok {
			a.Status = entity.BillOverdue
			changed++
		}
	}
	logChanged(ctx, "accounts_receivable", changed)
	return changed, nil
}

// ReconcileSubscriptions suspende trials terminados cuando ExpireTrials está activo.
func (r *Reconciler) ReconcileSubscriptions(ctx context.Context, repo repository.SubscriptionRepository, subs []*entity.Subscription) (int, error) {
	now := r.now()
	changed := 0
	for _, s := range subs {
		next := domfinance.SubscriptionStatusAt(s, now, r.cfg.ExpireTrials)
		if next == s.Status {
			continue
		}
		ok, err := repo.TransitionStatus(ctx, s.ID, s.Status, next)
		if err != nil {
			return changed, err
		}
		if ok {
			s.Status = next
			changed++
		}
	}
	logChanged(ctx, "subscriptions", changed)
	return changed, nil
}

func logChanged(ctx context.Context, table string, n int) {
	if n == 0 {
		return
	}
	zerolog.Ctx(ctx).Debug().Str("table", table).Int("changed", n).Msg("estados reconciliados")
}
