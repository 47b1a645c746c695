// Package finance reglas de derivación de estado para cuentas y suscripciones.
package finance

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// civilDate fecha civil de t en su propia zona, sin convertir. Las columnas DATE llegan
// como medianoche UTC y now llega en la zona de la tienda: se comparan año/mes/día tal cual.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsOverdue indica si una cuenta pendiente venció: fecha de vencimiento estrictamente
// anterior a hoy, comparando solo la fecha.
func IsOverdue(status entity.BillStatus, due, now time.Time) bool {
	if status != entity.BillPending {
		return false
	}
	return civilDate(due).Before(civilDate(now))
}

// DueWithin indica si una cuenta pendiente vence entre hoy y hoy + days (inclusive).
func DueWithin(status entity.BillStatus, due, now time.Time, days int) bool {
	if status != entity.BillPending {
		return false
	}
	from := civilDate(now)
	d := civilDate(due)
	return !d.Before(from) && !d.After(from.AddDate(0, 0, days))
}

// RemainingTrialDays max(0, ceil((end − now)/24h)).
func RemainingTrialDays(end, now time.Time) int {
	diff := end.Sub(now)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// SubscriptionStatusAt devuelve el estado derivado de la suscripción en now.
// Un trial terminado solo pasa a suspended cuando expireTrials está activo.
func SubscriptionStatusAt(s *entity.Subscription, now time.Time, expireTrials bool) entity.SubscriptionStatus {
	if s.Status != entity.SubscriptionTrial || s.EndDate == nil || !expireTrials {
		return s.Status
	}
	if RemainingTrialDays(*s.EndDate, now) == 0 {
		return entity.SubscriptionSuspended
	}
	return s.Status
}

// ApplyPayment acumula un pago parcial. Devuelve el nuevo total pagado y si quedó saldada.
// Un pago mayor que el saldo pendiente se rechaza.
func ApplyPayment(amount, alreadyPaid, payment decimal.Decimal) (decimal.Decimal, bool, error) {
	if !payment.IsPositive() {
		return alreadyPaid, false, domain.Invalid("amount", "debe ser mayor que cero")
	}
	if err := domain.CheckMoney("amount", payment); err != nil {
		return alreadyPaid, false, err
	}
	remaining := amount.Sub(alreadyPaid)
	if payment.GreaterThan(remaining) {
		return alreadyPaid, false, domain.Invalid("amount", "supera el saldo pendiente")
	}
	paid := alreadyPaid.Add(payment)
	return paid, paid.GreaterThanOrEqual(amount), nil
}

// CanSettle indica si una cuenta en este estado admite pagos.
func CanSettle(status entity.BillStatus) bool {
	return status == entity.BillPending || status == entity.BillOverdue
}
