// Package ledger aplica y revierte los movimientos del libro de un cliente.
//
// Cada movimiento muta exactamente uno de {Debit, CreditLimit}. Los montos que dejarían un
// saldo negativo se rechazan al aplicar, de modo que el monto guardado es siempre el delta
// real y Reverse(Apply(b)) == b.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// Balance saldos del cliente afectados por el libro.
type Balance struct {
	Debit       decimal.Decimal
	CreditLimit decimal.Decimal
}

// Of extrae el saldo de un cliente.
func Of(c *entity.Customer) Balance {
	return Balance{Debit: c.Debit, CreditLimit: c.CreditLimit}
}

// AvailableCredit max(0, límite − débito).
func (b Balance) AvailableCredit() decimal.Decimal {
	return decimal.Max(decimal.Zero, b.CreditLimit.Sub(b.Debit))
}

// Apply aplica el movimiento y devuelve el nuevo saldo.
func Apply(b Balance, kind entity.TransactionKind, amount decimal.Decimal) (Balance, error) {
	if !kind.Valid() {
		return b, domain.Invalid("kind", "tipo de movimiento desconocido")
	}
	if !amount.IsPositive() {
		return b, domain.Invalid("amount", "debe ser mayor que cero")
	}
	// con más de 2 decimales la columna redondearía y Reverse dejaría de ser el inverso exacto
	if err := domain.CheckMoney("amount", amount); err != nil {
		return b, err
	}
	switch kind {
	case entity.KindAddDebit:
		b.Debit = b.Debit.Add(amount)
	case entity.KindPayDebit:
		if amount.GreaterThan(b.Debit) {
			return b, domain.Invalid("amount", "el pago supera el débito actual")
		}
		b.Debit = b.Debit.Sub(amount)
	case entity.KindIncreaseCredit:
		b.CreditLimit = b.CreditLimit.Add(amount)
	case entity.KindDecreaseCredit:
		if amount.GreaterThan(b.CreditLimit) {
			return b, domain.Invalid("amount", "la reducción supera el límite actual")
		}
		b.CreditLimit = b.CreditLimit.Sub(amount)
	}
	return b, nil
}

// Reverse aplica el inverso exacto del movimiento. Si el saldo ya cambió de forma que el
// inverso lo dejaría negativo, devuelve ErrConflict.
func Reverse(b Balance, kind entity.TransactionKind, amount decimal.Decimal) (Balance, error) {
	if !kind.Valid() {
		return b, domain.Invalid("kind", "tipo de movimiento desconocido")
	}
	switch kind {
	case entity.KindAddDebit:
		if amount.GreaterThan(b.Debit) {
			return b, domain.ErrConflict
		}
		b.Debit = b.Debit.Sub(amount)
	case entity.KindPayDebit:
		b.Debit = b.Debit.Add(amount)
	case entity.KindIncreaseCredit:
		if amount.GreaterThan(b.CreditLimit) {
			return b, domain.ErrConflict
		}
		b.CreditLimit = b.CreditLimit.Sub(amount)
	case entity.KindDecreaseCredit:
		b.CreditLimit = b.CreditLimit.Add(amount)
	}
	return b, nil
}
