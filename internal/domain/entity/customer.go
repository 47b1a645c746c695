package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer cliente de la tienda con su saldo deudor y límite de crédito.
type Customer struct {
	ID          string
	TenantID    string
	Name        string
	Document    string // CPF/CNPJ, único por tenant
	Phone       string
	Email       string
	Address     string
	City        string
	State       string
	ZipCode     string
	Debit       decimal.Decimal
	CreditLimit decimal.Decimal
	Notes       string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TransactionKind tipo de movimiento del libro del cliente.
type TransactionKind string

const (
	KindAddDebit       TransactionKind = "add-debit"
	KindPayDebit       TransactionKind = "pay-debit"
	KindIncreaseCredit TransactionKind = "increase-credit"
	KindDecreaseCredit TransactionKind = "decrease-credit"
)

// Valid indica si el tipo es uno de los cuatro conocidos.
func (k TransactionKind) Valid() bool {
	switch k {
	case KindAddDebit, KindPayDebit, KindIncreaseCredit, KindDecreaseCredit:
		return true
	}
	return false
}

// CustomerTransaction entrada del libro; Amount es siempre el delta aplicado.
type CustomerTransaction struct {
	ID          string
	TenantID    string
	CustomerID  string
	Kind        TransactionKind
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	RecordedAt  time.Time
}
