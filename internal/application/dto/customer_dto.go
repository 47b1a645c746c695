package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRequest datos de perfil del cliente. El débito solo cambia vía movimientos del libro.
type CustomerRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Document    string          `json:"document" validate:"max=20"`
	Phone       string          `json:"phone" validate:"max=20"`
	Email       string          `json:"email" validate:"omitempty,email"`
	Address     string          `json:"address"`
	City        string          `json:"city" validate:"max=100"`
	State       string          `json:"state" validate:"max=2"`
	ZipCode     string          `json:"zip_code" validate:"max=10"`
	CreditLimit decimal.Decimal `json:"credit_limit" validate:"gte=0"` // solo en creación
	Notes       string          `json:"notes"`
}

// CustomerResponse salida del cliente con su saldo.
type CustomerResponse struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Document        string                `json:"document"`
	Phone           string                `json:"phone"`
	Email           string                `json:"email"`
	Address         string                `json:"address"`
	City            string                `json:"city"`
	State           string                `json:"state"`
	ZipCode         string                `json:"zip_code"`
	Debit           decimal.Decimal       `json:"debit"`
	CreditLimit     decimal.Decimal       `json:"credit_limit"`
	AvailableCredit decimal.Decimal       `json:"available_credit"`
	Notes           string                `json:"notes"`
	Active          bool                  `json:"active"`
	Transactions    []TransactionResponse `json:"transactions,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// TransactionRequest movimiento del libro del cliente.
type TransactionRequest struct {
	Kind        string          `json:"kind" validate:"required,oneof=add-debit pay-debit increase-credit decrease-credit"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Description string          `json:"description" validate:"max=500"`
	Date        *time.Time      `json:"date"`
}

// TransactionResponse entrada del libro.
type TransactionResponse struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	RecordedAt  time.Time       `json:"recorded_at"`
}

// LedgerResultResponse saldo del cliente tras aplicar o revertir un movimiento.
type LedgerResultResponse struct {
	Customer    CustomerResponse     `json:"customer"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}
