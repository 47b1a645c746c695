package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePayableRequest entrada de una cuenta por pagar.
type CreatePayableRequest struct {
	Description       string          `json:"description" validate:"required,max=200"`
	SupplierID        string          `json:"supplier_id" validate:"max=100"`
	PurchaseOrderID   string          `json:"purchase_order_id" validate:"omitempty,uuid"`
	Category          string          `json:"category" validate:"max=100"`
	Amount            decimal.Decimal `json:"amount" validate:"gt=0"`
	IssueDate         *time.Time      `json:"issue_date"`
	DueDate           time.Time       `json:"due_date" validate:"required"`
	PaymentMethod     string          `json:"payment_method" validate:"max=50"`
	InstallmentNumber int             `json:"installment_number" validate:"gte=0"`
	InstallmentCount  int             `json:"installment_count" validate:"gte=0"`
	Notes             string          `json:"notes"`
}

// CreateReceivableRequest entrada de una cuenta por cobrar.
type CreateReceivableRequest struct {
	Description       string          `json:"description" validate:"required,max=200"`
	CustomerID        string          `json:"customer_id" validate:"omitempty,uuid"`
	CustomerName      string          `json:"customer_name" validate:"max=200"`
	Amount            decimal.Decimal `json:"amount" validate:"gt=0"`
	IssueDate         *time.Time      `json:"issue_date"`
	DueDate           time.Time       `json:"due_date" validate:"required"`
	PaymentMethod     string          `json:"payment_method" validate:"max=50"`
	InstallmentNumber int             `json:"installment_number" validate:"gte=0"`
	InstallmentCount  int             `json:"installment_count" validate:"gte=0"`
	Notes             string          `json:"notes"`
}

// SettleRequest pago o cobro parcial/total.
type SettleRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	PaymentMethod string          `json:"payment_method" validate:"max=50"`
	Date          *time.Time      `json:"date"`
}

// BillListQuery filtros de listado de cuentas.
type BillListQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=pending paid received overdue cancelled"`
	Month  int    `query:"month" validate:"gte=0,max=12"`
	Year   int    `query:"year" validate:"gte=0"`
}

// PayableResponse salida de cuenta por pagar.
type PayableResponse struct {
	ID                string          `json:"id"`
	Description       string          `json:"description"`
	SupplierID        string          `json:"supplier_id,omitempty"`
	PurchaseOrderID   string          `json:"purchase_order_id,omitempty"`
	Category          string          `json:"category,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	AmountPaid        decimal.Decimal `json:"amount_paid"`
	IssueDate         time.Time       `json:"issue_date"`
	DueDate           time.Time       `json:"due_date"`
	PaymentDate       *time.Time      `json:"payment_date,omitempty"`
	Status            string          `json:"status"`
	PaymentMethod     string          `json:"payment_method,omitempty"`
	InstallmentNumber int             `json:"installment_number"`
	InstallmentCount  int             `json:"installment_count"`
	Notes             string          `json:"notes,omitempty"`
}

// ReceivableResponse salida de cuenta por cobrar.
type ReceivableResponse struct {
	ID                string          `json:"id"`
	Description       string          `json:"description"`
	CustomerID        string          `json:"customer_id,omitempty"`
	CustomerName      string          `json:"customer_name,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	AmountReceived    decimal.Decimal `json:"amount_received"`
	IssueDate         time.Time       `json:"issue_date"`
	DueDate           time.Time       `json:"due_date"`
	ReceivedDate      *time.Time      `json:"received_date,omitempty"`
	Status            string          `json:"status"`
	PaymentMethod     string          `json:"payment_method,omitempty"`
	InstallmentNumber int             `json:"installment_number"`
	InstallmentCount  int             `json:"installment_count"`
	Notes             string          `json:"notes,omitempty"`
}

// CreateSubscriptionRequest alta de suscripción. TrialDays > 0 crea un trial con fecha de fin.
type CreateSubscriptionRequest struct {
	Plan      string          `json:"plan" validate:"required,max=100"`
	Status    string          `json:"status" validate:"omitempty,oneof=trial active pending"`
	StartDate *time.Time      `json:"start_date"`
	EndDate   *time.Time      `json:"end_date"`
	TrialDays int             `json:"trial_days" validate:"gte=0,max=365"`
	Amount    decimal.Decimal `json:"amount" validate:"gte=0"`
}

// UpdateSubscriptionStatusRequest cambio manual de estado.
type UpdateSubscriptionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=trial active pending suspended cancelled"`
	Paid   *bool  `json:"paid"`
}

// SubscriptionResponse salida de la suscripción con días restantes del trial.
type SubscriptionResponse struct {
	ID            string          `json:"id"`
	Plan          string          `json:"plan"`
	Status        string          `json:"status"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Paid          bool            `json:"paid"`
	RemainingDays *int            `json:"remaining_days,omitempty"`
}
