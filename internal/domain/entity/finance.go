package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus estado de una cuenta por pagar o por cobrar.
// "paid" aplica a pagar y "received" a cobrar; el resto es común.
type BillStatus string

const (
	BillPending   BillStatus = "pending"
	BillPaid      BillStatus = "paid"
	BillReceived  BillStatus = "received"
	BillOverdue   BillStatus = "overdue"
	BillCancelled BillStatus = "cancelled"
)

// AccountPayable cuenta por pagar (proveedor, gasto fijo, etc.).
type AccountPayable struct {
	ID                string
	TenantID          string
	Description       string
	SupplierID        string
	PurchaseOrderID   string
	Category          string
	Amount            decimal.Decimal
	AmountPaid        decimal.Decimal
	IssueDate         time.Time
	DueDate           time.Time
	PaymentDate       *time.Time
	Status            BillStatus
	PaymentMethod     string
	InstallmentNumber int
	InstallmentCount  int
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AccountReceivable cuenta por cobrar a un cliente.
type AccountReceivable struct {
	ID                string
	TenantID          string
	Description       string
	CustomerID        string
	CustomerName      string
	Amount            decimal.Decimal
	AmountReceived    decimal.Decimal
	IssueDate         time.Time
	DueDate           time.Time
	ReceivedDate      *time.Time
	Status            BillStatus
	PaymentMethod     string
	InstallmentNumber int
	InstallmentCount  int
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SubscriptionStatus estado de la suscripción de la tienda al plan.
type SubscriptionStatus string

const (
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionSuspended SubscriptionStatus = "suspended"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Valid indica si el estado es conocido.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionTrial, SubscriptionActive, SubscriptionPending, SubscriptionSuspended, SubscriptionCancelled:
		return true
	}
	return false
}

// Subscription plan contratado por el tenant.
type Subscription struct {
	ID        string
	TenantID  string
	Plan      string
	Status    SubscriptionStatus
	StartDate time.Time
	EndDate   *time.Time
	Amount    decimal.Decimal
	Paid      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BillFilter filtros de listado de cuentas (por fecha de vencimiento).
type BillFilter struct {
	Statuses []BillStatus // vacío = todos
	Month    int          // 1-12; 0 = sin filtro
	Year     int          // 0 = sin filtro
}
