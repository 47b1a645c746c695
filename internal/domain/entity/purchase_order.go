package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus estado de la orden de compra al proveedor.
type PurchaseOrderStatus string

const (
	PurchaseOrderPending   PurchaseOrderStatus = "pending"
	PurchaseOrderApproved  PurchaseOrderStatus = "approved"
	PurchaseOrderInTransit PurchaseOrderStatus = "in_transit"
	PurchaseOrderReceived  PurchaseOrderStatus = "received"
	PurchaseOrderCancelled PurchaseOrderStatus = "cancelled"
)

// Valid indica si el estado es conocido.
func (s PurchaseOrderStatus) Valid() bool {
	switch s {
	case PurchaseOrderPending, PurchaseOrderApproved, PurchaseOrderInTransit,
		PurchaseOrderReceived, PurchaseOrderCancelled:
		return true
	}
	return false
}

// PurchaseOrder orden de compra numerada PC-000001 por tenant.
type PurchaseOrder struct {
	ID            string
	TenantID      string
	Number        int64
	SupplierID    string
	SupplierName  string
	OrderDate     time.Time
	ExpectedDate  *time.Time
	DeliveredDate *time.Time
	Status        PurchaseOrderStatus
	Items         []PurchaseOrderItem
	Subtotal      decimal.Decimal
	Freight       decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DisplayNumber número visible de la orden (PC-000001).
func (o PurchaseOrder) DisplayNumber() string {
	return DocPurchaseOrder.Display(o.Number)
}

// PurchaseOrderItem línea de la orden. VariationID permite dar entrada al stock al recibir.
type PurchaseOrderItem struct {
	ProductID   string          `json:"product_id,omitempty"`
	VariationID string          `json:"variation_id,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Total       decimal.Decimal `json:"total"`
}

// ReceivedItem cantidad efectivamente recibida de una variación.
type ReceivedItem struct {
	VariationID string
	Quantity    int
}
