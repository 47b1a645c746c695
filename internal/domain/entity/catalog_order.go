package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogOrderStatus estado del pedido del catálogo.
type CatalogOrderStatus string

const (
	CatalogOrderNew        CatalogOrderStatus = "new"
	CatalogOrderProcessing CatalogOrderStatus = "processing"
	CatalogOrderPicking    CatalogOrderStatus = "picking"
	CatalogOrderShipped    CatalogOrderStatus = "shipped"
	CatalogOrderDelivered  CatalogOrderStatus = "delivered"
	CatalogOrderCancelled  CatalogOrderStatus = "cancelled"
)

// Valid indica si el estado es conocido.
func (s CatalogOrderStatus) Valid() bool {
	switch s {
	case CatalogOrderNew, CatalogOrderProcessing, CatalogOrderPicking,
		CatalogOrderShipped, CatalogOrderDelivered, CatalogOrderCancelled:
		return true
	}
	return false
}

// Final indica que el pedido ya no admite cambios de estado.
func (s CatalogOrderStatus) Final() bool {
	return s == CatalogOrderDelivered || s == CatalogOrderCancelled
}

// OrderOrigin canal por el que llegó el pedido.
type OrderOrigin string

const (
	OriginWhatsApp OrderOrigin = "whatsapp"
	OriginCatalog  OrderOrigin = "catalog"
	OriginStore    OrderOrigin = "store"
)

// Valid indica si el origen es conocido.
func (o OrderOrigin) Valid() bool {
	return o == OriginWhatsApp || o == OriginCatalog || o == OriginStore
}

// CatalogOrder pedido recibido por el catálogo público o WhatsApp.
type CatalogOrder struct {
	ID              string
	TenantID        string
	Number          int64
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	CustomerAddress string
	Items           []CatalogOrderItem
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
	Status          CatalogOrderStatus
	Origin          OrderOrigin
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DisplayNumber número visible del pedido (#0001).
func (o CatalogOrder) DisplayNumber() string {
	return DocCatalogOrder.Display(o.Number)
}

// CatalogOrderItem línea del pedido; nombre y precio se copian del producto al crearla.
type CatalogOrderItem struct {
	ProductID   string          `json:"product_id"`
	VariationID string          `json:"variation_id,omitempty"`
	Name        string          `json:"name"`
	Size        string          `json:"size,omitempty"`
	Color       string          `json:"color,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}
