package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogOrderItemRequest línea del pedido; precio y nombre se toman del producto.
type CatalogOrderItemRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	VariationID string `json:"variation_id" validate:"omitempty,uuid"`
	Quantity    int    `json:"quantity" validate:"gt=0"`
}

// CreateCatalogOrderRequest entrada del pedido del catálogo.
type CreateCatalogOrderRequest struct {
	CustomerName    string                    `json:"customer_name" validate:"required,max=200"`
	CustomerPhone   string                    `json:"customer_phone" validate:"required,max=20"`
	CustomerEmail   string                    `json:"customer_email" validate:"omitempty,email"`
	CustomerAddress string                    `json:"customer_address"`
	Items           []CatalogOrderItemRequest `json:"items" validate:"min=1,dive"`
	Discount        decimal.Decimal           `json:"discount" validate:"gte=0"`
	Origin          string                    `json:"origin" validate:"omitempty,oneof=whatsapp catalog store"`
	Notes           string                    `json:"notes"`
}

// UpdateCatalogOrderStatusRequest cambio de estado del pedido.
type UpdateCatalogOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new processing picking shipped delivered cancelled"`
	Notes  string `json:"notes"`
}

// CatalogOrderItemResponse línea del pedido.
type CatalogOrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	VariationID string          `json:"variation_id,omitempty"`
	Name        string          `json:"name"`
	Size        string          `json:"size,omitempty"`
	Color       string          `json:"color,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// CatalogOrderResponse salida del pedido.
type CatalogOrderResponse struct {
	ID              string                     `json:"id"`
	Number          int64                      `json:"number"`
	DisplayNumber   string                     `json:"display_number"`
	CustomerName    string                     `json:"customer_name"`
	CustomerPhone   string                     `json:"customer_phone"`
	CustomerEmail   string                     `json:"customer_email,omitempty"`
	CustomerAddress string                     `json:"customer_address,omitempty"`
	Items           []CatalogOrderItemResponse `json:"items"`
	Subtotal        decimal.Decimal            `json:"subtotal"`
	Discount        decimal.Decimal            `json:"discount"`
	Total           decimal.Decimal            `json:"total"`
	Status          string                     `json:"status"`
	Origin          string                     `json:"origin"`
	Notes           string                     `json:"notes,omitempty"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// CatalogOrderListResponse lista paginada de pedidos.
type CatalogOrderListResponse struct {
	Items []CatalogOrderResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// PurchaseOrderItemRequest línea de la orden de compra.
type PurchaseOrderItemRequest struct {
	ProductID   string          `json:"product_id" validate:"omitempty,uuid"`
	VariationID string          `json:"variation_id" validate:"omitempty,uuid"`
	Description string          `json:"description" validate:"required,max=200"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	UnitCost    decimal.Decimal `json:"unit_cost" validate:"gte=0"`
}

// CreatePurchaseOrderRequest entrada de la orden de compra.
type CreatePurchaseOrderRequest struct {
	SupplierID    string                     `json:"supplier_id" validate:"omitempty,max=100"`
	SupplierName  string                     `json:"supplier_name" validate:"required,max=200"`
	OrderDate     *time.Time                 `json:"order_date"`
	ExpectedDate  *time.Time                 `json:"expected_date"`
	Items         []PurchaseOrderItemRequest `json:"items" validate:"min=1,dive"`
	Freight       decimal.Decimal            `json:"freight" validate:"gte=0"`
	Discount      decimal.Decimal            `json:"discount" validate:"gte=0"`
	PaymentMethod string                     `json:"payment_method" validate:"max=50"`
	Notes         string                     `json:"notes"`
}

// UpdatePurchaseOrderStatusRequest avance de estado (recibir y cancelar tienen endpoint propio).
type UpdatePurchaseOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved in_transit"`
}

// ReceivedItemRequest cantidad recibida de una variación.
type ReceivedItemRequest struct {
	VariationID string `json:"variation_id" validate:"required,uuid"`
	Quantity    int    `json:"quantity" validate:"gt=0"`
}

// ReceivePurchaseOrderRequest recepción de la mercadería. Sin items se reciben las cantidades pedidas.
type ReceivePurchaseOrderRequest struct {
	DeliveredDate *time.Time            `json:"delivered_date"`
	Items         []ReceivedItemRequest `json:"items" validate:"dive"`
}

// PurchaseOrderItemResponse línea de la orden.
type PurchaseOrderItemResponse struct {
	ProductID   string          `json:"product_id,omitempty"`
	VariationID string          `json:"variation_id,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Total       decimal.Decimal `json:"total"`
}

// PurchaseOrderResponse salida de la orden de compra.
type PurchaseOrderResponse struct {
	ID            string                      `json:"id"`
	Number        int64                       `json:"number"`
	DisplayNumber string                      `json:"display_number"`
	SupplierID    string                      `json:"supplier_id,omitempty"`
	SupplierName  string                      `json:"supplier_name"`
	OrderDate     time.Time                   `json:"order_date"`
	ExpectedDate  *time.Time                  `json:"expected_date,omitempty"`
	DeliveredDate *time.Time                  `json:"delivered_date,omitempty"`
	Status        string                      `json:"status"`
	Items         []PurchaseOrderItemResponse `json:"items"`
	Subtotal      decimal.Decimal             `json:"subtotal"`
	Freight       decimal.Decimal             `json:"freight"`
	Discount      decimal.Decimal             `json:"discount"`
	Total         decimal.Decimal             `json:"total"`
	PaymentMethod string                      `json:"payment_method,omitempty"`
	Notes         string                      `json:"notes,omitempty"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// NextNumberResponse número reservado sin documento.
type NextNumberResponse struct {
	DocumentType string `json:"document_type"`
	Number       int64  `json:"number"`
	Display      string `json:"display"`
}
