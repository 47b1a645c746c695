package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// VariationRequest variación talla/color con su stock inicial.
type VariationRequest struct {
	Size         string  `json:"size" validate:"required,max=20"`
	Color        string  `json:"color" validate:"required,max=50"`
	SKU          *string `json:"sku" validate:"omitempty,max=100"`
	Barcode      *string `json:"barcode" validate:"omitempty,max=100"`
	Quantity     *int    `json:"quantity" validate:"omitempty,gte=0"`      // por defecto 0
	MinThreshold *int    `json:"min_threshold" validate:"omitempty,gte=0"` // por defecto CATALOG_DEFAULT_MIN_STOCK
	Location     string  `json:"location" validate:"max=100"`
}

// ProductRequest entrada para crear o reemplazar un producto con todas sus variaciones.
type ProductRequest struct {
	Name        string             `json:"name" validate:"required,max=200"`
	Description string             `json:"description"`
	Brand       string             `json:"brand" validate:"required,max=100"`
	Category    string             `json:"category" validate:"max=100"`
	CostPrice   decimal.Decimal    `json:"cost_price" validate:"gte=0"`
	SalePrice   decimal.Decimal    `json:"sale_price" validate:"gte=0"`
	Images      []string           `json:"images"`
	Active      *bool              `json:"active"`
	Variations  []VariationRequest `json:"variations" validate:"min=1,dive"`
}

// StockResponse stock de una variación.
type StockResponse struct {
	Quantity     int    `json:"quantity"`
	MinThreshold int    `json:"min_threshold"`
	Location     string `json:"location,omitempty"`
	Low          bool   `json:"low"`
}

// VariationResponse variación con su stock.
type VariationResponse struct {
	ID      string        `json:"id"`
	Size    string        `json:"size"`
	Color   string        `json:"color"`
	SKU     *string       `json:"sku"`
	Barcode *string       `json:"barcode"`
	Stock   StockResponse `json:"stock"`
}

// ProductResponse salida del agregado producto.
type ProductResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Brand       string              `json:"brand"`
	Category    string              `json:"category"`
	CostPrice   decimal.Decimal     `json:"cost_price"`
	SalePrice   decimal.Decimal     `json:"sale_price"`
	Margin      string              `json:"margin"`
	Images      []string            `json:"images"`
	Active      bool                `json:"active"`
	TotalStock  int                 `json:"total_stock"`
	Variations  []VariationResponse `json:"variations"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// StockAdjustRequest ajuste manual del stock de una variación.
type StockAdjustRequest struct {
	Operation string `json:"operation" validate:"required,oneof=add subtract set"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

// StockAdjustResponse resultado del ajuste.
type StockAdjustResponse struct {
	VariationID string `json:"variation_id"`
	Previous    int    `json:"previous"`
	Quantity    int    `json:"quantity"`
	Low         bool   `json:"low"`
}

// LowStockResponse fila del reporte de stock bajo.
type LowStockResponse struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	Brand        string `json:"brand"`
	VariationID  string `json:"variation_id"`
	Size         string `json:"size"`
	Color        string `json:"color"`
	Quantity     int    `json:"quantity"`
	MinThreshold int    `json:"min_threshold"`
}
