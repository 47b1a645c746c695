package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory categoría asignada cuando el producto llega sin una.
const DefaultCategory = "Geral"

// Product representa un producto del catálogo de la tienda (tenant).
// Las tallas/colores viven en Variation y cada variación tiene exactamente un Stock.
type Product struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	Brand       string
	Category    string
	CostPrice   decimal.Decimal
	SalePrice   decimal.Decimal
	Images      []string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Variation combinación talla/color de un producto.
type Variation struct {
	ID        string
	TenantID  string
	ProductID string
	Size      string
	Color     string
	SKU       *string // único por tenant cuando está presente
	Barcode   *string // único por tenant cuando está presente
	CreatedAt time.Time
}

// ProductAggregate Product con sus variaciones y el stock de cada una.
// Se crea, actualiza y elimina siempre como una unidad.
type ProductAggregate struct {
	Product    Product
	Variations []VariationStock
}

// VariationStock variación junto a su único registro de stock.
type VariationStock struct {
	Variation Variation
	Stock     Stock
}
