// Package catalog reglas puras del catálogo: margen de ganancia y ajustes de stock.
package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Margin devuelve el margen porcentual (sale − cost)/cost × 100. Con cost 0 el margen es 0.
func Margin(cost, sale decimal.Decimal) decimal.Decimal {
	if cost.IsZero() {
		return decimal.Zero
	}
	return sale.Sub(cost).Div(cost).Mul(hundred)
}

// FormatMargin formatea el margen con dos decimales y sufijo %, p. ej. "100.00%".
func FormatMargin(cost, sale decimal.Decimal) string {
	return Margin(cost, sale).StringFixed(2) + "%"
}

// ApplyStockOperation calcula la nueva cantidad tras un ajuste manual.
// Restar por debajo de cero devuelve ErrInsufficientStock.
func ApplyStockOperation(current int, op entity.StockOperation, qty int) (int, error) {
	if qty < 0 {
		return 0, domain.Invalid("quantity", "no puede ser negativa")
	}
	switch op {
	case entity.StockAdd:
		return current + qty, nil
	case entity.StockSubtract:
		if qty > current {
			return 0, domain.ErrInsufficientStock
		}
		return current - qty, nil
	case entity.StockSet:
		return qty, nil
	default:
		return 0, domain.Invalid("operation", "debe ser add, subtract o set")
	}
}
