package entity

import "time"

// Stock cantidad disponible de una variación. Exactamente uno por Variation.
type Stock struct {
	ID           string
	TenantID     string
	VariationID  string
	Quantity     int
	MinThreshold int // umbral de reposición; quantity <= min_threshold es stock bajo
	Location     string
	UpdatedAt    time.Time
}

// IsLow indica si la variación está en o por debajo del umbral mínimo.
func (s Stock) IsLow() bool {
	return s.Quantity <= s.MinThreshold
}

// StockOperation tipo de ajuste manual de stock.
type StockOperation string

const (
	StockAdd      StockOperation = "add"
	StockSubtract StockOperation = "subtract"
	StockSet      StockOperation = "set"
)

// LowStockItem fila del reporte de stock bajo.
type LowStockItem struct {
	ProductID    string
	ProductName  string
	Brand        string
	VariationID  string
	Size         string
	Color        string
	Quantity     int
	MinThreshold int
}
