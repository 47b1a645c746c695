package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar el stock de cada variación.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Create(ctx context.Context, s *entity.Stock) error
	ListByVariations(ctx context.Context, variationIDs []string) ([]*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). nil, nil si no existe.
	GetForUpdate(ctx context.Context, variationID string) (*entity.Stock, error)
	UpdateQuantity(ctx context.Context, variationID string, quantity int) error
	DeleteByProduct(ctx context.Context, productID string) error
	ListLow(ctx context.Context) ([]entity.LowStockItem, error)
}
