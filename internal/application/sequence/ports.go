package sequence

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// Repos repositorios disponibles dentro de la transacción de un documento numerado.
type Repos struct {
	Sequences      repository.DocumentSequenceRepository
	CatalogOrders  repository.CatalogOrderRepository
	PurchaseOrders repository.PurchaseOrderRepository
	Products       repository.ProductRepository
	Variations     repository.VariationRepository
	Stock          repository.StockRepository
}

// TxRunner ejecuta fn dentro de una transacción de documento.
type TxRunner interface {
	RunDocument(ctx context.Context, fn func(r Repos) error) error
}
