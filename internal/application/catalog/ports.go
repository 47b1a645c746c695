package catalog

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// Repos repositorios del agregado producto, atados a la misma transacción.
type Repos struct {
	Products   repository.ProductRepository
	Variations repository.VariationRepository
	Stock      repository.StockRepository
}

// TxRunner ejecuta fn dentro de una transacción; cualquier error hace rollback.
// La implementación está en infrastructure/postgres.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(r Repos) error) error
}
