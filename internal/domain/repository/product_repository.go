package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las implementaciones toman el tenant del contexto; GetByID devuelve nil, nil si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}

// VariationRepository puerto para las variaciones talla/color de un producto.
type VariationRepository interface {
	Create(ctx context.Context, v *entity.Variation) error
	GetByID(ctx context.Context, id string) (*entity.Variation, error)
	ListByProducts(ctx context.Context, productIDs []string) ([]*entity.Variation, error)
	DeleteByProduct(ctx context.Context, productID string) error
}
