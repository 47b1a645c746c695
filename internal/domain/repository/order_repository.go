package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// CatalogOrderRepository puerto de persistencia de pedidos del catálogo.
// Create devuelve domain.ErrNumberTaken si el número ya existe para el tenant.
type CatalogOrderRepository interface {
	Create(ctx context.Context, o *entity.CatalogOrder) error
	GetByID(ctx context.Context, id string) (*entity.CatalogOrder, error)
	List(ctx context.Context, status entity.CatalogOrderStatus, limit, offset int) ([]*entity.CatalogOrder, error)
	UpdateStatus(ctx context.Context, id string, status entity.CatalogOrderStatus, notes string) error
}

// PurchaseOrderRepository puerto de persistencia de órdenes de compra.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, o *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	List(ctx context.Context, status entity.PurchaseOrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, o *entity.PurchaseOrder) error
}
