package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// GetForUpdate bloquea la fila del cliente mientras se mueve su libro.
	GetForUpdate(ctx context.Context, id string) (*entity.Customer, error)
	Update(ctx context.Context, c *entity.Customer) error
	UpdateBalance(ctx context.Context, id string, debit, creditLimit decimal.Decimal) error
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Customer, error)
	Deactivate(ctx context.Context, id string) error
}

// CustomerTransactionRepository puerto del libro de movimientos del cliente.
type CustomerTransactionRepository interface {
	Create(ctx context.Context, t *entity.CustomerTransaction) error
	GetByID(ctx context.Context, id string) (*entity.CustomerTransaction, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.CustomerTransaction, error)
	Delete(ctx context.Context, id string) error
}
