package customer

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// Repos repositorios del cliente y su libro, atados a la misma transacción.
type Repos struct {
	Customers    repository.CustomerRepository
	Transactions repository.CustomerTransactionRepository
}

// TxRunner ejecuta fn dentro de una transacción.
type TxRunner interface {
	RunCustomer(ctx context.Context, fn func(r Repos) error) error
}
