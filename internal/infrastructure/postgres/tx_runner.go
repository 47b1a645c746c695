package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/backoffice-api/internal/application/catalog"
	"github.com/jhoicas/backoffice-api/internal/application/customer"
	"github.com/jhoicas/backoffice-api/internal/application/sequence"
	"github.com/jhoicas/backoffice-api/internal/domain/tenant"
)

// Ensure TxRunner implementa los puertos transaccionales de los casos de uso.
var _ catalog.TxRunner = (*TxRunner)(nil)
var _ customer.TxRunner = (*TxRunner)(nil)
var _ sequence.TxRunner = (*TxRunner)(nil)

// TxBeginner lo que TxRunner necesita del pool (satisfecho por *pgxpool.Pool).
type TxBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL READ COMMITTED,
// con repositorios confinados al tenant del contexto.
type TxRunner struct {
	pool TxBeginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool TxBeginner) *TxRunner {
	return &TxRunner{pool: pool}
}

// inTx inicia la transacción, ejecuta fn con un gate atado a la tx y hace Commit o Rollback.
// Sin tenant en el contexto no se abre la transacción.
func (r *TxRunner) inTx(ctx context.Context, fn func(g *Gate) error) error {
	if _, err := tenant.FromContext(ctx); err != nil {
		return err
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", storageErr(err))
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(NewGate(tx)); err != nil {
		return storageErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", storageErr(err))
	}
	return nil
}

// RunCatalog transacción del agregado producto (producto, variaciones, stock).
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(catalog.Repos) error) error {
	return r.inTx(ctx, func(g *Gate) error {
		return fn(CatalogRepos(g))
	})
}

// RunCustomer transacción del cliente y su libro.
func (r *TxRunner) RunCustomer(ctx context.Context, fn func(customer.Repos) error) error {
	return r.inTx(ctx, func(g *Gate) error {
		return fn(CustomerRepos(g))
	})
}

// RunDocument transacción de un documento numerado.
func (r *TxRunner) RunDocument(ctx context.Context, fn func(sequence.Repos) error) error {
	return r.inTx(ctx, func(g *Gate) error {
		return fn(DocumentRepos(g))
	})
}

// CatalogRepos repositorios del catálogo sobre el gate (pool para lecturas, tx dentro de RunCatalog).
func CatalogRepos(g *Gate) catalog.Repos {
	return catalog.Repos{
		Products:   NewProductRepository(g),
		Variations: NewVariationRepository(g),
		Stock:      NewStockRepository(g),
	}
}

// CustomerRepos repositorios de clientes sobre el gate.
func CustomerRepos(g *Gate) customer.Repos {
	return customer.Repos{
		Customers:    NewCustomerRepository(g),
		Transactions: NewCustomerTransactionRepository(g),
	}
}

// DocumentRepos repositorios de documentos numerados sobre el gate.
func DocumentRepos(g *Gate) sequence.Repos {
	return sequence.Repos{
		Sequences:      NewDocumentSequenceRepository(g),
		CatalogOrders:  NewCatalogOrderRepository(g),
		PurchaseOrders: NewPurchaseOrderRepository(g),
		Products:       NewProductRepository(g),
		Variations:     NewVariationRepository(g),
		Stock:          NewStockRepository(g),
	}
}
