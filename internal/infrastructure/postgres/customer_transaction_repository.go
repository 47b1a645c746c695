package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.CustomerTransactionRepository = (*CustomerTransactionRepo)(nil)

// CustomerTransactionRepo libro de movimientos del cliente.
type CustomerTransactionRepo struct {
	g *Gate
}

// NewCustomerTransactionRepository construye el repositorio.
func NewCustomerTransactionRepository(g *Gate) *CustomerTransactionRepo {
	return &CustomerTransactionRepo{g: g}
}

const transactionColumns = `id, tenant_id, customer_id, kind, amount, description, date, recorded_at`

func (r *CustomerTransactionRepo) Create(ctx context.Context, t *entity.CustomerTransaction) error {
	const q = `
		INSERT INTO customer_transactions (tenant_id, id, customer_id, kind, amount, description, date, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.g.Exec(ctx, q, t.ID, t.CustomerID, string(t.Kind), t.Amount, t.Description, t.Date, t.RecordedAt)
	if err != nil {
		return fmt.Errorf("insert customer transaction: %w", err)
	}
	t.TenantID, _ = r.g.Tenant(ctx)
	return nil
}

func (r *CustomerTransactionRepo) GetByID(ctx context.Context, id string) (*entity.CustomerTransaction, error) {
	q := `SELECT ` + transactionColumns + ` FROM customer_transactions WHERE tenant_id = $1 AND id = $2`
	t, err := scanTransaction(r.g.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer transaction: %w", err)
	}
	if err := r.g.Owns(ctx, t.TenantID); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *CustomerTransactionRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.CustomerTransaction, error) {
	q := `SELECT ` + transactionColumns + ` FROM customer_transactions
		WHERE tenant_id = $1 AND customer_id = $2 ORDER BY date DESC, recorded_at DESC`
	rows, err := r.g.Query(ctx, q, customerID)
	if err != nil {
		return nil, fmt.Errorf("list customer transactions: %w", err)
	}
	defer rows.Close()

	var out []*entity.CustomerTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list customer transactions: %w", storageErr(err))
	}
	return out, nil
}

func (r *CustomerTransactionRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.g.Exec(ctx, `DELETE FROM customer_transactions WHERE tenant_id = $1 AND id = $2`, id)
	if err != nil {
		return fmt.Errorf("delete customer transaction: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanTransaction(s pgxScanner) (*entity.CustomerTransaction, error) {
	var t entity.CustomerTransaction
	var kind string
	if err := s.Scan(&t.ID, &t.TenantID, &t.CustomerID, &kind, &t.Amount, &t.Description, &t.Date, &t.RecordedAt); err != nil {
		return nil, err
	}
	t.Kind = entity.TransactionKind(kind)
	return &t, nil
}
