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

var _ repository.AccountReceivableRepository = (*AccountReceivableRepo)(nil)

// AccountReceivableRepo cuentas por cobrar sobre el gate.
type AccountReceivableRepo struct {
	g *Gate
}

// NewAccountReceivableRepository construye el repositorio.
func NewAccountReceivableRepository(g *Gate) *AccountReceivableRepo {
	return &AccountReceivableRepo{g: g}
}

const receivableColumns = `id, tenant_id, description, COALESCE(customer_id::text, ''), customer_name,
	amount, amount_received, issue_date, due_date, received_date, status, payment_method,
	installment_number, installment_count, notes, created_at, updated_at`

func (r *AccountReceivableRepo) Create(ctx context.Context, a *entity.AccountReceivable) error {
	const q = `
		INSERT INTO accounts_receivable (tenant_id, id, description, customer_id, customer_name, amount,
			amount_received, issue_date, due_date, received_date, status, payment_method, installment_number,
			installment_count, notes, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.g.Exec(ctx, q,
		a.ID, a.Description, a.CustomerID, a.CustomerName, a.Amount, a.AmountReceived,
		a.IssueDate, a.DueDate, a.ReceivedDate, string(a.Status), a.PaymentMethod, a.InstallmentNumber,
		a.InstallmentCount, a.Notes, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account receivable: %w", err)
	}
	a.TenantID, _ = r.g.Tenant(ctx)
	return nil
}

func (r *AccountReceivableRepo) GetByID(ctx context.Context, id string) (*entity.AccountReceivable, error) {
	q := `SELECT ` + receivableColumns + ` FROM accounts_receivable WHERE tenant_id = $1 AND id = $2`
	a, err := scanReceivable(r.g.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account receivable: %w", err)
	}
	if err := r.g.Owns(ctx, a.TenantID); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AccountReceivableRepo) List(ctx context.Context, f entity.BillFilter) ([]*entity.AccountReceivable, error) {
	q := `SELECT ` + receivableColumns + ` FROM accounts_receivable
		WHERE tenant_id = $1
		  AND (cardinality($2::text[]) = 0 OR status = ANY($2::text[]))
		  AND ($3 = 0 OR EXTRACT(MONTH FROM due_date) = $3)
		  AND ($4 = 0 OR EXTRACT(YEAR FROM due_date) = $4)
		ORDER BY due_date, id`
	rows, err := r.g.Query(ctx, q, statusStrings(f.Statuses), f.Month, f.Year)
	if err != nil {
		return nil, fmt.Errorf("list accounts receivable: %w", err)
	}
	defer rows.Close()

	var out []*entity.AccountReceivable
	for rows.Next() {
		a, err := scanReceivable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account receivable: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts receivable: %w", storageErr(err))
	}
	return out, nil
}

func (r *AccountReceivableRepo) Update(ctx context.Context, a *entity.AccountReceivable) error {
	const q = `
		UPDATE accounts_receivable
		SET amount_received = $3, received_date = $4, status = $5, payment_method = $6, notes = $7, updated_at = $8
		WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.g.Exec(ctx, q, a.ID, a.AmountReceived, a.ReceivedDate, string(a.Status), a.PaymentMethod, a.Notes, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update account receivable: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkOverdue pending -> overdue solo si la fila sigue pendiente.
func (r *AccountReceivableRepo) MarkOverdue(ctx context.Context, id string) (bool, error) {
	const q = `UPDATE accounts_receivable SET status = 'overdue', updated_at = now()
		WHERE tenant_id = $1 AND id = $2 AND status = 'pending'`
	cmd, err := r.g.Exec(ctx, q, id)
	if err != nil {
		return false, fmt.Errorf("mark receivable overdue: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func scanReceivable(s pgxScanner) (*entity.AccountReceivable, error) {
	var a entity.AccountReceivable
	var status string
	if err := s.Scan(&a.ID, &a.TenantID, &a.Description, &a.CustomerID, &a.CustomerName,
		&a.Amount, &a.AmountReceived, &a.IssueDate, &a.DueDate, &a.ReceivedDate, &status, &a.PaymentMethod,
		&a.InstallmentNumber, &a.InstallmentCount, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = entity.BillStatus(status)
	return &a, nil
}
