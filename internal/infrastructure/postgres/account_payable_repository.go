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

var _ repository.AccountPayableRepository = (*AccountPayableRepo)(nil)

// AccountPayableRepo cuentas por pagar sobre el gate.
type AccountPayableRepo struct {
	g *Gate
}

// NewAccountPayableRepository construye el repositorio.
func NewAccountPayableRepository(g *Gate) *AccountPayableRepo {
	return &AccountPayableRepo{g: g}
}

const payableColumns = `id, tenant_id, description, supplier_id, COALESCE(purchase_order_id::text, ''), category,
	amount, amount_paid, issue_date, due_date, payment_date, status, payment_method,
	installment_number, installment_count, notes, created_at, updated_at`

func (r *AccountPayableRepo) Create(ctx context.Context, a *entity.AccountPayable) error {
	const q = `
		INSERT INTO accounts_payable (tenant_id, id, description, supplier_id, purchase_order_id, category, amount,
			amount_paid, issue_date, due_date, payment_date, status, payment_method, installment_number,
			installment_count, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.g.Exec(ctx, q,
		a.ID, a.Description, a.SupplierID, a.PurchaseOrderID, a.Category, a.Amount, a.AmountPaid,
		a.IssueDate, a.DueDate, a.PaymentDate, string(a.Status), a.PaymentMethod, a.InstallmentNumber,
		a.InstallmentCount, a.Notes, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account payable: %w", err)
	}
	a.TenantID, _ = r.g.Tenant(ctx)
	return nil
}

func (r *AccountPayableRepo) GetByID(ctx context.Context, id string) (*entity.AccountPayable, error) {
	q := `SELECT ` + payableColumns + ` FROM accounts_payable WHERE tenant_id = $1 AND id = $2`
	a, err := scanPayable(r.g.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account payable: %w", err)
	}
	if err := r.g.Owns(ctx, a.TenantID); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AccountPayableRepo) List(ctx context.Context, f entity.BillFilter) ([]*entity.AccountPayable, error) {
	q := `SELECT ` + payableColumns + ` FROM accounts_payable
		WHERE tenant_id = $1
		  AND (cardinality($2::text[]) = 0 OR status = ANY($2::text[]))
		  AND ($3 = 0 OR EXTRACT(MONTH FROM due_date) = $3)
		  AND ($4 = 0 OR EXTRACT(YEAR FROM due_date) = $4)
		ORDER BY due_date, id`
	rows, err := r.g.Query(ctx, q, statusStrings(f.Statuses), f.Month, f.Year)
	if err != nil {
		return nil, fmt.Errorf("list accounts payable: %w", err)
	}
	defer rows.Close()

	var out []*entity.AccountPayable
	for rows.Next() {
		a, err := scanPayable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account payable: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts payable: %w", storageErr(err))
	}
	return out, nil
}

func (r *AccountPayableRepo) Update(ctx context.Context, a *entity.AccountPayable) error {
	const q = `
		UPDATE accounts_payable
		SET amount_paid = $3, payment_date = $4, status = $5, payment_method = $6, notes = $7, updated_at = $8
		WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.g.Exec(ctx, q, a.ID, a.AmountPaid, a.PaymentDate, string(a.Status), a.PaymentMethod, a.Notes, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update account payable: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkOverdue pending -> overdue solo si la fila sigue pendiente.
func (r *AccountPayableRepo) MarkOverdue(ctx context.Context, id string) (bool, error) {
	const q = `UPDATE accounts_payable SET status = 'overdue', updated_at = now()
		WHERE tenant_id = $1 AND id = $2 AND status = 'pending'`
	cmd, err := r.g.Exec(ctx, q, id)
	if err != nil {
		return false, fmt.Errorf("mark payable overdue: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func scanPayable(s pgxScanner) (*entity.AccountPayable, error) {
	var a entity.AccountPayable
	var status string
	if err := s.Scan(&a.ID, &a.TenantID, &a.Description, &a.SupplierID, &a.PurchaseOrderID, &a.Category,
		&a.Amount, &a.AmountPaid, &a.IssueDate, &a.DueDate, &a.PaymentDate, &status, &a.PaymentMethod,
		&a.InstallmentNumber, &a.InstallmentCount, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = entity.BillStatus(status)
	return &a, nil
}

func statusStrings(in []entity.BillStatus) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}
