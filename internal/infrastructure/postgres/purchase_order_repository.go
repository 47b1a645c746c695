package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra sobre el gate.
type PurchaseOrderRepo struct {
	g *Gate
}

// NewPurchaseOrderRepository construye el repositorio.
func NewPurchaseOrderRepository(g *Gate) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{g: g}
}

const purchaseOrderColumns = `id, tenant_id, number, supplier_id, supplier_name, order_date, expected_date, delivered_date,
	status, items, subtotal, freight, discount, total, payment_method, notes, created_at, updated_at`

func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	const q = `
		INSERT INTO purchase_orders (tenant_id, id, number, supplier_id, supplier_name, order_date, expected_date,
			delivered_date, status, items, subtotal, freight, discount, total, payment_method, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err = r.g.Exec(ctx, q,
		o.ID, o.Number, o.SupplierID, o.SupplierName, o.OrderDate, o.ExpectedDate, o.DeliveredDate,
		string(o.Status), items, o.Subtotal, o.Freight, o.Discount, o.Total, o.PaymentMethod, o.Notes,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if isNumberKey(err) {
				return domain.ErrNumberTaken
			}
			return duplicateErr(err)
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	o.TenantID, _ = r.g.Tenant(ctx)
	return nil
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE tenant_id = $1 AND id = $2`, id)
}

// GetForUpdate bloquea la orden mientras se recibe o cancela.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, id)
}

func (r *PurchaseOrderRepo) get(ctx context.Context, q, id string) (*entity.PurchaseOrder, error) {
	o, err := scanPurchaseOrder(r.g.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if err := r.g.Owns(ctx, o.TenantID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PurchaseOrderRepo) List(ctx context.Context, status entity.PurchaseOrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	q := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders
		WHERE tenant_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY number DESC LIMIT $3 OFFSET $4`
	rows, err := r.g.Query(ctx, q, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.PurchaseOrder
	for rows.Next() {
		o, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", storageErr(err))
	}
	return out, nil
}

// UpdateStatus persiste estado y fecha de entrega.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, o *entity.PurchaseOrder) error {
	const q = `
		UPDATE purchase_orders SET status = $3, delivered_date = $4, updated_at = $5
		WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.g.Exec(ctx, q, o.ID, string(o.Status), o.DeliveredDate, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPurchaseOrder(s pgxScanner) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	var items []byte
	var status string
	if err := s.Scan(&o.ID, &o.TenantID, &o.Number, &o.SupplierID, &o.SupplierName, &o.OrderDate,
		&o.ExpectedDate, &o.DeliveredDate, &status, &items, &o.Subtotal, &o.Freight, &o.Discount, &o.Total,
		&o.PaymentMethod, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = entity.PurchaseOrderStatus(status)
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
	}
	return &o, nil
}
