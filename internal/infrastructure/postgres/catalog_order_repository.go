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

var _ repository.CatalogOrderRepository = (*CatalogOrderRepo)(nil)

// CatalogOrderRepo pedidos del catálogo sobre el gate.
type CatalogOrderRepo struct {
	g *Gate
}

// NewCatalogOrderRepository construye el repositorio.
func NewCatalogOrderRepository(g *Gate) *CatalogOrderRepo {
	return &CatalogOrderRepo{g: g}
}

const catalogOrderColumns = `id, tenant_id, number, customer_name, customer_phone, customer_email, customer_address,
	items, subtotal, discount, total, status, origin, notes, created_at, updated_at`

// Create inserta el pedido. La clave (tenant_id, number) duplicada se reporta como ErrNumberTaken.
func (r *CatalogOrderRepo) Create(ctx context.Context, o *entity.CatalogOrder) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	const q = `
		INSERT INTO catalog_orders (tenant_id, id, number, customer_name, customer_phone, customer_email, customer_address,
			items, subtotal, discount, total, status, origin, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err = r.g.Exec(ctx, q,
		o.ID, o.Number, o.CustomerName, o.CustomerPhone, o.CustomerEmail, o.CustomerAddress,
		items, o.Subtotal, o.Discount, o.Total, string(o.Status), string(o.Origin), o.Notes, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if isNumberKey(err) {
				return domain.ErrNumberTaken
			}
			return duplicateErr(err)
		}
		return fmt.Errorf("insert catalog order: %w", err)
	}
	o.TenantID, _ = r.g.Tenant(ctx)
	return nil
}

func (r *CatalogOrderRepo) GetByID(ctx context.Context, id string) (*entity.CatalogOrder, error) {
	q := `SELECT ` + catalogOrderColumns + ` FROM catalog_orders WHERE tenant_id = $1 AND id = $2`
	o, err := scanCatalogOrder(r.g.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog order: %w", err)
	}
	if err := r.g.Owns(ctx, o.TenantID); err != nil {
		return nil, err
	}
	return o, nil
}

// List pedidos del tenant, opcionalmente por estado, más recientes primero.
func (r *CatalogOrderRepo) List(ctx context.Context, status entity.CatalogOrderStatus, limit, offset int) ([]*entity.CatalogOrder, error) {
	q := `SELECT ` + catalogOrderColumns + ` FROM catalog_orders
		WHERE tenant_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY number DESC LIMIT $3 OFFSET $4`
	rows, err := r.g.Query(ctx, q, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list catalog orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.CatalogOrder
	for rows.Next() {
		o, err := scanCatalogOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list catalog orders: %w", storageErr(err))
	}
	return out, nil
}

func (r *CatalogOrderRepo) UpdateStatus(ctx context.Context, id string, status entity.CatalogOrderStatus, notes string) error {
	const q = `UPDATE catalog_orders SET status = $3, notes = $4, updated_at = now() WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.g.Exec(ctx, q, id, string(status), notes)
	if err != nil {
		return fmt.Errorf("update catalog order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCatalogOrder(s pgxScanner) (*entity.CatalogOrder, error) {
	var o entity.CatalogOrder
	var items []byte
	var status, origin string
	if err := s.Scan(&o.ID, &o.TenantID, &o.Number, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail,
		&o.CustomerAddress, &items, &o.Subtotal, &o.Discount, &o.Total, &status, &origin, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = entity.CatalogOrderStatus(status)
	o.Origin = entity.OrderOrigin(origin)
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
	}
	return &o, nil
}
