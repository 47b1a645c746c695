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

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación del puerto StockRepository (uno por variación).
type StockRepo struct {
	g *Gate
}

// NewStockRepository construye el adaptador (pool o tx vía gate).
func NewStockRepository(g *Gate) *StockRepo {
	return &StockRepo{g: g}
}

const stockColumns = `id, tenant_id, variation_id, quantity, min_threshold, COALESCE(location, ''), updated_at`

func (r *StockRepo) Create(ctx context.Context, s *entity.Stock) error {
	const q = `
		INSERT INTO stock (tenant_id, id, variation_id, quantity, min_threshold, location, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)`
	_, err := r.g.Exec(ctx, q, s.ID, s.VariationID, s.Quantity, s.MinThreshold, s.Location, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return duplicateErr(err)
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	s.TenantID, _ = r.g.Tenant(ctx)
	return nil
}

func (r *StockRepo) ListByVariations(ctx context.Context, variationIDs []string) ([]*entity.Stock, error) {
	if len(variationIDs) == 0 {
		return nil, nil
	}
	q := `SELECT ` + stockColumns + ` FROM stock WHERE tenant_id = $1 AND variation_id = ANY($2::uuid[])`
	rows, err := r.g.Query(ctx, q, variationIDs)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var out []*entity.Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stock: %w", storageErr(err))
	}
	return out, nil
}

// GetForUpdate bloquea la fila de stock hasta el fin de la transacción.
func (r *StockRepo) GetForUpdate(ctx context.Context, variationID string) (*entity.Stock, error) {
	q := `SELECT ` + stockColumns + ` FROM stock WHERE tenant_id = $1 AND variation_id = $2 FOR UPDATE`
	s, err := scanStock(r.g.QueryRow(ctx, q, variationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	if err := r.g.Owns(ctx, s.TenantID); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StockRepo) UpdateQuantity(ctx context.Context, variationID string, quantity int) error {
	const q = `UPDATE stock SET quantity = $3, updated_at = now() WHERE tenant_id = $1 AND variation_id = $2`
	cmd, err := r.g.Exec(ctx, q, variationID, quantity)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockRepo) DeleteByProduct(ctx context.Context, productID string) error {
	const q = `
		DELETE FROM stock s
		USING variations v
		WHERE s.tenant_id = $1 AND v.tenant_id = $1
		  AND s.variation_id = v.id AND v.product_id = $2`
	if _, err := r.g.Exec(ctx, q, productID); err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	return nil
}

// ListLow variaciones del tenant con quantity <= min_threshold.
func (r *StockRepo) ListLow(ctx context.Context) ([]entity.LowStockItem, error) {
	const q = `
		SELECT p.id, p.name, p.brand, v.id, v.size, v.color, s.quantity, s.min_threshold
		FROM stock s
		JOIN variations v ON v.id = s.variation_id AND v.tenant_id = s.tenant_id
		JOIN products p ON p.id = v.product_id AND p.tenant_id = v.tenant_id
		WHERE s.tenant_id = $1 AND p.active AND s.quantity <= s.min_threshold
		ORDER BY s.quantity, p.name, v.size`
	rows, err := r.g.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var out []entity.LowStockItem
	for rows.Next() {
		var it entity.LowStockItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Brand, &it.VariationID,
			&it.Size, &it.Color, &it.Quantity, &it.MinThreshold); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list low stock: %w", storageErr(err))
	}
	return out, nil
}

func scanStock(s pgxScanner) (*entity.Stock, error) {
	var st entity.Stock
	if err := s.Scan(&st.ID, &st.TenantID, &st.VariationID, &st.Quantity, &st.MinThreshold, &st.Location, &st.UpdatedAt); err != nil {
		return nil, err
	}
	return &st, nil
}
