package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.VariationRepository = (*VariationRepo)(nil)

// VariationRepo variaciones talla/color sobre el gate.
type VariationRepo struct {
	g *Gate
}

// NewVariationRepository construye el repositorio.
func NewVariationRepository(g *Gate) *VariationRepo {
	return &VariationRepo{g: g}
}

const variationColumns = `id, tenant_id, product_id, size, color, sku, barcode, created_at`

func (r *VariationRepo) Create(ctx context.Context, v *entity.Variation) error {
	const q = `
		INSERT INTO variations (tenant_id, id, product_id, size, color, sku, barcode, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.g.Exec(ctx, q, v.ID, v.ProductID, v.Size, v.Color, v.SKU, v.Barcode, v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return duplicateErr(err)
		}
		return fmt.Errorf("insert variation: %w", err)
	}
	v.TenantID, _ = r.g.Tenant(ctx)
	return nil
}

func (r *VariationRepo) GetByID(ctx context.Context, id string) (*entity.Variation, error) {
	q := `SELECT ` + variationColumns + ` FROM variations WHERE tenant_id = $1 AND id = $2`
	v, err := scanVariation(r.g.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variation: %w", err)
	}
	if err := r.g.Owns(ctx, v.TenantID); err != nil {
		return nil, err
	}
	return v, nil
}

// ListByProducts carga las variaciones de varios productos en una sola consulta.
func (r *VariationRepo) ListByProducts(ctx context.Context, productIDs []string) ([]*entity.Variation, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	q := `SELECT ` + variationColumns + ` FROM variations
		WHERE tenant_id = $1 AND product_id = ANY($2::uuid[])
		ORDER BY created_at, id`
	rows, err := r.g.Query(ctx, q, productIDs)
	if err != nil {
		return nil, fmt.Errorf("list variations: %w", err)
	}
	defer rows.Close()

	var out []*entity.Variation
	for rows.Next() {
		v, err := scanVariation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variation: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list variations: %w", storageErr(err))
	}
	return out, nil
}

func (r *VariationRepo) DeleteByProduct(ctx context.Context, productID string) error {
	if _, err := r.g.Exec(ctx, `DELETE FROM variations WHERE tenant_id = $1 AND product_id = $2`, productID); err != nil {
		return fmt.Errorf("delete variations: %w", err)
	}
	return nil
}

func scanVariation(s pgxScanner) (*entity.Variation, error) {
	var v entity.Variation
	if err := s.Scan(&v.ID, &v.TenantID, &v.ProductID, &v.Size, &v.Color, &v.SKU, &v.Barcode, &v.CreatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}
