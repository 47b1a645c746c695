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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre el gate (pool o tx).
type ProductRepo struct {
	g *Gate
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(g *Gate) *ProductRepo {
	return &ProductRepo{g: g}
}

const productColumns = `id, tenant_id, name, description, brand, category, cost_price, sale_price, images, active, created_at, updated_at`

// Create persiste un nuevo producto; el tenant lo pone el gate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	images, err := json.Marshal(nonNilStrings(p.Images))
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}
	const q = `
		INSERT INTO products (tenant_id, id, name, description, brand, category, cost_price, sale_price, images, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.g.Exec(ctx, q,
		p.ID, p.Name, p.Description, p.Brand, p.Category, p.CostPrice, p.SalePrice,
		images, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return duplicateErr(err)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	p.TenantID, _ = r.g.Tenant(ctx)
	return nil
}

// GetByID obtiene un producto por ID. nil, nil si no existe en el tenant.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND id = $2`
	p, err := scanProduct(r.g.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.g.Owns(ctx, p.TenantID); err != nil {
		return nil, err
	}
	return p, nil
}

// Update reemplaza los datos del producto. ErrNotFound si no existe en el tenant.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	images, err := json.Marshal(nonNilStrings(p.Images))
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}
	const q = `
		UPDATE products
		SET name = $3, description = $4, brand = $5, category = $6, cost_price = $7, sale_price = $8,
		    images = $9, active = $10, updated_at = $11
		WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.g.Exec(ctx, q,
		p.ID, p.Name, p.Description, p.Brand, p.Category, p.CostPrice, p.SalePrice,
		images, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos del tenant con paginación, más recientes primero.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	rows, err := r.g.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", storageErr(err))
	}
	return out, nil
}

// Count total de productos del tenant.
func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.g.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE tenant_id = $1`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// Delete elimina el producto. ErrNotFound si no existe en el tenant.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.g.Exec(ctx, `DELETE FROM products WHERE tenant_id = $1 AND id = $2`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type pgxScanner interface {
	Scan(dest ...any) error
}

func scanProduct(s pgxScanner) (*entity.Product, error) {
	var p entity.Product
	var images []byte
	if err := s.Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &p.Brand, &p.Category,
		&p.CostPrice, &p.SalePrice, &images, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, fmt.Errorf("unmarshal images: %w", err)
		}
	}
	return &p, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
