package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación del puerto CustomerRepository sobre el gate.
type CustomerRepo struct {
	g *Gate
}

// NewCustomerRepository construye el adaptador de persistencia para clientes.
func NewCustomerRepository(g *Gate) *CustomerRepo {
	return &CustomerRepo{g: g}
}

const customerColumns = `id, tenant_id, name, COALESCE(document, ''), phone, email, address, city, state, zip_code,
	debit, credit_limit, notes, active, created_at, updated_at`

// Create persiste un nuevo cliente. Un documento vacío se guarda como NULL para no chocar con la clave única.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	const q = `
		INSERT INTO customers (tenant_id, id, name, document, phone, email, address, city, state, zip_code,
			debit, credit_limit, notes, active, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.g.Exec(ctx, q,
		c.ID, c.Name, c.Document, c.Phone, c.Email, c.Address, c.City, c.State, c.ZipCode,
		c.Debit, c.CreditLimit, c.Notes, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return duplicateErr(err)
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	c.TenantID, _ = r.g.Tenant(ctx)
	return nil
}

// GetByID obtiene un cliente activo o inactivo. nil, nil si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.get(ctx, `SELECT `+customerColumns+` FROM customers WHERE tenant_id = $1 AND id = $2`, id)
}

// GetForUpdate bloquea la fila del cliente (SELECT FOR UPDATE).
func (r *CustomerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.get(ctx, `SELECT `+customerColumns+` FROM customers WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, id)
}

func (r *CustomerRepo) get(ctx context.Context, q, id string) (*entity.Customer, error) {
	c, err := scanCustomer(r.g.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if err := r.g.Owns(ctx, c.TenantID); err != nil {
		return nil, err
	}
	return c, nil
}

// Update actualiza el perfil. Débito y límite solo cambian con UpdateBalance.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	const q = `
		UPDATE customers
		SET name = $3, document = NULLIF($4, ''), phone = $5, email = $6, address = $7, city = $8,
		    state = $9, zip_code = $10, notes = $11, updated_at = $12
		WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.g.Exec(ctx, q,
		c.ID, c.Name, c.Document, c.Phone, c.Email, c.Address, c.City, c.State, c.ZipCode, c.Notes, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return duplicateErr(err)
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CustomerRepo) UpdateBalance(ctx context.Context, id string, debit, creditLimit decimal.Decimal) error {
	const q = `UPDATE customers SET debit = $3, credit_limit = $4, updated_at = now() WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.g.Exec(ctx, q, id, debit, creditLimit)
	if err != nil {
		return fmt.Errorf("update customer balance: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List clientes activos del tenant; search filtra por nombre, documento o teléfono.
func (r *CustomerRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Customer, error) {
	q := `SELECT ` + customerColumns + ` FROM customers
		WHERE tenant_id = $1 AND active
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR document ILIKE '%' || $2 || '%' OR phone ILIKE '%' || $2 || '%')
		ORDER BY name, id LIMIT $3 OFFSET $4`
	rows, err := r.g.Query(ctx, q, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list customers: %w", storageErr(err))
	}
	return out, nil
}

// Deactivate baja lógica del cliente.
func (r *CustomerRepo) Deactivate(ctx context.Context, id string) error {
	cmd, err := r.g.Exec(ctx, `UPDATE customers SET active = FALSE, updated_at = now() WHERE tenant_id = $1 AND id = $2`, id)
	if err != nil {
		return fmt.Errorf("deactivate customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCustomer(s pgxScanner) (*entity.Customer, error) {
	var c entity.Customer
	if err := s.Scan(&c.ID, &c.TenantID, &c.Name, &c.Document, &c.Phone, &c.Email, &c.Address, &c.City,
		&c.State, &c.ZipCode, &c.Debit, &c.CreditLimit, &c.Notes, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
