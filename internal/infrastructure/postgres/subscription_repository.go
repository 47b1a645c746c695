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

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

// SubscriptionRepo suscripciones del tenant sobre el gate.
type SubscriptionRepo struct {
	g *Gate
}

// NewSubscriptionRepository construye el repositorio.
func NewSubscriptionRepository(g *Gate) *SubscriptionRepo {
	return &SubscriptionRepo{g: g}
}

const subscriptionColumns = `id, tenant_id, plan, status, start_date, end_date, amount, paid, created_at, updated_at`

func (r *SubscriptionRepo) Create(ctx context.Context, s *entity.Subscription) error {
	const q = `
		INSERT INTO subscriptions (tenant_id, id, plan, status, start_date, end_date, amount, paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.g.Exec(ctx, q, s.ID, s.Plan, string(s.Status), s.StartDate, s.EndDate, s.Amount, s.Paid, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	s.TenantID, _ = r.g.Tenant(ctx)
	return nil
}

func (r *SubscriptionRepo) GetByID(ctx context.Context, id string) (*entity.Subscription, error) {
	return r.one(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE tenant_id = $1 AND id = $2`, id)
}

func (r *SubscriptionRepo) Current(ctx context.Context) (*entity.Subscription, error) {
	return r.one(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE tenant_id = $1 ORDER BY created_at DESC, id LIMIT 1`)
}

func (r *SubscriptionRepo) one(ctx context.Context, q string, args ...any) (*entity.Subscription, error) {
	s, err := scanSubscription(r.g.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	if err := r.g.Owns(ctx, s.TenantID); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SubscriptionRepo) List(ctx context.Context) ([]*entity.Subscription, error) {
	q := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE tenant_id = $1 ORDER BY created_at DESC, id`
	rows, err := r.g.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var out []*entity.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", storageErr(err))
	}
	return out, nil
}

// TransitionStatus cambio condicional de estado; false si la fila ya no estaba en from.
func (r *SubscriptionRepo) TransitionStatus(ctx context.Context, id string, from, to entity.SubscriptionStatus) (bool, error) {
	const q = `UPDATE subscriptions SET status = $4, updated_at = now() WHERE tenant_id = $1 AND id = $2 AND status = $3`
	cmd, err := r.g.Exec(ctx, q, id, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("transition subscription: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *SubscriptionRepo) Update(ctx context.Context, s *entity.Subscription) error {
	const q = `
		UPDATE subscriptions SET plan = $3, status = $4, end_date = $5, amount = $6, paid = $7, updated_at = $8
		WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.g.Exec(ctx, q, s.ID, s.Plan, string(s.Status), s.EndDate, s.Amount, s.Paid, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSubscription(s pgxScanner) (*entity.Subscription, error) {
	var sub entity.Subscription
	var status string
	if err := s.Scan(&sub.ID, &sub.TenantID, &sub.Plan, &status, &sub.StartDate, &sub.EndDate,
		&sub.Amount, &sub.Paid, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, err
	}
	sub.Status = entity.SubscriptionStatus(status)
	return &sub, nil
}
