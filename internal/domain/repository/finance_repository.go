package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// OverdueMarker transición condicional pending -> overdue.
// Devuelve false si la fila ya no estaba pendiente (otro lector la reconcilió).
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, id string) (bool, error)
}

// AccountPayableRepository puerto de cuentas por pagar.
type AccountPayableRepository interface {
	OverdueMarker
	Create(ctx context.Context, a *entity.AccountPayable) error
	GetByID(ctx context.Context, id string) (*entity.AccountPayable, error)
	List(ctx context.Context, f entity.BillFilter) ([]*entity.AccountPayable, error)
	Update(ctx context.Context, a *entity.AccountPayable) error
}

// AccountReceivableRepository puerto de cuentas por cobrar.
type AccountReceivableRepository interface {
	OverdueMarker
	Create(ctx context.Context, a *entity.AccountReceivable) error
	GetByID(ctx context.Context, id string) (*entity.AccountReceivable, error)
	List(ctx context.Context, f entity.BillFilter) ([]*entity.AccountReceivable, error)
	Update(ctx context.Context, a *entity.AccountReceivable) error
}

// SubscriptionRepository puerto de suscripciones del tenant.
type SubscriptionRepository interface {
	Create(ctx context.Context, s *entity.Subscription) error
	GetByID(ctx context.Context, id string) (*entity.Subscription, error)
	// Current devuelve la suscripción más reciente del tenant (nil, nil si no tiene).
	Current(ctx context.Context) (*entity.Subscription, error)
	List(ctx context.Context) ([]*entity.Subscription, error)
	// TransitionStatus cambia el estado solo si sigue siendo from.
	TransitionStatus(ctx context.Context, id string, from, to entity.SubscriptionStatus) (bool, error)
	Update(ctx context.Context, s *entity.Subscription) error
}
