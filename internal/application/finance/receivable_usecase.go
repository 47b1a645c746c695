package finance

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/validation"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	domfinance "github.com/jhoicas/backoffice-api/internal/domain/finance"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// CustomerReader lectura de clientes confinada al tenant del contexto.
type CustomerReader interface {
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
}

// ReceivableUseCase cuentas por cobrar.
type ReceivableUseCase struct {
	repo      repository.AccountReceivableRepository
	customers CustomerReader
	rec       *Reconciler
}

// NewReceivableUseCase construye el caso de uso.
func NewReceivableUseCase(repo repository.AccountReceivableRepository, customers CustomerReader, rec *Reconciler) *ReceivableUseCase {
	return &ReceivableUseCase{repo: repo, customers: customers, rec: rec}
}

// Create registra la cuenta. Con customer_id sin nombre se toma el nombre del cliente.
func (uc *ReceivableUseCase) Create(ctx context.Context, in dto.CreateReceivableRequest) (*dto.ReceivableResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := domain.CheckMoney("amount", in.Amount); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.CustomerName)
	if in.CustomerID != "" {
		c, err := uc.customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, domain.Invalid("customer_id", "cliente no encontrado")
		}
		if name == "" {
			name = c.Name
		}
	}
	now := uc.rec.now()
	a := &entity.AccountReceivable{
		ID:                uuid.New().String(),
		Description:       strings.TrimSpace(in.Description),
		CustomerID:        in.CustomerID,
		CustomerName:      name,
		Amount:            in.Amount,
		IssueDate:         now,
		DueDate:           in.DueDate,
		Status:            entity.BillPending,
		PaymentMethod:     in.PaymentMethod,
		InstallmentNumber: in.InstallmentNumber,
		InstallmentCount:  in.InstallmentCount,
		Notes:             in.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if in.IssueDate != nil {
		a.IssueDate = *in.IssueDate
	}
	if domfinance.IsOverdue(a.Status, a.DueDate, now) {
		a.Status = entity.BillOverdue
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return toReceivableResponse(a), nil
}

func (uc *ReceivableUseCase) Get(ctx context.Context, id string) (*dto.ReceivableResponse, error) {
	a, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReceivableResponse(a), nil
}

func (uc *ReceivableUseCase) List(ctx context.Context, q dto.BillListQuery) ([]dto.ReceivableResponse, error) {
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	want := entity.BillStatus(q.Status)
	list, err := uc.repo.List(ctx, entity.BillFilter{Statuses: queryStatuses(want), Month: q.Month, Year: q.Year})
	if err != nil {
		return nil, err
	}
	if _, err := uc.rec.ReconcileReceivables(ctx, uc.repo, list); err != nil {
		return nil, err
	}
	out := make([]dto.ReceivableResponse, 0, len(list))
	for _, a := range list {
		if want == "" || a.Status == want {
			out = append(out, *toReceivableResponse(a))
		}
	}
	return out, nil
}

func (uc *ReceivableUseCase) Upcoming(ctx context.Context, days int) ([]dto.ReceivableResponse, error) {
	if days < 0 {
		return nil, domain.Invalid("days", "no puede ser negativo")
	}
	list, err := uc.repo.List(ctx, entity.BillFilter{Statuses: []entity.BillStatus{entity.BillPending}})
	if err != nil {
		return nil, err
	}
	if _, err := uc.rec.ReconcileReceivables(ctx, uc.repo, list); err != nil {
		return nil, err
	}
	now := uc.rec.now()
	out := make([]dto.ReceivableResponse, 0, len(list))
	for _, a := range list {
		if domfinance.DueWithin(a.Status, a.DueDate, now, days) {
			out = append(out, *toReceivableResponse(a))
		}
	}
	return out, nil
}

// Receive acumula un cobro. Al cubrir el monto la cuenta pasa a received.
func (uc *ReceivableUseCase) Receive(ctx context.Context, id string, in dto.SettleRequest) (*dto.ReceivableResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	a, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domfinance.CanSettle(a.Status) {
		return nil, fmt.Errorf("cuenta en estado %s: %w", a.Status, domain.ErrConflict)
	}
	received, full, err := domfinance.ApplyPayment(a.Amount, a.AmountReceived, in.Amount)
	if err != nil {
		return nil, err
	}
	now := uc.rec.now()
	a.AmountReceived = received
	if in.PaymentMethod != "" {
		a.PaymentMethod = in.PaymentMethod
	}
	if full {
		date := now
		if in.Date != nil {
			date = *in.Date
		}
		a.Status = entity.BillReceived
		a.ReceivedDate = &date
	}
	a.UpdatedAt = now
	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("receivable_id", a.ID).Str("amount", in.Amount.String()).Bool("settled", full).Msg("cobro registrado")
	return toReceivableResponse(a), nil
}

func (uc *ReceivableUseCase) Cancel(ctx context.Context, id string) (*dto.ReceivableResponse, error) {
	a, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	switch a.Status {
	case entity.BillCancelled:
		return toReceivableResponse(a), nil
	case entity.BillReceived:
		return nil, fmt.Errorf("cuenta cobrada: %w", domain.ErrConflict)
	}
	a.Status = entity.BillCancelled
	a.UpdatedAt = uc.rec.now()
	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return toReceivableResponse(a), nil
}

func (uc *ReceivableUseCase) load(ctx context.Context, id string) (*entity.AccountReceivable, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.rec.ReconcileReceivables(ctx, uc.repo, []*entity.AccountReceivable{a}); err != nil {
		return nil, err
	}
	return a, nil
}

func toReceivableResponse(a *entity.AccountReceivable) *dto.ReceivableResponse {
	return &dto.ReceivableResponse{
		ID:                a.ID,
		Description:       a.Description,
		CustomerID:        a.CustomerID,
		CustomerName:      a.CustomerName,
		Amount:            a.Amount,
		AmountReceived:    a.AmountReceived,
		IssueDate:         a.IssueDate,
		DueDate:           a.DueDate,
		ReceivedDate:      a.ReceivedDate,
		Status:            string(a.Status),
		PaymentMethod:     a.PaymentMethod,
		InstallmentNumber: a.InstallmentNumber,
		InstallmentCount:  a.InstallmentCount,
		Notes:             a.Notes,
	}
}
