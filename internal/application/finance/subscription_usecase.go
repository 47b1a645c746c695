package finance

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/validation"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	domfinance "github.com/jhoicas/backoffice-api/internal/domain/finance"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// SubscriptionUseCase plan contratado por el tenant.
type SubscriptionUseCase struct {
	repo repository.SubscriptionRepository
	rec  *Reconciler
}

// NewSubscriptionUseCase construye el caso de uso.
func NewSubscriptionUseCase(repo repository.SubscriptionRepository, rec *Reconciler) *SubscriptionUseCase {
	return &SubscriptionUseCase{repo: repo, rec: rec}
}

// Create con trial_days > 0 crea un trial que termina start + trial_days.
func (uc *SubscriptionUseCase) Create(ctx context.Context, in dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := domain.CheckMoney("amount", in.Amount); err != nil {
		return nil, err
	}
	now := uc.rec.now()
	s := &entity.Subscription{
		ID:        uuid.New().String(),
		Plan:      strings.TrimSpace(in.Plan),
		Status:    entity.SubscriptionStatus(in.Status),
		StartDate: now,
		EndDate:   in.EndDate,
		Amount:    in.Amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.StartDate != nil {
		s.StartDate = *in.StartDate
	}
	if in.TrialDays > 0 {
		end := s.StartDate.AddDate(0, 0, in.TrialDays)
		s.EndDate = &end
		if s.Status == "" {
			s.Status = entity.SubscriptionTrial
		}
	}
	if s.Status == "" {
		s.Status = entity.SubscriptionActive
	}
	if s.Status == entity.SubscriptionTrial && s.EndDate == nil {
		return nil, domain.Invalid("end_date", "un trial requiere fecha de fin o trial_days")
	}
	if s.EndDate != nil && s.EndDate.Before(s.StartDate) {
		return nil, domain.Invalid("end_date", "anterior a la fecha de inicio")
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return uc.toResponse(s), nil
}

// Current suscripción vigente del tenant con su trial reconciliado.
func (uc *SubscriptionUseCase) Current(ctx context.Context) (*dto.SubscriptionResponse, error) {
	s, err := uc.repo.Current(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.rec.ReconcileSubscriptions(ctx, uc.repo, []*entity.Subscription{s}); err != nil {
		return nil, err
	}
	return uc.toResponse(s), nil
}

func (uc *SubscriptionUseCase) List(ctx context.Context) ([]dto.SubscriptionResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := uc.rec.ReconcileSubscriptions(ctx, uc.repo, list); err != nil {
		return nil, err
	}
	out := make([]dto.SubscriptionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *uc.toResponse(s))
	}
	return out, nil
}

// UpdateStatus cambio manual de estado y de la marca de pago.
func (uc *SubscriptionUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateSubscriptionStatusRequest) (*dto.SubscriptionResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	s.Status = entity.SubscriptionStatus(in.Status)
	if in.Paid != nil {
		s.Paid = *in.Paid
	}
	s.UpdatedAt = uc.rec.now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return uc.toResponse(s), nil
}

func (uc *SubscriptionUseCase) toResponse(s *entity.Subscription) *dto.SubscriptionResponse {
	resp := &dto.SubscriptionResponse{
		ID:        s.ID,
		Plan:      s.Plan,
		Status:    string(s.Status),
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		Amount:    s.Amount,
		Paid:      s.Paid,
	}
	if s.Status == entity.SubscriptionTrial && s.EndDate != nil {
		days := domfinance.RemainingTrialDays(*s.EndDate, uc.rec.now())
		resp.RemainingDays = &days
	}
	return resp
}
