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

// PurchaseOrderReader lectura de órdenes de compra confinada al tenant del contexto.
type PurchaseOrderReader interface {
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
}

// PayableUseCase cuentas por pagar.
type PayableUseCase struct {
	repo   repository.AccountPayableRepository
	orders PurchaseOrderReader
	rec    *Reconciler
}

// NewPayableUseCase construye el caso de uso.
func NewPayableUseCase(repo repository.AccountPayableRepository, orders PurchaseOrderReader, rec *Reconciler) *PayableUseCase {
	return &PayableUseCase{repo: repo, orders: orders, rec: rec}
}

// Create registra la cuenta. Si ya nace vencida se guarda como overdue.
func (uc *PayableUseCase) Create(ctx context.Context, in dto.CreatePayableRequest) (*dto.PayableResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := domain.CheckMoney("amount", in.Amount); err != nil {
		return nil, err
	}
	if in.PurchaseOrderID != "" {
		// una orden de otro tenant se reporta igual que una inexistente
		po, err := uc.orders.GetByID(ctx, in.PurchaseOrderID)
		if err != nil {
			return nil, err
		}
		if po == nil {
			return nil, domain.Invalid("purchase_order_id", "orden de compra no encontrada")
		}
	}
	now := uc.rec.now()
	a := &entity.AccountPayable{
		ID:                uuid.New().String(),
		Description:       strings.TrimSpace(in.Description),
		SupplierID:        in.SupplierID,
		PurchaseOrderID:   in.PurchaseOrderID,
		Category:          in.Category,
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
	return toPayableResponse(a), nil
}

// Get devuelve la cuenta con su estado reconciliado.
func (uc *PayableUseCase) Get(ctx context.Context, id string) (*dto.PayableResponse, error) {
	a, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPayableResponse(a), nil
}

// List filtra por estado y mes/año de vencimiento tras reconciliar.
func (uc *PayableUseCase) List(ctx context.Context, q dto.BillListQuery) ([]dto.PayableResponse, error) {
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	want := entity.BillStatus(q.Status)
	list, err := uc.repo.List(ctx, entity.BillFilter{Statuses: queryStatuses(want), Month: q.Month, Year: q.Year})
	if err != nil {
		return nil, err
	}
	if _, err := uc.rec.ReconcilePayables(ctx, uc.repo, list); err != nil {
		return nil, err
	}
	out := make([]dto.PayableResponse, 0, len(list))
	for _, a := range list {
		if want == "" || a.Status == want {
			out = append(out, *toPayableResponse(a))
		}
	}
	return out, nil
}

// Upcoming cuentas pendientes que vencen en los próximos days días.
func (uc *PayableUseCase) Upcoming(ctx context.Context, days int) ([]dto.PayableResponse, error) {
	if days < 0 {
		return nil, domain.Invalid("days", "no puede ser negativo")
	}
	list, err := uc.repo.List(ctx, entity.BillFilter{Statuses: []entity.BillStatus{entity.BillPending}})
	if err != nil {
		return nil, err
	}
	if _, err := uc.rec.ReconcilePayables(ctx, uc.repo, list); err != nil {
		return nil, err
	}
	now := uc.rec.now()
	out := make([]dto.PayableResponse, 0, len(list))
	for _, a := range list {
		if domfinance.DueWithin(a.Status, a.DueDate, now, days) {
			out = append(out, *toPayableResponse(a))
		}
	}
	return out, nil
}

// Pay acumula un pago. Al cubrir el monto la cuenta pasa a paid.
func (uc *PayableUseCase) Pay(ctx context.Context, id string, in dto.SettleRequest) (*dto.PayableResponse, error) {
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
	paid, full, err := domfinance.ApplyPayment(a.Amount, a.AmountPaid, in.Amount)
	if err != nil {
		return nil, err
	}
	now := uc.rec.now()
	a.AmountPaid = paid
	if in.PaymentMethod != "" {
		a.PaymentMethod = in.PaymentMethod
	}
	if full {
		date := now
		if in.Date != nil {
			date = *in.Date
		}
		a.Status = entity.BillPaid
		a.PaymentDate = &date
	}
	a.UpdatedAt = now
	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("payable_id", a.ID).Str("amount", in.Amount.String()).Bool("settled", full).Msg("pago registrado")
	return toPayableResponse(a), nil
}

// Cancel anula la cuenta. Una cuenta pagada no se cancela.
func (uc *PayableUseCase) Cancel(ctx context.Context, id string) (*dto.PayableResponse, error) {
	a, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	switch a.Status {
	case entity.BillCancelled:
		return toPayableResponse(a), nil
	case entity.BillPaid:
		return nil, fmt.Errorf("cuenta pagada: %w", domain.ErrConflict)
	}
	a.Status = entity.BillCancelled
	a.UpdatedAt = uc.rec.now()
	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return toPayableResponse(a), nil
}

func (uc *PayableUseCase) load(ctx context.Context, id string) (*entity.AccountPayable, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.rec.ReconcilePayables(ctx, uc.repo, []*entity.AccountPayable{a}); err != nil {
		return nil, err
	}
	return a, nil
}

// queryStatuses estados a leer para un filtro. Las pendientes pueden haber vencido, así que
// "pending" y "overdue" se consultan juntas y se filtran después de reconciliar.
func queryStatuses(want entity.BillStatus) []entity.BillStatus {
	switch want {
	case "":
		return nil
	case entity.BillPending:
		return []entity.BillStatus{entity.BillPending}
	case entity.BillOverdue:
		return []entity.BillStatus{entity.BillPending, entity.BillOverdue}
	default:
		return []entity.BillStatus{want}
	}
}

func toPayableResponse(a *entity.AccountPayable) *dto.PayableResponse {
	return &dto.PayableResponse{
		ID:                a.ID,
		Description:       a.Description,
		SupplierID:        a.SupplierID,
		PurchaseOrderID:   a.PurchaseOrderID,
		Category:          a.Category,
		Amount:            a.Amount,
		AmountPaid:        a.AmountPaid,
		IssueDate:         a.IssueDate,
		DueDate:           a.DueDate,
		PaymentDate:       a.PaymentDate,
		Status:            string(a.Status),
		PaymentMethod:     a.PaymentMethod,
		InstallmentNumber: a.InstallmentNumber,
		InstallmentCount:  a.InstallmentCount,
		Notes:             a.Notes,
	}
}
