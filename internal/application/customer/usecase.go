// Package customer perfil del cliente y su libro de débito/crédito.
package customer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/validation"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/ledger"
)

// UseCase casos de uso del cliente.
type UseCase struct {
	tx    TxRunner
	reads Repos
	now   func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx TxRunner, reads Repos) *UseCase {
	return &UseCase{tx: tx, reads: reads, now: time.Now}
}

// Create registra un cliente con débito cero y el límite de crédito inicial.
func (uc *UseCase) Create(ctx context.Context, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := validateCustomer(in); err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.Customer{
		ID:          uuid.New().String(),
		CreditLimit: in.CreditLimit,
		Active:      true,
		CreatedAt:   now,
	}
	applyProfile(c, in, now)
	if err := uc.reads.Customers.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c, nil), nil
}

// Get devuelve el cliente con su libro de movimientos.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.reads.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	txs, err := uc.reads.Transactions.ListByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(c, txs), nil
}

// List clientes activos; search filtra por nombre, documento o teléfono.
func (uc *UseCase) List(ctx context.Context, search string, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, err := uc.reads.Customers.List(ctx, strings.TrimSpace(search), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCustomerResponse(c, nil))
	}
	return &dto.CustomerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

// Update cambia solo datos de perfil; débito y límite se mueven con el libro.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := validateCustomer(in); err != nil {
		return nil, err
	}
	c, err := uc.reads.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	applyProfile(c, in, uc.now())
	if err := uc.reads.Customers.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c, nil), nil
}

// Delete desactiva el cliente. Con débito pendiente devuelve ErrConflict.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.RunCustomer(ctx, func(r Repos) error {
		c, err := r.Customers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		if c.Debit.IsPositive() {
			return domain.ErrConflict
		}
		return r.Customers.Deactivate(ctx, id)
	})
}

// AddTransaction aplica un movimiento al saldo y lo registra en el libro, en una transacción.
func (uc *UseCase) AddTransaction(ctx context.Context, customerID string, in dto.TransactionRequest) (*dto.LedgerResultResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := uc.now()
	entry := &entity.CustomerTransaction{
		ID:          uuid.New().String(),
		CustomerID:  customerID,
		Kind:        entity.TransactionKind(in.Kind),
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		Date:        now,
		RecordedAt:  now,
	}
	if in.Date != nil {
		entry.Date = *in.Date
	}

	var c *entity.Customer
	err := uc.tx.RunCustomer(ctx, func(r Repos) error {
		var err error
		c, err = r.Customers.GetForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		next, err := ledger.Apply(ledger.Of(c), entry.Kind, entry.Amount)
		if err != nil {
			return err
		}
		if err := r.Customers.UpdateBalance(ctx, c.ID, next.Debit, next.CreditLimit); err != nil {
			return err
		}
		c.Debit, c.CreditLimit = next.Debit, next.CreditLimit
		return r.Transactions.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().
		Str("customer_id", customerID).
		Str("kind", string(entry.Kind)).
		Str("amount", entry.Amount.String()).
		Msg("movimiento registrado")
	t := toTransactionResponse(entry)
	return &dto.LedgerResultResponse{Customer: *toCustomerResponse(c, nil), Transaction: &t}, nil
}

// DeleteTransaction revierte exactamente el movimiento y lo elimina del libro.
func (uc *UseCase) DeleteTransaction(ctx context.Context, transactionID string) (*dto.LedgerResultResponse, error) {
	var c *entity.Customer
	err := uc.tx.RunCustomer(ctx, func(r Repos) error {
		entry, err := r.Transactions.GetByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		c, err = r.Customers.GetForUpdate(ctx, entry.CustomerID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		prev, err := ledger.Reverse(ledger.Of(c), entry.Kind, entry.Amount)
		if err != nil {
			return err
		}
		if err := r.Customers.UpdateBalance(ctx, c.ID, prev.Debit, prev.CreditLimit); err != nil {
			return err
		}
		c.Debit, c.CreditLimit = prev.Debit, prev.CreditLimit
		return r.Transactions.Delete(ctx, entry.ID)
	})
	if err != nil {
		return nil, err
	}
	return &dto.LedgerResultResponse{Customer: *toCustomerResponse(c, nil)}, nil
}

func validateCustomer(in dto.CustomerRequest) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.Invalid("name", "es requerido")
	}
	return domain.CheckMoney("credit_limit", in.CreditLimit)
}

func applyProfile(c *entity.Customer, in dto.CustomerRequest, now time.Time) {
	c.Name = strings.TrimSpace(in.Name)
	c.Document = strings.TrimSpace(in.Document)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Email = strings.TrimSpace(in.Email)
	c.Address = in.Address
	c.City = in.City
	c.State = strings.ToUpper(strings.TrimSpace(in.State))
	c.ZipCode = in.ZipCode
	c.Notes = in.Notes
	c.UpdatedAt = now
}

func toCustomerResponse(c *entity.Customer, txs []*entity.CustomerTransaction) *dto.CustomerResponse {
	resp := &dto.CustomerResponse{
		ID:              c.ID,
		Name:            c.Name,
		Document:        c.Document,
		Phone:           c.Phone,
		Email:           c.Email,
		Address:         c.Address,
		City:            c.City,
		State:           c.State,
		ZipCode:         c.ZipCode,
		Debit:           c.Debit,
		CreditLimit:     c.CreditLimit,
		AvailableCredit: ledger.Of(c).AvailableCredit(),
		Notes:           c.Notes,
		Active:          c.Active,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	if txs != nil {
		resp.Transactions = make([]dto.TransactionResponse, 0, len(txs))
		for _, t := range txs {
			resp.Transactions = append(resp.Transactions, toTransactionResponse(t))
		}
	}
	return resp
}

func toTransactionResponse(t *entity.CustomerTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          t.ID,
		CustomerID:  t.CustomerID,
		Kind:        string(t.Kind),
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.Date,
		RecordedAt:  t.RecordedAt,
	}
}
