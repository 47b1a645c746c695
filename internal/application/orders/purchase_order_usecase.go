package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/sequence"
	"github.com/jhoicas/backoffice-api/internal/application/validation"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// PurchaseOrderPDF genera la representación imprimible de la orden.
type PurchaseOrderPDF interface {
	PurchaseOrderPDF(ctx context.Context, o *entity.PurchaseOrder) ([]byte, error)
}

// PurchaseOrderUseCase órdenes de compra PC-000001 y la entrada de mercadería al stock.
type PurchaseOrderUseCase struct {
	issuer Issuer
	tx     sequence.TxRunner
	reads  sequence.Repos
	pdf    PurchaseOrderPDF
	now    func() time.Time
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(issuer Issuer, tx sequence.TxRunner, reads sequence.Repos, pdf PurchaseOrderPDF) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{issuer: issuer, tx: tx, reads: reads, pdf: pdf, now: time.Now}
}

// Create numera y guarda la orden en estado pending.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := checkPurchaseOrderMoney(in); err != nil {
		return nil, err
	}
	now := uc.now()
	order := &entity.PurchaseOrder{
		ID:            uuid.New().String(),
		SupplierID:    in.SupplierID,
		SupplierName:  strings.TrimSpace(in.SupplierName),
		OrderDate:     now,
		ExpectedDate:  in.ExpectedDate,
		Status:        entity.PurchaseOrderPending,
		Freight:       in.Freight,
		Discount:      in.Discount,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.OrderDate != nil {
		order.OrderDate = *in.OrderDate
	}
	order.Subtotal = decimal.Zero
	for _, it := range in.Items {
		line := entity.PurchaseOrderItem{
			ProductID:   it.ProductID,
			VariationID: it.VariationID,
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
			Total:       it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity))),
		}
		order.Subtotal = order.Subtotal.Add(line.Total)
		order.Items = append(order.Items, line)
	}
	order.Total = order.Subtotal.Add(order.Freight).Sub(order.Discount)
	if order.Total.IsNegative() {
		return nil, domain.Invalid("discount", "supera subtotal más flete")
	}

	_, err := uc.issuer.Issue(ctx, entity.DocPurchaseOrder, func(number int64, r sequence.Repos) error {
		for i, it := range order.Items {
			if it.VariationID == "" {
				continue
			}
			v, err := r.Variations.GetByID(ctx, it.VariationID)
			if err != nil {
				return err
			}
			if v == nil {
				return domain.Invalid(fmt.Sprintf("items[%d].variation_id", i), "variación inexistente")
			}
		}
		order.Number = number
		return r.PurchaseOrders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("order_id", order.ID).Str("number", order.DisplayNumber()).Msg("orden de compra creada")
	return toPurchaseOrderResponse(order), nil
}

// Get devuelve la orden.
func (uc *PurchaseOrderUseCase) Get(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	o, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(o), nil
}

// List órdenes del tenant; status vacío lista todas.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, status string, page dto.PageRequest) (*dto.PurchaseOrderListResponse, error) {
	st := entity.PurchaseOrderStatus(status)
	if st != "" && !st.Valid() {
		return nil, domain.Invalid("status", "estado desconocido")
	}
	page.DefaultPage()
	list, err := uc.reads.PurchaseOrders.List(ctx, st, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toPurchaseOrderResponse(o))
	}
	return &dto.PurchaseOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

// UpdateStatus mueve la orden entre pending, approved e in_transit.
func (uc *PurchaseOrderUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdatePurchaseOrderStatusRequest) (*dto.PurchaseOrderResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return uc.transition(ctx, id, func(_ sequence.Repos, o *entity.PurchaseOrder) error {
		if o.Status == entity.PurchaseOrderReceived || o.Status == entity.PurchaseOrderCancelled {
			return fmt.Errorf("orden %s en estado %s: %w", o.DisplayNumber(), o.Status, domain.ErrConflict)
		}
		o.Status = entity.PurchaseOrderStatus(in.Status)
		return nil
	})
}

// Receive da entrada al stock de cada variación recibida y marca la orden como recibida.
// Sin items se reciben las cantidades pedidas de las líneas con variación.
func (uc *PurchaseOrderUseCase) Receive(ctx context.Context, id string, in dto.ReceivePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return uc.transition(ctx, id, func(r sequence.Repos, o *entity.PurchaseOrder) error {
		switch o.Status {
		case entity.PurchaseOrderReceived:
			return fmt.Errorf("orden %s ya recibida: %w", o.DisplayNumber(), domain.ErrConflict)
		case entity.PurchaseOrderCancelled:
			return fmt.Errorf("orden %s cancelada: %w", o.DisplayNumber(), domain.ErrConflict)
		}
		for _, item := range receivedItems(o, in) {
			st, err := r.Stock.GetForUpdate(ctx, item.VariationID)
			if err != nil {
				return err
			}
			if st == nil {
				return domain.Invalid("items.variation_id", "variación sin stock registrado: "+item.VariationID)
			}
			if err := r.Stock.UpdateQuantity(ctx, item.VariationID, st.Quantity+item.Quantity); err != nil {
				return err
			}
		}
		delivered := uc.now()
		if in.DeliveredDate != nil {
			delivered = *in.DeliveredDate
		}
		o.Status = entity.PurchaseOrderReceived
		o.DeliveredDate = &delivered
		return nil
	})
}

// Cancel anula la orden. Una orden recibida ya movió stock y no se cancela.
func (uc *PurchaseOrderUseCase) Cancel(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, id, func(_ sequence.Repos, o *entity.PurchaseOrder) error {
		if o.Status == entity.PurchaseOrderReceived {
			return fmt.Errorf("orden %s ya recibida: %w", o.DisplayNumber(), domain.ErrConflict)
		}
		o.Status = entity.PurchaseOrderCancelled
		return nil
	})
}

// PDF genera la orden imprimible.
func (uc *PurchaseOrderUseCase) PDF(ctx context.Context, id string) ([]byte, string, error) {
	o, err := uc.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.pdf.PurchaseOrderPDF(ctx, o)
	if err != nil {
		return nil, "", err
	}
	return b, o.DisplayNumber() + ".pdf", nil
}

func (uc *PurchaseOrderUseCase) load(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	o, err := uc.reads.PurchaseOrders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// transition bloquea la orden, aplica mutate y persiste el nuevo estado en la misma transacción.
func (uc *PurchaseOrderUseCase) transition(ctx context.Context, id string, mutate func(sequence.Repos, *entity.PurchaseOrder) error) (*dto.PurchaseOrderResponse, error) {
	var order *entity.PurchaseOrder
	err := uc.tx.RunDocument(ctx, func(r sequence.Repos) error {
		o, err := r.PurchaseOrders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		prev := o.Status
		if err := mutate(r, o); err != nil {
			return err
		}
		o.UpdatedAt = uc.now()
		if err := r.PurchaseOrders.UpdateStatus(ctx, o); err != nil {
			return err
		}
		zerolog.Ctx(ctx).Info().
			Str("order_id", o.ID).
			Str("from", string(prev)).
			Str("to", string(o.Status)).
			Msg("orden de compra actualizada")
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(order), nil
}

func checkPurchaseOrderMoney(in dto.CreatePurchaseOrderRequest) error {
	if err := domain.CheckMoney("freight", in.Freight); err != nil {
		return err
	}
	if err := domain.CheckMoney("discount", in.Discount); err != nil {
		return err
	}
	for i, it := range in.Items {
		if err := domain.CheckMoney(fmt.Sprintf("items[%d].unit_cost", i), it.UnitCost); err != nil {
			return err
		}
	}
	return nil
}

func receivedItems(o *entity.PurchaseOrder, in dto.ReceivePurchaseOrderRequest) []entity.ReceivedItem {
	if len(in.Items) > 0 {
		out := make([]entity.ReceivedItem, 0, len(in.Items))
		for _, it := range in.Items {
			out = append(out, entity.ReceivedItem{VariationID: it.VariationID, Quantity: it.Quantity})
		}
		return out
	}
	var out []entity.ReceivedItem
	for _, it := range o.Items {
		if it.VariationID != "" {
			out = append(out, entity.ReceivedItem{VariationID: it.VariationID, Quantity: it.Quantity})
		}
	}
	return out
}

func toPurchaseOrderResponse(o *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	items := make([]dto.PurchaseOrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.PurchaseOrderItemResponse(it))
	}
	return &dto.PurchaseOrderResponse{
		ID:            o.ID,
		Number:        o.Number,
		DisplayNumber: o.DisplayNumber(),
		SupplierID:    o.SupplierID,
		SupplierName:  o.SupplierName,
		OrderDate:     o.OrderDate,
		ExpectedDate:  o.ExpectedDate,
		DeliveredDate: o.DeliveredDate,
		Status:        string(o.Status),
		Items:         items,
		Subtotal:      o.Subtotal,
		Freight:       o.Freight,
		Discount:      o.Discount,
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
