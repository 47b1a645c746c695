// Package orders pedidos del catálogo y órdenes de compra, ambos con numeración por tenant.
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

// Issuer reserva números de documento y ejecuta la inserción en la misma transacción.
type Issuer interface {
	Issue(ctx context.Context, docType entity.DocumentType, fn sequence.IssueFunc) (int64, error)
}

// CatalogOrderUseCase pedidos #0001 del catálogo público y WhatsApp.
type CatalogOrderUseCase struct {
	issuer Issuer
	tx     sequence.TxRunner
	reads  sequence.Repos
	now    func() time.Time
}

// NewCatalogOrderUseCase construye el caso de uso.
func NewCatalogOrderUseCase(issuer Issuer, tx sequence.TxRunner, reads sequence.Repos) *CatalogOrderUseCase {
	return &CatalogOrderUseCase{issuer: issuer, tx: tx, reads: reads, now: time.Now}
}

// Create valida las líneas contra el catálogo del tenant, calcula totales y numera el pedido.
func (uc *CatalogOrderUseCase) Create(ctx context.Context, in dto.CreateCatalogOrderRequest) (*dto.CatalogOrderResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := domain.CheckMoney("discount", in.Discount); err != nil {
		return nil, err
	}
	origin := entity.OrderOrigin(in.Origin)
	if origin == "" {
		origin = entity.OriginCatalog
	}
	now := uc.now()
	order := &entity.CatalogOrder{
		ID:              uuid.New().String(),
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
		CustomerAddress: in.CustomerAddress,
		Discount:        in.Discount,
		Status:          entity.CatalogOrderNew,
		Origin:          origin,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err := uc.issuer.Issue(ctx, entity.DocCatalogOrder, func(number int64, r sequence.Repos) error {
		items, subtotal, err := priceItems(ctx, r, in.Items)
		if err != nil {
			return err
		}
		if in.Discount.GreaterThan(subtotal) {
			return domain.Invalid("discount", "supera el subtotal")
		}
		order.Number = number
		order.Items = items
		order.Subtotal = subtotal
		order.Total = subtotal.Sub(in.Discount)
		return r.CatalogOrders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("order_id", order.ID).Str("number", order.DisplayNumber()).Msg("pedido creado")
	return toCatalogOrderResponse(order), nil
}

// Get devuelve el pedido.
func (uc *CatalogOrderUseCase) Get(ctx context.Context, id string) (*dto.CatalogOrderResponse, error) {
	o, err := uc.reads.CatalogOrders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return toCatalogOrderResponse(o), nil
}

// List pedidos más recientes primero; status vacío lista todos.
func (uc *CatalogOrderUseCase) List(ctx context.Context, status string, page dto.PageRequest) (*dto.CatalogOrderListResponse, error) {
	st := entity.CatalogOrderStatus(status)
	if st != "" && !st.Valid() {
		return nil, domain.Invalid("status", "estado desconocido")
	}
	page.DefaultPage()
	list, err := uc.reads.CatalogOrders.List(ctx, st, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CatalogOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toCatalogOrderResponse(o))
	}
	return &dto.CatalogOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

// UpdateStatus avanza o cancela el pedido. Entregado y cancelado son finales.
func (uc *CatalogOrderUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateCatalogOrderStatusRequest) (*dto.CatalogOrderResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var order *entity.CatalogOrder
	err := uc.tx.RunDocument(ctx, func(r sequence.Repos) error {
		o, err := r.CatalogOrders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if o.Status.Final() {
			return fmt.Errorf("pedido %s en estado %s: %w", o.DisplayNumber(), o.Status, domain.ErrConflict)
		}
		o.Status = entity.CatalogOrderStatus(in.Status)
		if in.Notes != "" {
			o.Notes = in.Notes
		}
		o.UpdatedAt = uc.now()
		if err := r.CatalogOrders.UpdateStatus(ctx, o.ID, o.Status, o.Notes); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCatalogOrderResponse(order), nil
}

// priceItems copia nombre y precio de venta del producto a cada línea.
func priceItems(ctx context.Context, r sequence.Repos, in []dto.CatalogOrderItemRequest) ([]entity.CatalogOrderItem, decimal.Decimal, error) {
	items := make([]entity.CatalogOrderItem, 0, len(in))
	subtotal := decimal.Zero
	for i, it := range in {
		p, err := r.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if p == nil || !p.Active {
			return nil, decimal.Zero, domain.Invalid(fmt.Sprintf("items[%d].product_id", i), "producto inexistente o inactivo")
		}
		line := entity.CatalogOrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  it.Quantity,
			UnitPrice: p.SalePrice,
		}
		if it.VariationID != "" {
			v, err := r.Variations.GetByID(ctx, it.VariationID)
			if err != nil {
				return nil, decimal.Zero, err
			}
			if v == nil || v.ProductID != p.ID {
				return nil, decimal.Zero, domain.Invalid(fmt.Sprintf("items[%d].variation_id", i), "la variación no pertenece al producto")
			}
			line.VariationID, line.Size, line.Color = v.ID, v.Size, v.Color
		}
		line.Total = line.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(line.Total)
		items = append(items, line)
	}
	return items, subtotal, nil
}

func toCatalogOrderResponse(o *entity.CatalogOrder) *dto.CatalogOrderResponse {
	items := make([]dto.CatalogOrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.CatalogOrderItemResponse(it))
	}
	return &dto.CatalogOrderResponse{
		ID:              o.ID,
		Number:          o.Number,
		DisplayNumber:   o.DisplayNumber(),
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerEmail:   o.CustomerEmail,
		CustomerAddress: o.CustomerAddress,
		Items:           items,
		Subtotal:        o.Subtotal,
		Discount:        o.Discount,
		Total:           o.Total,
		Status:          string(o.Status),
		Origin:          string(o.Origin),
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
