// Package catalog casos de uso del agregado producto (producto + variaciones + stock).
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/validation"
	"github.com/jhoicas/backoffice-api/internal/domain"
	domcatalog "github.com/jhoicas/backoffice-api/internal/domain/catalog"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// Config valores por defecto del catálogo.
type Config struct {
	DefaultMinStock int
}

// ProductUseCase crea, reemplaza y elimina el agregado producto siempre en una transacción.
type ProductUseCase struct {
	tx    TxRunner
	reads Repos
	cfg   Config
	now   func() time.Time
}

// NewProductUseCase construye el caso de uso. reads son repositorios sobre el pool para consultas.
func NewProductUseCase(tx TxRunner, reads Repos, cfg Config) *ProductUseCase {
	return &ProductUseCase{tx: tx, reads: reads, cfg: cfg, now: time.Now}
}

// Create valida e inserta producto, variaciones y stock. Cualquier fallo deja la base intacta.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	now := uc.now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		CreatedAt: now,
	}
	applyProductInput(product, in, now)
	agg := &entity.ProductAggregate{Product: *product}

	err := uc.tx.RunCatalog(ctx, func(r Repos) error {
		if err := r.Products.Create(ctx, &agg.Product); err != nil {
			return err
		}
		vs, err := uc.insertVariations(ctx, r, agg.Product.ID, in.Variations, now)
		if err != nil {
			return err
		}
		agg.Variations = vs
		return nil
	})
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("product_id", agg.Product.ID).Int("variations", len(agg.Variations)).Msg("producto creado")
	return toProductResponse(agg), nil
}

// Update reemplaza el producto y todo su conjunto de variaciones/stock en una transacción.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	now := uc.now()
	var agg *entity.ProductAggregate

	err := uc.tx.RunCatalog(ctx, func(r Repos) error {
		current, err := r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		applyProductInput(current, in, now)
		if err := r.Products.Update(ctx, current); err != nil {
			return err
		}
		if err := r.Stock.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		if err := r.Variations.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		vs, err := uc.insertVariations(ctx, r, id, in.Variations, now)
		if err != nil {
			return err
		}
		agg = &entity.ProductAggregate{Product: *current, Variations: vs}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(agg), nil
}

// Delete elimina stock, variaciones y producto en una transacción.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.RunCatalog(ctx, func(r Repos) error {
		current, err := r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if err := r.Stock.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		if err := r.Variations.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		return r.Products.Delete(ctx, id)
	})
}

// Get devuelve el agregado completo.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.reads.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	aggs, err := loadAggregates(ctx, uc.reads, []*entity.Product{p})
	if err != nil {
		return nil, err
	}
	return toProductResponse(aggs[0]), nil
}

// List agregados del tenant con paginación. Las variaciones y el stock se cargan en lote.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.reads.Products.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.reads.Products.Count(ctx)
	if err != nil {
		return nil, err
	}
	aggs, err := loadAggregates(ctx, uc.reads, list)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(aggs))
	for _, a := range aggs {
		items = append(items, *toProductResponse(a))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// AdjustStock suma, resta o fija la cantidad de una variación bajo bloqueo de fila.
func (uc *ProductUseCase) AdjustStock(ctx context.Context, variationID string, in dto.StockAdjustRequest) (*dto.StockAdjustResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var out dto.StockAdjustResponse
	err := uc.tx.RunCatalog(ctx, func(r Repos) error {
		st, err := r.Stock.GetForUpdate(ctx, variationID)
		if err != nil {
			return err
		}
		if st == nil {
			return domain.ErrNotFound
		}
		next, err := domcatalog.ApplyStockOperation(st.Quantity, entity.StockOperation(in.Operation), in.Quantity)
		if err != nil {
			return err
		}
		if err := r.Stock.UpdateQuantity(ctx, variationID, next); err != nil {
			return err
		}
		out = dto.StockAdjustResponse{
			VariationID: variationID,
			Previous:    st.Quantity,
			Quantity:    next,
			Low:         next <= st.MinThreshold,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListLowStock variaciones en o por debajo de su umbral mínimo.
func (uc *ProductUseCase) ListLowStock(ctx context.Context) ([]dto.LowStockResponse, error) {
	items, err := uc.reads.Stock.ListLow(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LowStockResponse{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			Brand:        it.Brand,
			VariationID:  it.VariationID,
			Size:         it.Size,
			Color:        it.Color,
			Quantity:     it.Quantity,
			MinThreshold: it.MinThreshold,
		})
	}
	return out, nil
}

func (uc *ProductUseCase) insertVariations(ctx context.Context, r Repos, productID string, in []dto.VariationRequest, now time.Time) ([]entity.VariationStock, error) {
	out := make([]entity.VariationStock, 0, len(in))
	for _, vr := range in {
		v := entity.Variation{
			ID:        uuid.New().String(),
			ProductID: productID,
			Size:      strings.TrimSpace(vr.Size),
			Color:     strings.TrimSpace(vr.Color),
			SKU:       trimmedOrNil(vr.SKU),
			Barcode:   trimmedOrNil(vr.Barcode),
			CreatedAt: now,
		}
		if err := r.Variations.Create(ctx, &v); err != nil {
			return nil, err
		}
		s := entity.Stock{
			ID:           uuid.New().String(),
			VariationID:  v.ID,
			Quantity:     intOr(vr.Quantity, 0),
			MinThreshold: intOr(vr.MinThreshold, uc.cfg.DefaultMinStock),
			Location:     vr.Location,
			UpdatedAt:    now,
		}
		if err := r.Stock.Create(ctx, &s); err != nil {
			return nil, err
		}
		out = append(out, entity.VariationStock{Variation: v, Stock: s})
	}
	return out, nil
}

// validateProduct tags del DTO más campos que solo contienen espacios.
func validateProduct(in dto.ProductRequest) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.Invalid("name", "es requerido")
	}
	if strings.TrimSpace(in.Brand) == "" {
		return domain.Invalid("brand", "es requerido")
	}
	if err := domain.CheckMoney("cost_price", in.CostPrice); err != nil {
		return err
	}
	if err := domain.CheckMoney("sale_price", in.SalePrice); err != nil {
		return err
	}
	for i, v := range in.Variations {
		if strings.TrimSpace(v.Size) == "" {
			return domain.Invalid(fmt.Sprintf("variations[%d].size", i), "es requerido")
		}
		if strings.TrimSpace(v.Color) == "" {
			return domain.Invalid(fmt.Sprintf("variations[%d].color", i), "es requerido")
		}
	}
	return nil
}

func applyProductInput(p *entity.Product, in dto.ProductRequest, now time.Time) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Brand = strings.TrimSpace(in.Brand)
	p.Category = strings.TrimSpace(in.Category)
	if p.Category == "" {
		p.Category = entity.DefaultCategory
	}
	p.CostPrice = in.CostPrice
	p.SalePrice = in.SalePrice
	p.Images = in.Images
	p.Active = in.Active == nil || *in.Active
	p.UpdatedAt = now
}

// loadAggregates une productos con sus variaciones y stock usando dos consultas en lote.
func loadAggregates(ctx context.Context, r Repos, products []*entity.Product) ([]*entity.ProductAggregate, error) {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	variations, err := r.Variations.ListByProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	vids := make([]string, 0, len(variations))
	for _, v := range variations {
		vids = append(vids, v.ID)
	}
	stocks, err := r.Stock.ListByVariations(ctx, vids)
	if err != nil {
		return nil, err
	}
	stockByVariation := make(map[string]entity.Stock, len(stocks))
	for _, s := range stocks {
		stockByVariation[s.VariationID] = *s
	}
	byProduct := make(map[string][]entity.VariationStock, len(products))
	for _, v := range variations {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], entity.VariationStock{
			Variation: *v,
			Stock:     stockByVariation[v.ID],
		})
	}
	out := make([]*entity.ProductAggregate, 0, len(products))
	for _, p := range products {
		out = append(out, &entity.ProductAggregate{Product: *p, Variations: byProduct[p.ID]})
	}
	return out, nil
}

func toProductResponse(a *entity.ProductAggregate) *dto.ProductResponse {
	p := a.Product
	resp := &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		Category:    p.Category,
		CostPrice:   p.CostPrice,
		SalePrice:   p.SalePrice,
		Margin:      domcatalog.FormatMargin(p.CostPrice, p.SalePrice),
		Images:      p.Images,
		Active:      p.Active,
		Variations:  make([]dto.VariationResponse, 0, len(a.Variations)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	for _, vs := range a.Variations {
		resp.TotalStock += vs.Stock.Quantity
		resp.Variations = append(resp.Variations, dto.VariationResponse{
			ID:      vs.Variation.ID,
			Size:    vs.Variation.Size,
			Color:   vs.Variation.Color,
			SKU:     vs.Variation.SKU,
			Barcode: vs.Variation.Barcode,
			Stock: dto.StockResponse{
				Quantity:     vs.Stock.Quantity,
				MinThreshold: vs.Stock.MinThreshold,
				Location:     vs.Stock.Location,
				Low:          vs.Stock.IsLow(),
			},
		})
	}
	return resp
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
