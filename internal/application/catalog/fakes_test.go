package catalog_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jhoicas/backoffice-api/internal/application/catalog"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/tenant"
)

var errInjected = errors.New("fallo inyectado")

// memStore base en memoria con transacciones por snapshot: un error en RunCatalog restaura el estado previo.
type memStore struct {
	mu         sync.Mutex
	products   map[string]entity.Product
	variations map[string]entity.Variation
	stock      map[string]entity.Stock // por variation_id

	// failStockOn hace fallar el N-ésimo Stock.Create dentro de una transacción (1-based). 0 = nunca.
	failStockOn int
	stockWrites int
}

func newMemStore() *memStore {
	return &memStore{
		products:   map[string]entity.Product{},
		variations: map[string]entity.Variation{},
		stock:      map[string]entity.Stock{},
	}
}

func (s *memStore) snapshot() (map[string]entity.Product, map[string]entity.Variation, map[string]entity.Stock) {
	p := make(map[string]entity.Product, len(s.products))
	for k, v := range s.products {
		p[k] = v
	}
	v := make(map[string]entity.Variation, len(s.variations))
	for k, x := range s.variations {
		v[k] = x
	}
	st := make(map[string]entity.Stock, len(s.stock))
	for k, x := range s.stock {
		st[k] = x
	}
	return p, v, st
}

func (s *memStore) RunCatalog(ctx context.Context, fn func(catalog.Repos) error) error {
	if _, err := tenant.FromContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, v, st := s.snapshot()
	s.stockWrites = 0
	if err := fn(s.repos()); err != nil {
		s.products, s.variations, s.stock = p, v, st
		return err
	}
	return nil
}

// reads repositorios sin transacción; el test no los usa concurrentemente con escrituras.
func (s *memStore) repos() catalog.Repos {
	return catalog.Repos{Products: memProducts{s}, Variations: memVariations{s}, Stock: memStock{s}}
}

func tid(ctx context.Context) string {
	id, _ := tenant.FromContext(ctx)
	return id
}

type memProducts struct{ s *memStore }

func (r memProducts) Create(ctx context.Context, p *entity.Product) error {
	p.TenantID = tid(ctx)
	r.s.products[p.ID] = *p
	return nil
}

func (r memProducts) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok || p.TenantID != tid(ctx) {
		return nil, nil
	}
	return &p, nil
}

func (r memProducts) Update(ctx context.Context, p *entity.Product) error {
	cur, ok := r.s.products[p.ID]
	if !ok || cur.TenantID != tid(ctx) {
		return domain.ErrNotFound
	}
	p.TenantID = cur.TenantID
	r.s.products[p.ID] = *p
	return nil
}

func (r memProducts) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.TenantID == tid(ctx) {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memProducts) Count(ctx context.Context) (int, error) {
	n := 0
	for _, p := range r.s.products {
		if p.TenantID == tid(ctx) {
			n++
		}
	}
	return n, nil
}

func (r memProducts) Delete(ctx context.Context, id string) error {
	p, ok := r.s.products[id]
	if !ok || p.TenantID != tid(ctx) {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

type memVariations struct{ s *memStore }

func (r memVariations) Create(ctx context.Context, v *entity.Variation) error {
	v.TenantID = tid(ctx)
	for _, other := range r.s.variations {
		if other.TenantID == v.TenantID && v.Barcode != nil && other.Barcode != nil && *other.Barcode == *v.Barcode {
			return &domain.DuplicateError{Constraint: "variations_tenant_barcode_key"}
		}
	}
	r.s.variations[v.ID] = *v
	return nil
}

func (r memVariations) GetByID(ctx context.Context, id string) (*entity.Variation, error) {
	v, ok := r.s.variations[id]
	if !ok || v.TenantID != tid(ctx) {
		return nil, nil
	}
	return &v, nil
}

func (r memVariations) ListByProducts(ctx context.Context, productIDs []string) ([]*entity.Variation, error) {
	want := map[string]bool{}
	for _, id := range productIDs {
		want[id] = true
	}
	var out []*entity.Variation
	for _, v := range r.s.variations {
		if v.TenantID == tid(ctx) && want[v.ProductID] {
			v := v
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Size < out[j].Size })
	return out, nil
}

func (r memVariations) DeleteByProduct(ctx context.Context, productID string) error {
	for id, v := range r.s.variations {
		if v.TenantID == tid(ctx) && v.ProductID == productID {
			delete(r.s.variations, id)
		}
	}
	return nil
}

type memStock struct{ s *memStore }

func (r memStock) Create(ctx context.Context, st *entity.Stock) error {
	r.s.stockWrites++
	if r.s.failStockOn > 0 && r.s.stockWrites == r.s.failStockOn {
		return errInjected
	}
	st.TenantID = tid(ctx)
	r.s.stock[st.VariationID] = *st
	return nil
}

func (r memStock) ListByVariations(ctx context.Context, variationIDs []string) ([]*entity.Stock, error) {
	var out []*entity.Stock
	for _, id := range variationIDs {
		if st, ok := r.s.stock[id]; ok && st.TenantID == tid(ctx) {
			st := st
			out = append(out, &st)
		}
	}
	return out, nil
}

func (r memStock) GetForUpdate(ctx context.Context, variationID string) (*entity.Stock, error) {
	st, ok := r.s.stock[variationID]
	if !ok || st.TenantID != tid(ctx) {
		return nil, nil
	}
	return &st, nil
}

func (r memStock) UpdateQuantity(ctx context.Context, variationID string, quantity int) error {
	st, ok := r.s.stock[variationID]
	if !ok || st.TenantID != tid(ctx) {
		return domain.ErrNotFound
	}
	st.Quantity = quantity
	r.s.stock[variationID] = st
	return nil
}

func (r memStock) DeleteByProduct(ctx context.Context, productID string) error {
	for vid, v := range r.s.variations {
		if v.TenantID == tid(ctx) && v.ProductID == productID {
			delete(r.s.stock, vid)
		}
	}
	return nil
}

func (r memStock) ListLow(ctx context.Context) ([]entity.LowStockItem, error) {
	var out []entity.LowStockItem
	for vid, st := range r.s.stock {
		if st.TenantID != tid(ctx) || !st.IsLow() {
			continue
		}
		v := r.s.variations[vid]
		p := r.s.products[v.ProductID]
		out = append(out, entity.LowStockItem{
			ProductID: p.ID, ProductName: p.Name, Brand: p.Brand, VariationID: vid,
			Size: v.Size, Color: v.Color, Quantity: st.Quantity, MinThreshold: st.MinThreshold,
		})
	}
	return out, nil
}
