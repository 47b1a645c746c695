package orders_test

import (
	"context"
	"sync"

	"github.com/jhoicas/backoffice-api/internal/application/sequence"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/tenant"
)

// state contenido de la base en memoria; se copia entero para emular rollback.
type state struct {
	seq        map[string]int64 // tenant|tipo -> último número
	catalog    map[string]entity.CatalogOrder
	purchase   map[string]entity.PurchaseOrder
	products   map[string]entity.Product
	variations map[string]entity.Variation
	stock      map[string]entity.Stock
}

func (s state) clone() state {
	c := state{
		seq:        map[string]int64{},
		catalog:    map[string]entity.CatalogOrder{},
		purchase:   map[string]entity.PurchaseOrder{},
		products:   map[string]entity.Product{},
		variations: map[string]entity.Variation{},
		stock:      map[string]entity.Stock{},
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	for k, v := range s.catalog {
		c.catalog[k] = v
	}
	for k, v := range s.purchase {
		c.purchase[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.variations {
		c.variations[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	return c
}

type memStore struct {
	mu sync.Mutex
	st state
}

func newMemStore() *memStore {
	return &memStore{st: state{}.clone()}
}

func (m *memStore) RunDocument(ctx context.Context, fn func(sequence.Repos) error) error {
	if _, err := tenant.FromContext(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := m.st.clone()
	if err := fn(m.repos()); err != nil {
		m.st = saved
		return err
	}
	return nil
}

func (m *memStore) repos() sequence.Repos {
	return sequence.Repos{
		Sequences:      memSeq{m},
		CatalogOrders:  memCatalog{m},
		PurchaseOrders: memPurchase{m},
		Products:       memProducts{m},
		Variations:     memVariations{m},
		Stock:          memStock{m},
	}
}

// seed inserta directamente producto, variación y stock para el tenant.
func (m *memStore) seed(tenantID string, p entity.Product, v entity.Variation, qty int) {
	p.TenantID, v.TenantID = tenantID, tenantID
	v.ProductID = p.ID
	m.st.products[p.ID] = p
	m.st.variations[v.ID] = v
	m.st.stock[v.ID] = entity.Stock{ID: "s-" + v.ID, TenantID: tenantID, VariationID: v.ID, Quantity: qty, MinThreshold: 5}
}

func tid(ctx context.Context) string {
	id, _ := tenant.FromContext(ctx)
	return id
}

type memSeq struct{ m *memStore }

func (r memSeq) Last(ctx context.Context, docType entity.DocumentType) (int64, error) {
	return r.m.st.seq[tid(ctx)+"|"+string(docType)], nil
}

func (r memSeq) Reserve(ctx context.Context, docType entity.DocumentType, n int64) error {
	k := tid(ctx) + "|" + string(docType)
	if r.m.st.seq[k] >= n {
		return domain.ErrNumberTaken
	}
	r.m.st.seq[k] = n
	return nil
}

type memCatalog struct{ m *memStore }

func (r memCatalog) Create(ctx context.Context, o *entity.CatalogOrder) error {
	o.TenantID = tid(ctx)
	r.m.st.catalog[o.ID] = *o
	return nil
}

func (r memCatalog) GetByID(ctx context.Context, id string) (*entity.CatalogOrder, error) {
	o, ok := r.m.st.catalog[id]
	if !ok || o.TenantID != tid(ctx) {
		return nil, nil
	}
	return &o, nil
}

func (r memCatalog) List(ctx context.Context, status entity.CatalogOrderStatus, limit, offset int) ([]*entity.CatalogOrder, error) {
	var out []*entity.CatalogOrder
	for _, o := range r.m.st.catalog {
		if o.TenantID == tid(ctx) && (status == "" || o.Status == status) {
			o := o
			out = append(out, &o)
		}
	}
	return out, nil
}

func (r memCatalog) UpdateStatus(ctx context.Context, id string, status entity.CatalogOrderStatus, notes string) error {
	o, ok := r.m.st.catalog[id]
	if !ok || o.TenantID != tid(ctx) {
		return domain.ErrNotFound
	}
	o.Status, o.Notes = status, notes
	r.m.st.catalog[id] = o
	return nil
}

type memPurchase struct{ m *memStore }

func (r memPurchase) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	o.TenantID = tid(ctx)
	r.m.st.purchase[o.ID] = *o
	return nil
}

func (r memPurchase) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	o, ok := r.m.st.purchase[id]
	if !ok || o.TenantID != tid(ctx) {
		return nil, nil
	}
	return &o, nil
}

func (r memPurchase) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r memPurchase) List(ctx context.Context, status entity.PurchaseOrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for _, o := range r.m.st.purchase {
		if o.TenantID == tid(ctx) && (status == "" || o.Status == status) {
			o := o
			out = append(out, &o)
		}
	}
	return out, nil
}

func (r memPurchase) UpdateStatus(ctx context.Context, o *entity.PurchaseOrder) error {
	cur, ok := r.m.st.purchase[o.ID]
	if !ok || cur.TenantID != tid(ctx) {
		return domain.ErrNotFound
	}
	cur.Status, cur.DeliveredDate, cur.UpdatedAt = o.Status, o.DeliveredDate, o.UpdatedAt
	r.m.st.purchase[o.ID] = cur
	return nil
}

type memProducts struct{ m *memStore }

func (r memProducts) Create(ctx context.Context, p *entity.Product) error {
	p.TenantID = tid(ctx)
	r.m.st.products[p.ID] = *p
	return nil
}

func (r memProducts) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, ok := r.m.st.products[id]
	if !ok || p.TenantID != tid(ctx) {
		return nil, nil
	}
	return &p, nil
}

func (r memProducts) Update(context.Context, *entity.Product) error { return nil }

func (r memProducts) List(context.Context, int, int) ([]*entity.Product, error) { return nil, nil }

func (r memProducts) Count(context.Context) (int, error) { return 0, nil }

func (r memProducts) Delete(context.Context, string) error { return nil }

type memVariations struct{ m *memStore }

func (r memVariations) Create(ctx context.Context, v *entity.Variation) error {
	v.TenantID = tid(ctx)
	r.m.st.variations[v.ID] = *v
	return nil
}

func (r memVariations) GetByID(ctx context.Context, id string) (*entity.Variation, error) {
	v, ok := r.m.st.variations[id]
	if !ok || v.TenantID != tid(ctx) {
		return nil, nil
	}
	return &v, nil
}

func (r memVariations) ListByProducts(context.Context, []string) ([]*entity.Variation, error) {
	return nil, nil
}

func (r memVariations) DeleteByProduct(context.Context, string) error { return nil }

type memStock struct{ m *memStore }

func (r memStock) Create(ctx context.Context, s *entity.Stock) error {
	s.TenantID = tid(ctx)
	r.m.st.stock[s.VariationID] = *s
	return nil
}

func (r memStock) ListByVariations(context.Context, []string) ([]*entity.Stock, error) {
	return nil, nil
}

func (r memStock) GetForUpdate(ctx context.Context, variationID string) (*entity.Stock, error) {
	s, ok := r.m.st.stock[variationID]
	if !ok || s.TenantID != tid(ctx) {
		return nil, nil
	}
	return &s, nil
}

func (r memStock) UpdateQuantity(ctx context.Context, variationID string, quantity int) error {
	s, ok := r.m.st.stock[variationID]
	if !ok || s.TenantID != tid(ctx) {
		return domain.ErrNotFound
	}
	s.Quantity = quantity
	r.m.st.stock[variationID] = s
	return nil
}

func (r memStock) DeleteByProduct(context.Context, string) error { return nil }

func (r memStock) ListLow(context.Context) ([]entity.LowStockItem, error) { return nil, nil }
