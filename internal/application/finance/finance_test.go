package finance

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/tenant"
)

var today = time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)

func fixedReconciler(expireTrials bool) *Reconciler {
	r := NewReconciler(Config{ExpireTrials: expireTrials})
	r.now = func() time.Time { return today }
	return r
}

func ctxA() context.Context { return tenant.MustWithTenant(context.Background(), "loja-a") }

func day(offset int) time.Time {
	return time.Date(today.Year(), today.Month(), today.Day()+offset, 0, 0, 0, 0, time.UTC)
}

// memPayables cuenta las escrituras para verificar idempotencia.
type memPayables struct {
	rows       map[string]*entity.AccountPayable
	markWrites int
	updates    int
}

func newMemPayables() *memPayables { return &memPayables{rows: map[string]*entity.AccountPayable{}} }

func (m *memPayables) MarkOverdue(_ context.Context, id string) (bool, error) {
	a, ok := m.rows[id]
	if !ok || a.Status != entity.BillPending {
		return false, nil
	}
	m.markWrites++
	a.Status = entity.BillOverdue
	return true, nil
}

func (m *memPayables) Create(_ context.Context, a *entity.AccountPayable) error {
	cp := *a
	m.rows[a.ID] = &cp
	return nil
}

func (m *memPayables) GetByID(_ context.Context, id string) (*entity.AccountPayable, error) {
	a, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *memPayables) List(_ context.Context, f entity.BillFilter) ([]*entity.AccountPayable, error) {
	var out []*entity.AccountPayable
	for _, a := range m.rows {
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, a.Status) {
			continue
		}
		if f.Month > 0 && int(a.DueDate.Month()) != f.Month {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memPayables) Update(_ context.Context, a *entity.AccountPayable) error {
	if _, ok := m.rows[a.ID]; !ok {
		return domain.ErrNotFound
	}
	m.updates++
	cp := *a
	m.rows[a.ID] = &cp
	return nil
}

// tenantRows filas indexadas por tenant|id: GetByID de otro tenant devuelve nil, nil como el gate.
type tenantRows[T any] map[string]*T

func (m tenantRows[T]) get(ctx context.Context, id string) (*T, error) {
	tid, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	return m[tid+"|"+id], nil
}

type memOrders struct{ rows tenantRows[entity.PurchaseOrder] }

func newMemOrders() *memOrders { return &memOrders{rows: tenantRows[entity.PurchaseOrder]{}} }

func (m *memOrders) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return m.rows.get(ctx, id)
}

type memCustomers struct{ rows tenantRows[entity.Customer] }

func newMemCustomers() *memCustomers { return &memCustomers{rows: tenantRows[entity.Customer]{}} }

func (m *memCustomers) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return m.rows.get(ctx, id)
}

type memReceivables struct {
	rows map[string]*entity.AccountReceivable
}

func newMemReceivables() *memReceivables {
	return &memReceivables{rows: map[string]*entity.AccountReceivable{}}
}

func (m *memReceivables) MarkOverdue(_ context.Context, id string) (bool, error) {
	a, ok := m.rows[id]
	if !ok || a.Status != entity.BillPending {
		return false, nil
	}
	a.Status = entity.BillOverdue
	return true, nil
}

func (m *memReceivables) Create(_ context.Context, a *entity.AccountReceivable) error {
	cp := *a
	m.rows[a.ID] = &cp
	return nil
}

func (m *memReceivables) GetByID(_ context.Context, id string) (*entity.AccountReceivable, error) {
	a, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *memReceivables) List(context.Context, entity.BillFilter) ([]*entity.AccountReceivable, error) {
	var out []*entity.AccountReceivable
	for _, a := range m.rows {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memReceivables) Update(_ context.Context, a *entity.AccountReceivable) error {
	cp := *a
	m.rows[a.ID] = &cp
	return nil
}

func containsStatus(list []entity.BillStatus, s entity.BillStatus) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

type memSubscriptions struct {
	rows        map[string]*entity.Subscription
	transitions int
}

func (m *memSubscriptions) Create(_ context.Context, s *entity.Subscription) error {
	cp := *s
	m.rows[s.ID] = &cp
	return nil
}

func (m *memSubscriptions) GetByID(_ context.Context, id string) (*entity.Subscription, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memSubscriptions) Current(ctx context.Context) (*entity.Subscription, error) {
	var cur *entity.Subscription
	for _, s := range m.rows {
		if cur == nil || s.StartDate.After(cur.StartDate) {
			cur = s
		}
	}
	if cur == nil {
		return nil, nil
	}
	cp := *cur
	return &cp, nil
}

func (m *memSubscriptions) List(context.Context) ([]*entity.Subscription, error) {
	var out []*entity.Subscription
	for _, s := range m.rows {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memSubscriptions) TransitionStatus(_ context.Context, id string, from, to entity.SubscriptionStatus) (bool, error) {
	s, ok := m.rows[id]
	if !ok || s.Status != from {
		return false, nil
	}
	m.transitions++
	s.Status = to
	return true, nil
}

func (m *memSubscriptions) Update(_ context.Context, s *entity.Subscription) error {
	cp := *s
	m.rows[s.ID] = &cp
	return nil
}

func seedPayable(m *memPayables, id string, status entity.BillStatus, due time.Time, amount string) {
	m.rows[id] = &entity.AccountPayable{ID: id, Status: status, DueDate: due, Amount: decimal.RequireFromString(amount)}
}

// ── Reconciliación ───────────────────────────────────────────────────────────

func TestReconcilePayables_Idempotente(t *testing.T) {
	repo := newMemPayables()
	seedPayable(repo, "vencida", entity.BillPending, day(-1), "100")
	seedPayable(repo, "hoy", entity.BillPending, day(0), "100")
	seedPayable(repo, "pagada", entity.BillPaid, day(-10), "100")
	rec := fixedReconciler(false)

	list, _ := repo.List(ctxA(), entity.BillFilter{})
	n, err := rec.ReconcilePayables(ctxA(), repo, list)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, entity.BillOverdue, repo.rows["vencida"].Status)
	assert.Equal(t, entity.BillPending, repo.rows["hoy"].Status)

	// segunda pasada sobre datos frescos: ninguna escritura
	list, _ = repo.List(ctxA(), entity.BillFilter{})
	n, err = rec.ReconcilePayables(ctxA(), repo, list)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, repo.markWrites)
}

func TestReconcileSubscriptions_TrialTerminado(t *testing.T) {
	end := today.Add(-time.Hour)
	seed := func() *memSubscriptions {
		return &memSubscriptions{rows: map[string]*entity.Subscription{
			"s1": {ID: "s1", Status: entity.SubscriptionTrial, StartDate: day(-30), EndDate: &end},
		}}
	}

	repo := seed()
	list, _ := repo.List(ctxA())
	n, err := fixedReconciler(false).ReconcileSubscriptions(ctxA(), repo, list)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, entity.SubscriptionTrial, repo.rows["s1"].Status)

	repo = seed()
	rec := fixedReconciler(true)
	list, _ = repo.List(ctxA())
	n, err = rec.ReconcileSubscriptions(ctxA(), repo, list)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, entity.SubscriptionSuspended, repo.rows["s1"].Status)

	list, _ = repo.List(ctxA())
	_, err = rec.ReconcileSubscriptions(ctxA(), repo, list)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.transitions)
}

// ── Cuentas por pagar ────────────────────────────────────────────────────────

func TestPayableList_FiltroPendienteExcluyeVencidas(t *testing.T) {
	repo := newMemPayables()
	seedPayable(repo, "vencida", entity.BillPending, day(-3), "50")
	seedPayable(repo, "futura", entity.BillPending, day(5), "50")
	uc := NewPayableUseCase(repo, newMemOrders(), fixedReconciler(false))

	pending, err := uc.List(ctxA(), dto.BillListQuery{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "futura", pending[0].ID)

	overdue, err := uc.List(ctxA(), dto.BillListQuery{Status: "overdue"})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "vencida", overdue[0].ID)
	assert.Equal(t, 1, repo.markWrites)
}

func TestPayableList_VencidaSinReconciliarApareceComoOverdue(t *testing.T) {
	repo := newMemPayables()
	seedPayable(repo, "p1", entity.BillPending, day(-1), "50")
	uc := NewPayableUseCase(repo, newMemOrders(), fixedReconciler(false))

	// el primer listado de "overdue" ya la encuentra aunque en la base siga pending
	overdue, err := uc.List(ctxA(), dto.BillListQuery{Status: "overdue"})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "overdue", overdue[0].Status)
}

func TestPayablePay_ParcialYTotal(t *testing.T) {
	repo := newMemPayables()
	seedPayable(repo, "p1", entity.BillPending, day(10), "300")
	uc := NewPayableUseCase(repo, newMemOrders(), fixedReconciler(false))

	res, err := uc.Pay(ctxA(), "p1", dto.SettleRequest{Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.Equal(t, "pending", res.Status)
	assert.True(t, res.AmountPaid.Equal(decimal.NewFromInt(100)))
	assert.Nil(t, res.PaymentDate)

	_, err = uc.Pay(ctxA(), "p1", dto.SettleRequest{Amount: decimal.NewFromInt(250)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err = uc.Pay(ctxA(), "p1", dto.SettleRequest{Amount: decimal.NewFromInt(200), PaymentMethod: "pix"})
	require.NoError(t, err)
	assert.Equal(t, "paid", res.Status)
	assert.Equal(t, "pix", res.PaymentMethod)
	require.NotNil(t, res.PaymentDate)

	_, err = uc.Pay(ctxA(), "p1", dto.SettleRequest{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Cancel(ctxA(), "p1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPayablePay_VencidaAdmitePago(t *testing.T) {
	repo := newMemPayables()
	seedPayable(repo, "p1", entity.BillPending, day(-2), "80")
	uc := NewPayableUseCase(repo, newMemOrders(), fixedReconciler(false))

	res, err := uc.Pay(ctxA(), "p1", dto.SettleRequest{Amount: decimal.NewFromInt(80)})
	require.NoError(t, err)
	assert.Equal(t, "paid", res.Status)
}

func TestPayableCreate_NaceVencida(t *testing.T) {
	repo := newMemPayables()
	uc := NewPayableUseCase(repo, newMemOrders(), fixedReconciler(false))

	res, err := uc.Create(ctxA(), dto.CreatePayableRequest{Description: "Aluguel", Amount: decimal.NewFromInt(1200), DueDate: day(-1)})
	require.NoError(t, err)
	assert.Equal(t, "overdue", res.Status)
	assert.Equal(t, today, res.IssueDate)

	_, err = uc.Create(ctxA(), dto.CreatePayableRequest{Description: "Luz", Amount: decimal.Zero, DueDate: day(3)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPayableUpcoming(t *testing.T) {
	repo := newMemPayables()
	seedPayable(repo, "hoy", entity.BillPending, day(0), "10")
	seedPayable(repo, "en7", entity.BillPending, day(7), "10")
	seedPayable(repo, "en8", entity.BillPending, day(8), "10")
	seedPayable(repo, "ayer", entity.BillPending, day(-1), "10")
	uc := NewPayableUseCase(repo, newMemOrders(), fixedReconciler(false))

	list, err := uc.Upcoming(ctxA(), 7)
	require.NoError(t, err)
	ids := []string{}
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []string{"hoy", "en7"}, ids)
}

func TestPayableGet_NoExiste(t *testing.T) {
	uc := NewPayableUseCase(newMemPayables(), newMemOrders(), fixedReconciler(false))
	_, err := uc.Get(ctxA(), "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPayableCreate_VenceHoyEnZonaAlOeste(t *testing.T) {
	repo := newMemPayables()
	rec := NewReconciler(Config{})
	brt := time.FixedZone("BRT", -3*60*60)
	rec.now = func() time.Time { return time.Date(2026, 6, 15, 9, 0, 0, 0, brt) }
	uc := NewPayableUseCase(repo, newMemOrders(), rec)

	// DATE leída de la base: medianoche UTC del día 15
	res, err := uc.Create(ctxA(), dto.CreatePayableRequest{Description: "Luz", Amount: decimal.NewFromInt(90), DueDate: day(0)})
	require.NoError(t, err)
	assert.Equal(t, "pending", res.Status)
}

const (
	poA       = "5b0e6a3e-2c1d-4f6a-9b7e-0a1b2c3d4e5f"
	poB       = "9d8c7b6a-5f4e-4d3c-8b2a-1f0e9d8c7b6a"
	customerA = "0c2f1e4d-7a6b-4c5d-9e8f-1a2b3c4d5e6f"
	customerB = "e7d6c5b4-a398-4716-8f5e-4d3c2b1a0f9e"
)

func TestPayableCreate_OrdenDeCompraDeOtroTenant(t *testing.T) {
	repo := newMemPayables()
	orders := newMemOrders()
	orders.rows["loja-b|"+poB] = &entity.PurchaseOrder{ID: poB}
	orders.rows["loja-a|"+poA] = &entity.PurchaseOrder{ID: poA}
	uc := NewPayableUseCase(repo, orders, fixedReconciler(false))
	in := dto.CreatePayableRequest{Description: "Malha", Amount: decimal.NewFromInt(500), DueDate: day(10)}

	for _, id := range []string{poB, "3f1c9a57-0000-4000-8000-000000000000"} {
		in.PurchaseOrderID = id
		_, err := uc.Create(ctxA(), in)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve, id)
		assert.Equal(t, "purchase_order_id", ve.Field)
		assert.Equal(t, "orden de compra no encontrada", ve.Reason)
	}
	assert.Empty(t, repo.rows)

	in.PurchaseOrderID = poA
	res, err := uc.Create(ctxA(), in)
	require.NoError(t, err)
	assert.Equal(t, poA, res.PurchaseOrderID)
}

func TestPayableCreate_MontoConTresDecimales(t *testing.T) {
	repo := newMemPayables()
	uc := NewPayableUseCase(repo, newMemOrders(), fixedReconciler(false))

	_, err := uc.Create(ctxA(), dto.CreatePayableRequest{Description: "Luz", Amount: decimal.RequireFromString("90.005"), DueDate: day(3)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, repo.rows)
}

// ── Cuentas por cobrar ───────────────────────────────────────────────────────

func TestReceivableCreate_ClienteDeOtroTenant(t *testing.T) {
	repo := newMemReceivables()
	customers := newMemCustomers()
	customers.rows["loja-b|"+customerB] = &entity.Customer{ID: customerB, Name: "Cliente B"}
	uc := NewReceivableUseCase(repo, customers, fixedReconciler(false))

	_, err := uc.Create(ctxA(), dto.CreateReceivableRequest{
		Description: "Venda a prazo", CustomerID: customerB, Amount: decimal.NewFromInt(200), DueDate: day(30),
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "customer_id", ve.Field)
	assert.Empty(t, repo.rows)
}

func TestReceivableCreate_TomaNombreDelCliente(t *testing.T) {
	repo := newMemReceivables()
	customers := newMemCustomers()
	customers.rows["loja-a|"+customerA] = &entity.Customer{ID: customerA, Name: "Maria"}
	uc := NewReceivableUseCase(repo, customers, fixedReconciler(false))

	res, err := uc.Create(ctxA(), dto.CreateReceivableRequest{
		Description: "Venda a prazo", CustomerID: customerA, Amount: decimal.NewFromInt(200), DueDate: day(30),
	})
	require.NoError(t, err)
	assert.Equal(t, "Maria", res.CustomerName)
	assert.Equal(t, "pending", res.Status)

	// sin cliente se acepta el nombre libre
	res, err = uc.Create(ctxA(), dto.CreateReceivableRequest{
		Description: "Avulso", CustomerName: "Balcão", Amount: decimal.NewFromInt(20), DueDate: day(1),
	})
	require.NoError(t, err)
	assert.Equal(t, "Balcão", res.CustomerName)
}

// ── Suscripciones ────────────────────────────────────────────────────────────

func TestSubscription_TrialConDiasRestantes(t *testing.T) {
	repo := &memSubscriptions{rows: map[string]*entity.Subscription{}}
	uc := NewSubscriptionUseCase(repo, fixedReconciler(true))

	start := today.Add(-36 * time.Hour)
	res, err := uc.Create(ctxA(), dto.CreateSubscriptionRequest{Plan: "basic", TrialDays: 7, StartDate: &start})
	require.NoError(t, err)
	assert.Equal(t, "trial", res.Status)
	require.NotNil(t, res.RemainingDays)
	// quedan 5.5 días, redondeado hacia arriba
	assert.Equal(t, 6, *res.RemainingDays)

	cur, err := uc.Current(ctxA())
	require.NoError(t, err)
	assert.Equal(t, res.ID, cur.ID)
	assert.Zero(t, repo.transitions)
}

func TestSubscription_Validacion(t *testing.T) {
	uc := NewSubscriptionUseCase(&memSubscriptions{rows: map[string]*entity.Subscription{}}, fixedReconciler(false))

	_, err := uc.Create(ctxA(), dto.CreateSubscriptionRequest{Plan: "basic", Status: "trial"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Current(ctxA())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubscription_UpdateStatus(t *testing.T) {
	repo := &memSubscriptions{rows: map[string]*entity.Subscription{}}
	uc := NewSubscriptionUseCase(repo, fixedReconciler(false))
	s, err := uc.Create(ctxA(), dto.CreateSubscriptionRequest{Plan: "pro", Amount: decimal.NewFromInt(99)})
	require.NoError(t, err)
	assert.Equal(t, "active", s.Status)
	assert.Nil(t, s.RemainingDays)

	paid := true
	res, err := uc.UpdateStatus(ctxA(), s.ID, dto.UpdateSubscriptionStatusRequest{Status: "suspended", Paid: &paid})
	require.NoError(t, err)
	assert.Equal(t, "suspended", res.Status)
	assert.True(t, res.Paid)
}
