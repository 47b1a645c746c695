package sequence_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/sequence"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/tenant"
)

type seqKey struct {
	tenant  string
	docType entity.DocumentType
	number  int64
}

// memSequences emula la clave única (tenant, tipo, número). Las transacciones no se serializan,
// así que lecturas concurrentes de Last compiten de verdad por el mismo número.
type memSequences struct {
	mu       sync.Mutex
	taken    map[seqKey]bool
	attempts int
	// alwaysTaken simula contención permanente.
	alwaysTaken bool
}

func newMemSequences() *memSequences {
	return &memSequences{taken: map[seqKey]bool{}}
}

func (m *memSequences) RunDocument(ctx context.Context, fn func(sequence.Repos) error) error {
	t, err := tenant.FromContext(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	txn := &memTxn{m: m, tenant: t}
	if err := fn(sequence.Repos{Sequences: txn}); err != nil {
		txn.rollback()
		return err
	}
	return nil
}

type memTxn struct {
	m        *memSequences
	tenant   string
	reserved []seqKey
}

func (x *memTxn) Last(_ context.Context, docType entity.DocumentType) (int64, error) {
	x.m.mu.Lock()
	defer x.m.mu.Unlock()
	var last int64
	for k := range x.m.taken {
		if k.tenant == x.tenant && k.docType == docType && k.number > last {
			last = k.number
		}
	}
	return last, nil
}

func (x *memTxn) Reserve(_ context.Context, docType entity.DocumentType, n int64) error {
	x.m.mu.Lock()
	defer x.m.mu.Unlock()
	x.m.attempts++
	k := seqKey{x.tenant, docType, n}
	if x.m.alwaysTaken || x.m.taken[k] {
		return domain.ErrNumberTaken
	}
	x.m.taken[k] = true
	x.reserved = append(x.reserved, k)
	return nil
}

func (x *memTxn) rollback() {
	x.m.mu.Lock()
	defer x.m.mu.Unlock()
	for _, k := range x.reserved {
		delete(x.m.taken, k)
	}
}

func cfg(attempts int) sequence.Config {
	return sequence.Config{MaxAttempts: attempts, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}
}

func ctxFor(id string) context.Context { return tenant.MustWithTenant(context.Background(), id) }

// ── Numeración ───────────────────────────────────────────────────────────────

func TestNext_EmpiezaEnUnoYAvanza(t *testing.T) {
	g := sequence.NewGenerator(newMemSequences(), cfg(10))
	ctx := ctxFor("loja-a")

	n, err := g.Next(ctx, entity.DocCatalogOrder)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, "#0001", entity.DocCatalogOrder.Display(n))

	n, err = g.Next(ctx, entity.DocCatalogOrder)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// otro tipo tiene su propia secuencia
	n, err = g.Next(ctx, entity.DocPurchaseOrder)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, "PC-000001", entity.DocPurchaseOrder.Display(n))
}

func TestNext_TenantsIndependientes(t *testing.T) {
	g := sequence.NewGenerator(newMemSequences(), cfg(10))

	a, err := g.Next(ctxFor("loja-a"), entity.DocCatalogOrder)
	require.NoError(t, err)
	b, err := g.Next(ctxFor("loja-b"), entity.DocCatalogOrder)
	require.NoError(t, err)

	assert.Equal(t, int64(1), a)
	assert.Equal(t, int64(1), b)
}

func TestNext_CincuentaConcurrentesSinHuecosNiDuplicados(t *testing.T) {
	// cada reintento perdido implica un número tomado por otro; 50 intentos bastan para 50 llamadas
	g := sequence.NewGenerator(newMemSequences(), cfg(50))
	ctx := ctxFor("loja-a")

	const calls = 50
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		got []int64
	)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := g.Next(ctx, entity.DocCatalogOrder)
			assert.NoError(t, err)
			mu.Lock()
			got = append(got, n)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	require.Len(t, got, calls)
	for i, n := range got {
		assert.Equal(t, int64(i+1), n)
	}
}

// ── Reintentos ───────────────────────────────────────────────────────────────

func TestIssue_ContencionAgotada(t *testing.T) {
	store := newMemSequences()
	store.alwaysTaken = true
	g := sequence.NewGenerator(store, cfg(4))

	_, err := g.Next(ctxFor("loja-a"), entity.DocCatalogOrder)
	assert.ErrorIs(t, err, domain.ErrSequenceContention)
	assert.Equal(t, 4, store.attempts)
}

func TestIssue_ColisionDelDocumentoReintenta(t *testing.T) {
	store := newMemSequences()
	g := sequence.NewGenerator(store, cfg(5))
	calls := 0

	n, err := g.Issue(ctxFor("loja-a"), entity.DocCatalogOrder, func(number int64, _ sequence.Repos) error {
		calls++
		if calls == 1 {
			return domain.ErrNumberTaken
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	// el primer intento se revirtió, el número 1 sigue libre
	assert.Equal(t, int64(1), n)
}

func TestIssue_ErrorDelDocumentoNoReintentaYLiberaNumero(t *testing.T) {
	store := newMemSequences()
	g := sequence.NewGenerator(store, cfg(5))
	boom := errors.New("item inválido")
	ctx := ctxFor("loja-a")

	_, err := g.Issue(ctx, entity.DocCatalogOrder, func(int64, sequence.Repos) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, store.attempts)

	n, err := g.Next(ctx, entity.DocCatalogOrder)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestIssue_SinTenant(t *testing.T) {
	g := sequence.NewGenerator(newMemSequences(), cfg(5))
	_, err := g.Next(context.Background(), entity.DocCatalogOrder)
	assert.ErrorIs(t, err, domain.ErrMissingTenant)
}

func TestIssue_TipoDesconocido(t *testing.T) {
	g := sequence.NewGenerator(newMemSequences(), cfg(5))
	_, err := g.Next(ctxFor("loja-a"), entity.DocumentType("invoice"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIssue_ContextoCanceladoEsTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(ctxFor("loja-a"))
	cancel()

	g := sequence.NewGenerator(newMemSequences(), cfg(5))
	_, err := g.Next(ctx, entity.DocCatalogOrder)
	assert.ErrorIs(t, err, domain.ErrTimeout)
}
