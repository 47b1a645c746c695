//go:build integration

package postgres_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/backoffice-api/internal/application/catalog"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/finance"
	"github.com/jhoicas/backoffice-api/internal/application/orders"
	"github.com/jhoicas/backoffice-api/internal/application/sequence"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/tenant"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/postgres"
	"github.com/jhoicas/backoffice-api/pkg/config"
)

// ── Contenedor ───────────────────────────────────────────────────────────────

// newTestPool levanta PostgreSQL, aplica las migraciones embebidas y devuelve el pool.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("backoffice_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "iniciar contenedor PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := postgres.NewMigrator(dsn, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	pool, err := postgres.NewPoolFromDSN(ctx, dsn, 20, 2)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func ctxFor(id string) context.Context {
	return tenant.MustWithTenant(context.Background(), id)
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func shirt(barcodes ...string) dto.ProductRequest {
	in := dto.ProductRequest{
		Name:      "Camiseta",
		Brand:     "Hering",
		CostPrice: decimal.NewFromInt(20),
		SalePrice: decimal.NewFromInt(40),
	}
	for i, b := range barcodes {
		in.Variations = append(in.Variations, dto.VariationRequest{
			Size:     []string{"P", "M", "G"}[i%3],
			Color:    "Azul",
			Barcode:  strPtr(b),
			Quantity: intPtr(10),
		})
	}
	return in
}

// ── Producto ─────────────────────────────────────────────────────────────────

func TestIntegration_AislamientoEntreTenants(t *testing.T) {
	pool := newTestPool(t)
	gate := postgres.NewGate(pool)
	uc := catalog.NewProductUseCase(postgres.NewTxRunner(pool), postgres.CatalogRepos(gate), catalog.Config{DefaultMinStock: 5})

	a, err := uc.Create(ctxFor("loja-a"), shirt("789000000001"))
	require.NoError(t, err)
	assert.Equal(t, "100.00%", a.Margin)

	_, err = uc.Get(ctxFor("loja-b"), a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = uc.Delete(ctxFor("loja-b"), a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctxFor("loja-b"), dto.PageRequest{Limit: 50})
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	got, err := uc.Get(ctxFor("loja-a"), a.ID)
	require.NoError(t, err)
	require.Len(t, got.Variations, 1)
	assert.Equal(t, 10, got.Variations[0].Stock.Quantity)
}

func TestIntegration_CodigoDeBarrasDuplicadoRevierteTodo(t *testing.T) {
	pool := newTestPool(t)
	gate := postgres.NewGate(pool)
	uc := catalog.NewProductUseCase(postgres.NewTxRunner(pool), postgres.CatalogRepos(gate), catalog.Config{DefaultMinStock: 5})
	ctx := ctxFor("loja-a")

	_, err := uc.Create(ctx, shirt("789000000001", "789000000002", "789000000001"))
	var dup *domain.DuplicateError
	require.ErrorAs(t, err, &dup)

	var products, variations, stock int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&products))
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM variations`).Scan(&variations))
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM stock`).Scan(&stock))
	assert.Zero(t, products)
	assert.Zero(t, variations)
	assert.Zero(t, stock)

	// Otro tenant puede usar el mismo código.
	_, err = uc.Create(ctxFor("loja-b"), shirt("789000000001"))
	assert.NoError(t, err)
}

// ── Secuencias ───────────────────────────────────────────────────────────────

// sequenceDefaults la configuración que usa la API sin variables de entorno.
func sequenceDefaults(t *testing.T) sequence.Config {
	t.Helper()
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)
	return sequence.Config{
		MaxAttempts:    cfg.Sequence.MaxAttempts,
		InitialBackoff: cfg.Sequence.InitialBackoff,
		MaxBackoff:     cfg.Sequence.MaxBackoff,
	}
}

func TestIntegration_SecuenciaConcurrente(t *testing.T) {
	pool := newTestPool(t)
	gen := sequence.NewGenerator(postgres.NewTxRunner(pool), sequenceDefaults(t))
	ctx := ctxFor("loja-a")

	const n = 50
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		got  []int64
		errs []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := gen.Next(ctx, entity.DocCatalogOrder)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			got = append(got, num)
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	for i := range got {
		assert.Equal(t, int64(i+1), got[i])
	}
}

func TestIntegration_PedidosNumeradosPorTenant(t *testing.T) {
	pool := newTestPool(t)
	gate := postgres.NewGate(pool)
	tx := postgres.NewTxRunner(pool)
	gen := sequence.NewGenerator(tx, sequenceDefaults(t))
	products := catalog.NewProductUseCase(tx, postgres.CatalogRepos(gate), catalog.Config{DefaultMinStock: 5})
	uc := orders.NewCatalogOrderUseCase(gen, tx, postgres.DocumentRepos(gate))

	for _, id := range []string{"loja-a", "loja-b"} {
		ctx := ctxFor(id)
		p, err := products.Create(ctx, shirt("7890000000"+id[len(id)-1:]))
		require.NoError(t, err)

		o, err := uc.Create(ctx, dto.CreateCatalogOrderRequest{
			CustomerName:  "Maria",
			CustomerPhone: "11999990000",
			Items:         []dto.CatalogOrderItemRequest{{ProductID: p.ID, VariationID: p.Variations[0].ID, Quantity: 2}},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), o.Number)
		assert.Equal(t, "#0001", o.DisplayNumber)
		assert.True(t, o.Total.Equal(decimal.NewFromInt(80)))
	}
}

// ── Referencias entre tenants ────────────────────────────────────────────────

func TestIntegration_CuentaNoReferenciaOrdenDeOtroTenant(t *testing.T) {
	pool := newTestPool(t)
	gate := postgres.NewGate(pool)
	tx := postgres.NewTxRunner(pool)
	purchases := orders.NewPurchaseOrderUseCase(sequence.NewGenerator(tx, sequenceDefaults(t)), tx, postgres.DocumentRepos(gate), nil)
	payablesRepo := postgres.NewAccountPayableRepository(gate)
	payables := finance.NewPayableUseCase(payablesRepo, postgres.NewPurchaseOrderRepository(gate), finance.NewReconciler(finance.Config{}))

	po, err := purchases.Create(ctxFor("loja-b"), dto.CreatePurchaseOrderRequest{
		SupplierName: "Malharia Sul",
		Items:        []dto.PurchaseOrderItemRequest{{Description: "Malha", Quantity: 1, UnitCost: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)

	in := dto.CreatePayableRequest{
		Description:     "Malha",
		PurchaseOrderID: po.ID,
		Amount:          decimal.NewFromInt(10),
		DueDate:         time.Now().AddDate(0, 0, 10),
	}
	_, err = payables.Create(ctxFor("loja-a"), in)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "purchase_order_id", ve.Field)

	// la FK compuesta rechaza la fila aunque se salte el caso de uso
	now := time.Now()
	err = payablesRepo.Create(ctxFor("loja-a"), &entity.AccountPayable{
		ID: uuid.New().String(), Description: "Malha", PurchaseOrderID: po.ID, Amount: decimal.NewFromInt(10),
		IssueDate: now, DueDate: now, Status: entity.BillPending, InstallmentNumber: 1, InstallmentCount: 1,
		CreatedAt: now, UpdatedAt: now,
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "accounts_payable_purchase_order_fk", ve.Field)

	res, err := payables.Create(ctxFor("loja-b"), in)
	require.NoError(t, err)
	assert.Equal(t, po.ID, res.PurchaseOrderID)
}

func TestIntegration_IdMalFormadoEsNotFound(t *testing.T) {
	pool := newTestPool(t)
	uc := catalog.NewProductUseCase(postgres.NewTxRunner(pool), postgres.CatalogRepos(postgres.NewGate(pool)), catalog.Config{DefaultMinStock: 5})

	_, err := uc.Get(ctxFor("loja-a"), "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
