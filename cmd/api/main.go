package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/backoffice-api/internal/application/catalog"
	"github.com/jhoicas/backoffice-api/internal/application/customer"
	"github.com/jhoicas/backoffice-api/internal/application/finance"
	"github.com/jhoicas/backoffice-api/internal/application/orders"
	"github.com/jhoicas/backoffice-api/internal/application/sequence"
	"github.com/jhoicas/backoffice-api/internal/application/tenancy"
	infrapdf "github.com/jhoicas/backoffice-api/internal/infrastructure/pdf"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/backoffice-api/internal/interfaces/http"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.DB.AutoMigrate {
		migrator, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Zerolog())
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		if err := migrator.Up(); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		_ = migrator.Close()
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Lecturas fuera de transacción sobre el pool; escrituras del agregado vía TxRunner.
	gate := postgres.NewGate(pool)
	txRunner := postgres.NewTxRunner(pool)

	generator := sequence.NewGenerator(txRunner, sequence.Config{
		MaxAttempts:    cfg.Sequence.MaxAttempts,
		InitialBackoff: cfg.Sequence.InitialBackoff,
		MaxBackoff:     cfg.Sequence.MaxBackoff,
	})
	reconciler := finance.NewReconciler(finance.Config{ExpireTrials: cfg.Finance.ExpireTrials})

	productUC := catalog.NewProductUseCase(txRunner, postgres.CatalogRepos(gate), catalog.Config{
		DefaultMinStock: cfg.Catalog.DefaultMinStock,
	})
	customerUC := customer.NewUseCase(txRunner, postgres.CustomerRepos(gate))
	documentRepos := postgres.DocumentRepos(gate)
	catalogOrderUC := orders.NewCatalogOrderUseCase(generator, txRunner, documentRepos)
	purchaseOrderUC := orders.NewPurchaseOrderUseCase(generator, txRunner, documentRepos, infrapdf.NewMarotoPDFGenerator())
	payableUC := finance.NewPayableUseCase(postgres.NewAccountPayableRepository(gate), postgres.NewPurchaseOrderRepository(gate), reconciler)
	receivableUC := finance.NewReceivableUseCase(postgres.NewAccountReceivableRepository(gate), postgres.NewCustomerRepository(gate), reconciler)
	subscriptionUC := finance.NewSubscriptionUseCase(postgres.NewSubscriptionRepository(gate), reconciler)

	resolver := tenancy.NewResolver(tenancy.Config{
		JWTSecret:     cfg.JWT.Secret,
		DefaultTenant: cfg.Tenancy.DefaultTenant,
		PublicRoutes:  cfg.Tenancy.PublicRoutes,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))

	if _, err := os.Stat(cfg.Docs.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Docs.SwaggerFile,
			Path:     "docs",
			Title:    "Backoffice API",
		}))
	} else {
		log.Warn().Str("file", cfg.Docs.SwaggerFile).Msg("swagger no disponible")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:       productUC,
		CustomerUC:      customerUC,
		CatalogOrderUC:  catalogOrderUC,
		PurchaseOrderUC: purchaseOrderUC,
		PayableUC:       payableUC,
		ReceivableUC:    receivableUC,
		SubscriptionUC:  subscriptionUC,
		Numbers:         generator,
		Resolver:        resolver,
		TenantHeader:    cfg.Tenancy.Header,
		RequestTimeout:  cfg.HTTP.RequestTimeout,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
