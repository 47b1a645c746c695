package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/catalog"
	"github.com/jhoicas/backoffice-api/internal/application/customer"
	"github.com/jhoicas/backoffice-api/internal/application/finance"
	"github.com/jhoicas/backoffice-api/internal/application/orders"
	"github.com/jhoicas/backoffice-api/internal/application/tenancy"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC       *catalog.ProductUseCase
	CustomerUC      *customer.UseCase
	CatalogOrderUC  *orders.CatalogOrderUseCase
	PurchaseOrderUC *orders.PurchaseOrderUseCase
	PayableUC       *finance.PayableUseCase
	ReceivableUC    *finance.ReceivableUseCase
	SubscriptionUC  *finance.SubscriptionUseCase
	Numbers         NumberReserver

	Resolver       *tenancy.Resolver
	TenantHeader   string
	RequestTimeout time.Duration
}

// Router registra las rutas de la API. Todo /api pasa por la resolución de tenant.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api",
		RequestTimeout(deps.RequestTimeout),
		TenantMiddleware(deps.Resolver, deps.TenantHeader),
	)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Patch("/stock/:variationId", productHandler.AdjustStock)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Customers
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Delete("/transactions/:transactionId", customerHandler.DeleteTransaction)
	customers.Get("/:id", customerHandler.Get)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)
	customers.Post("/:id/transactions", customerHandler.AddTransaction)

	// Catalog orders
	catalogOrders := api.Group("/catalog-orders")
	catalogHandler := NewCatalogOrderHandler(deps.CatalogOrderUC)
	catalogOrders.Post("/", catalogHandler.Create)
	catalogOrders.Get("/", catalogHandler.List)
	catalogOrders.Get("/:id", catalogHandler.Get)
	catalogOrders.Patch("/:id/status", catalogHandler.UpdateStatus)

	// Purchase orders
	purchaseOrders := api.Group("/purchase-orders")
	purchaseHandler := NewPurchaseOrderHandler(deps.PurchaseOrderUC)
	purchaseOrders.Post("/", purchaseHandler.Create)
	purchaseOrders.Get("/", purchaseHandler.List)
	purchaseOrders.Get("/:id", purchaseHandler.Get)
	purchaseOrders.Get("/:id/pdf", purchaseHandler.PDF)
	purchaseOrders.Patch("/:id/status", purchaseHandler.UpdateStatus)
	purchaseOrders.Post("/:id/receive", purchaseHandler.Receive)
	purchaseOrders.Post("/:id/cancel", purchaseHandler.Cancel)

	// Finance
	payables := api.Group("/accounts-payable")
	payableHandler := NewPayableHandler(deps.PayableUC)
	payables.Post("/", payableHandler.Create)
	payables.Get("/", payableHandler.List)
	payables.Get("/upcoming", payableHandler.Upcoming)
	payables.Get("/:id", payableHandler.Get)
	payables.Post("/:id/pay", payableHandler.Pay)
	payables.Post("/:id/cancel", payableHandler.Cancel)

	receivables := api.Group("/accounts-receivable")
	receivableHandler := NewReceivableHandler(deps.ReceivableUC)
	receivables.Post("/", receivableHandler.Create)
	receivables.Get("/", receivableHandler.List)
	receivables.Get("/upcoming", receivableHandler.Upcoming)
	receivables.Get("/:id", receivableHandler.Get)
	receivables.Post("/:id/receive", receivableHandler.Receive)
	receivables.Post("/:id/cancel", receivableHandler.Cancel)

	subscriptions := api.Group("/subscriptions")
	subscriptionHandler := NewSubscriptionHandler(deps.SubscriptionUC)
	subscriptions.Post("/", subscriptionHandler.Create)
	subscriptions.Get("/", subscriptionHandler.List)
	subscriptions.Get("/current", subscriptionHandler.Current)
	subscriptions.Patch("/:id/status", subscriptionHandler.UpdateStatus)

	// Sequences
	sequenceHandler := NewSequenceHandler(deps.Numbers)
	api.Post("/sequences/:documentType/next", sequenceHandler.Next)
}
