package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/multistock/internal/application/auth"
	"github.com/tu-usuario/multistock/internal/application/engine"
	"github.com/tu-usuario/multistock/internal/application/ledger"
	"github.com/tu-usuario/multistock/internal/application/usecase"
	"github.com/tu-usuario/multistock/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StoreUC       *usecase.StoreUseCase
	CategoryUC    *usecase.CategoryUseCase
	ProductUC     *usecase.ProductUseCase
	CustomerUC    *usecase.CustomerUseCase
	SalesPersonUC *usecase.SalesPersonUseCase
	ReportUC      *usecase.ReportUseCase
	AuthUC        *auth.AuthUseCase
	Ledger        *ledger.StockLedger
	Engine        *engine.TransactionEngine
	StockRepo     repository.StockRepository
	SaleRepo      repository.SaleRepository
	PurchaseRepo  repository.PurchaseRepository
	Authorizer    Authorizer
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authz := deps.Authorizer

	// Auth: login público; registro restringido a administración de usuarios.
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register",
		AuthMiddleware(deps.JWTSecret),
		RequireCapability(authz, CapManageUsers),
		authHandler.Register,
	)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Stores
	stores := protected.Group("/stores")
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores.Get("/", storeHandler.List)
	stores.Get("/:id", storeHandler.GetByID)
	stores.Post("/", RequireCapability(authz, CapManageCatalog), storeHandler.Create)
	stores.Put("/:id", RequireCapability(authz, CapManageCatalog), storeHandler.Update)
	stores.Delete("/:id", RequireCapability(authz, CapManageCatalog), storeHandler.Delete)

	// Products y categories
	productHandler := NewProductHandler(deps.ProductUC, deps.CategoryUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/code/:code", productHandler.GetByCode)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireCapability(authz, CapManageCatalog), productHandler.Create)
	products.Put("/:id", RequireCapability(authz, CapManageCatalog), productHandler.Update)
	products.Delete("/:id", RequireCapability(authz, CapManageCatalog), productHandler.Delete)

	categories := protected.Group("/categories")
	categories.Get("/", productHandler.ListCategories)
	categories.Post("/", RequireCapability(authz, CapManageCatalog), productHandler.CreateCategory)
	categories.Delete("/:id", RequireCapability(authz, CapManageCatalog), productHandler.DeleteCategory)

	// Stock y movimientos
	stockHandler := NewStockHandler(deps.Ledger, deps.StockRepo)
	stock := protected.Group("/stock")
	stock.Get("/", stockHandler.Get)
	stock.Get("/store/:id", stockHandler.ListByStore)
	stock.Get("/product/:id", stockHandler.ListByProduct)
	stock.Post("/adjust", RequireCapability(authz, CapAdjustStock), stockHandler.Adjust)

	movements := protected.Group("/movements")
	movements.Get("/product/:id", stockHandler.MovementsByProduct)
	movements.Get("/store/:id", stockHandler.MovementsByStore)

	// Sales y transfers
	saleHandler := NewSaleHandler(deps.Engine, deps.SaleRepo)
	sales := protected.Group("/sales")
	sales.Get("/", saleHandler.List)
	sales.Get("/order/:orderID", saleHandler.GetByOrderID)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Post("/", RequireCapability(authz, CapRecordSale), saleHandler.CreateSale)

	transfers := protected.Group("/transfers")
	transfers.Post("/", RequireCapability(authz, CapRecordTransfer), saleHandler.CreateTransfer)

	// Purchases
	purchaseHandler := NewPurchaseHandler(deps.Engine, deps.PurchaseRepo)
	purchases := protected.Group("/purchases")
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/order/:orderID", purchaseHandler.GetByOrderID)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/", RequireCapability(authz, CapRecordPurchase), purchaseHandler.Create)

	// Customers y salespeople
	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.SalesPersonUC)
	customers := protected.Group("/customers")
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Post("/", RequireCapability(authz, CapRecordSale), customerHandler.Create)
	customers.Delete("/:id", RequireCapability(authz, CapManageCatalog), customerHandler.Delete)

	salespeople := protected.Group("/salespeople")
	salespeople.Get("/", customerHandler.ListSalesPeople)
	salespeople.Post("/", RequireCapability(authz, CapManageCatalog), customerHandler.CreateSalesPerson)
	salespeople.Delete("/:id", RequireCapability(authz, CapManageCatalog), customerHandler.DeactivateSalesPerson)

	// Reports
	reportHandler := NewReportHandler(deps.ReportUC)
	reports := protected.Group("/reports", RequireCapability(authz, CapViewReports))
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/low-stock", reportHandler.LowStock)
}
