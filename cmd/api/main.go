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
	"github.com/tu-usuario/multistock/docs"
	"github.com/tu-usuario/multistock/internal/application/auth"
	"github.com/tu-usuario/multistock/internal/application/engine"
	"github.com/tu-usuario/multistock/internal/application/ledger"
	"github.com/tu-usuario/multistock/internal/application/sequence"
	"github.com/tu-usuario/multistock/internal/application/usecase"
	"github.com/tu-usuario/multistock/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/multistock/internal/interfaces/http"
	"github.com/tu-usuario/multistock/pkg/config"
	"github.com/tu-usuario/multistock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	storeRepo := postgres.NewStoreRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	salesPersonRepo := postgres.NewSalesPersonRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movRepo := postgres.NewMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	stockLedger := ledger.NewStockLedger(txRunner, stockRepo, movRepo)
	seqGen := sequence.NewGenerator()
	txEngine := engine.NewTransactionEngine(
		txRunner, stockLedger, seqGen,
		storeRepo, productRepo, customerRepo, salesPersonRepo,
	)

	storeUC := usecase.NewStoreUseCase(storeRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	productUC := usecase.NewProductUseCase(productRepo, stockRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	salesPersonUC := usecase.NewSalesPersonUseCase(salesPersonRepo)
	reportUC := usecase.NewReportUseCase(reportRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs. La especificación va
	// embebida en el binario para no depender del directorio de trabajo.
	app.Use(swagger.New(swagger.Config{
		BasePath:    "/",
		FileContent: docs.Spec,
		Path:        "docs",
		Title:       "Multistock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StoreUC:       storeUC,
		CategoryUC:    categoryUC,
		ProductUC:     productUC,
		CustomerUC:    customerUC,
		SalesPersonUC: salesPersonUC,
		ReportUC:      reportUC,
		AuthUC:        authUC,
		Ledger:        stockLedger,
		Engine:        txEngine,
		StockRepo:     stockRepo,
		SaleRepo:      saleRepo,
		PurchaseRepo:  purchaseRepo,
		Authorizer:    httpRouter.NewRoleAuthorizer(),
		JWTSecret:     cfg.JWT.Secret,
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
