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
	"github.com/tu-usuario/kardex-pro/internal/application/auth"
	appinv "github.com/tu-usuario/kardex-pro/internal/application/inventory"
	"github.com/tu-usuario/kardex-pro/internal/application/sales"
	"github.com/tu-usuario/kardex-pro/internal/application/usecase"
	infrapdf "github.com/tu-usuario/kardex-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/kardex-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/kardex-pro/internal/interfaces/http"
	"github.com/tu-usuario/kardex-pro/pkg/clock"
	"github.com/tu-usuario/kardex-pro/pkg/config"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
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

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	batchRepo := postgres.NewStockBatchRepository(pool)
	changeRepo := postgres.NewStockChangeRepository(pool)
	transferRepo := postgres.NewStockTransferRepository(pool)
	replenishmentRepo := postgres.NewReplenishmentRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	clk := clock.System{}
	retry := appinv.RetryConfig{
		MaxRetries: cfg.Inventory.TxMaxRetries,
		BaseDelay:  time.Duration(cfg.Inventory.TxRetryBaseMs) * time.Millisecond,
	}

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	userUC := usecase.NewUserUseCase(userRepo)

	batchUC := appinv.NewBatchUseCase(productRepo, locationRepo, supplierRepo, batchRepo, txRunner, clk, log, retry)
	consumeUC := appinv.NewConsumeStockUseCase(productRepo, locationRepo, batchRepo, txRunner, clk, log, retry)
	transferUC := appinv.NewTransferUseCase(productRepo, locationRepo, batchRepo, transferRepo, consumeUC, txRunner, clk, log, retry)
	replenishmentUC := appinv.NewReplenishmentUseCase(productRepo, locationRepo, replenishmentRepo, transferUC, txRunner, clk, log, retry)
	reconcileUC := appinv.NewReconciliationUseCase(productRepo, batchRepo, changeRepo, saleRepo, txRunner, clk, log, cfg.Inventory.MigrationCutover)

	// PDF del kardex (soporte documental de inventarios)
	kardexPDF := infrapdf.NewMarotoKardexGenerator()
	kardexUC := appinv.NewKardexUseCase(productRepo, changeRepo, companyRepo, kardexPDF, clk, log)

	salesUC := sales.NewCreateSaleUseCase(productRepo, locationRepo, saleRepo, consumeUC, txRunner, clk, log, retry)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
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

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kardex Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:       companyUC,
		LocationUC:      locationUC,
		ProductUC:       productUC,
		SupplierUC:      supplierUC,
		BatchUC:         batchUC,
		ConsumeUC:       consumeUC,
		KardexUC:        kardexUC,
		ReconcileUC:     reconcileUC,
		TransferUC:      transferUC,
		ReplenishmentUC: replenishmentUC,
		SalesUC:         salesUC,
		AuthUC:          authUC,
		UserUC:          userUC,
		JWTSecret:       cfg.JWT.Secret,
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
