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
	"github.com/robfig/cron/v3"

	"github.com/tu-usuario/bodega-pos/internal/application/audit"
	"github.com/tu-usuario/bodega-pos/internal/application/auth"
	"github.com/tu-usuario/bodega-pos/internal/application/insights"
	"github.com/tu-usuario/bodega-pos/internal/application/purchasing"
	"github.com/tu-usuario/bodega-pos/internal/application/sales"
	"github.com/tu-usuario/bodega-pos/internal/application/stock"
	"github.com/tu-usuario/bodega-pos/internal/application/usecase"
	"github.com/tu-usuario/bodega-pos/internal/infrastructure/cache"
	"github.com/tu-usuario/bodega-pos/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/bodega-pos/internal/interfaces/http"
	"github.com/tu-usuario/bodega-pos/pkg/config"
	"github.com/tu-usuario/bodega-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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
	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	stockRepo := postgres.NewProductStockRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	ruleRepo := postgres.NewReorderRuleRepository(pool)
	insightsRepo := postgres.NewInsightsRepository(pool)
	activityRepo := postgres.NewActivityLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Bitácora best-effort: canal con buffer drenado por un worker; si se
	// llena, se descarta con warn en vez de bloquear la mutación.
	recorder := audit.NewRecorder(activityRepo, log, cfg.Audit.BufferSize)
	recorder.Start()
	defer recorder.Close()

	memCache := cache.NewMemory()
	defer memCache.Close()
	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second

	stockUC := stock.NewUseCase(txRunner, productRepo, locationRepo, batchRepo, movementRepo, stockRepo, recorder, memCache, log)
	salesUC := sales.NewUseCase(txRunner, productRepo, saleRepo, recorder, memCache, log)
	purchaseUC := purchasing.NewUseCase(txRunner, orderRepo, supplierRepo, recorder, memCache, log)
	insightsUC := insights.NewUseCase(insightsRepo, ruleRepo, productRepo, memCache, cacheTTL, cfg.Jobs.LookbackDays, log)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo, stockRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	activityUC := usecase.NewActivityUseCase(activityRepo)
	authUC := auth.NewUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Jobs programados: precalientan los calculadores derivados por empresa
	// para que el primer hit del día no pague la agregación completa.
	var scheduler *cron.Cron
	if cfg.Jobs.Enabled {
		scheduler = cron.New()
		warm := func(name string, fn func(ctx context.Context, companyID string) error) func() {
			return func() {
				ids, err := companyRepo.ListActiveIDs()
				if err != nil {
					log.Error().Err(err).Str("job", name).Msg("listar empresas activas")
					return
				}
				for _, id := range ids {
					if err := fn(context.Background(), id); err != nil {
						log.Warn().Err(err).Str("job", name).Str("company_id", id).Msg("precalentar cache")
					}
				}
			}
		}
		if _, err := scheduler.AddFunc(cfg.Jobs.ReorderSpec, warm("reorder", func(ctx context.Context, id string) error {
			_, err := insightsUC.ReorderSuggestions(ctx, id)
			return err
		})); err != nil {
			log.Fatal().Err(err).Msg("programar job de reorden")
		}
		if _, err := scheduler.AddFunc(cfg.Jobs.ForecastSpec, warm("forecast", func(ctx context.Context, id string) error {
			_, err := insightsUC.Forecast(ctx, id)
			return err
		})); err != nil {
			log.Fatal().Err(err).Msg("programar job de forecast")
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

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
		Title:    "Bodega POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:  companyUC,
		ProductUC:  productUC,
		LocationUC: locationUC,
		SupplierUC: supplierUC,
		ActivityUC: activityUC,
		StockUC:    stockUC,
		SalesUC:    salesUC,
		PurchaseUC: purchaseUC,
		InsightsUC: insightsUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
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
