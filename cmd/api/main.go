// @title        Kardex API
// @version      1.0
// @description  Kardex de materias primas con costo promedio ponderado, consumo atómico y precios de venta derivados de recetas.
// @BasePath     /
// @securityDefinitions.apikey Bearer
// @in           header
// @name         Authorization
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
	"github.com/redis/go-redis/v9"

	_ "github.com/jhoicas/Kardex-api/docs"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/lock"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Kardex-api/internal/interfaces/http"
	"github.com/jhoicas/Kardex-api/pkg/config"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia: postgres en producción, memoria para desarrollo y demos.
	var (
		tx    inventory.TxRunner
		repos inventory.TxRepos
	)
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		tx, repos = store, store.Repos()
	default:
		if cfg.DB.AutoMigrate {
			if err := postgres.RunMigrations(cfg.DB); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		tx, repos = postgres.NewTxRunner(pool), postgres.Repos(pool)
	}

	// Lock por materia prima: Redis si hay varias instancias, en proceso si no.
	var locker inventory.Locker = lock.NewLocalLocker()
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("REDIS_URL inválida")
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, time.Duration(cfg.Redis.LockTTLSec)*time.Second, log.Component("lock"))
	}

	stock := inventory.NewMaterialStockStore(repos.Materials)
	ledger := inventory.NewCostLedger(stock, nil)
	propagator := inventory.NewBOMCostPropagator(tx, locker, cfg.Pricing.Markup, log.Component("propagator"))
	planner := inventory.NewConsumptionPlanner(tx, locker, ledger, propagator, log.Component("consumption"))

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
		Title:    "Kardex API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Catalog:    inventory.NewCatalogUseCase(repos.Materials, repos.Products),
		Receipts:   inventory.NewReceiptProcessor(tx, locker, ledger, propagator, log.Component("receipts")),
		Planner:    planner,
		Production: inventory.NewProductionUseCase(tx, locker, planner, propagator, log.Component("production")),
		BOM:        inventory.NewBOMUseCase(tx, locker, propagator, log.Component("bom")),
		Kardex:     inventory.NewKardexQuery(repos.Materials, repos.Movements, stock),
		JWTSecret:  cfg.JWT.Secret,
		Log:        log.Component("http"),
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
