package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/epi-control-api/docs"
	"github.com/jhoicas/epi-control-api/internal/application/deliveries"
	"github.com/jhoicas/epi-control-api/internal/application/inventory"
	"github.com/jhoicas/epi-control-api/internal/application/usecase"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	storebackend "github.com/jhoicas/epi-control-api/internal/infrastructure/backend"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/cache"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/docstore"
	infrapdf "github.com/jhoicas/epi-control-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/epi-control-api/internal/interfaces/http"
	"github.com/jhoicas/epi-control-api/pkg/config"
	"github.com/jhoicas/epi-control-api/pkg/logger"
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
		Str("backend", cfg.Store.Backend).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	backend, err := storebackend.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("abrir almacenamiento")
	}
	defer backend.Close()

	// Repositorios sobre el backend elegido
	stockRepo := docstore.NewStockRepository(backend)
	movementRepo := docstore.NewStockMovementRepository(backend)
	eventRepo := docstore.NewStockEventRepository(backend)
	fichaRepo := docstore.NewFichaRepository(backend)
	historicoRepo := docstore.NewHistoricoRepository(backend)
	deliveryRepo := docstore.NewDeliveryRepository(backend)
	notificationRepo := docstore.NewNotificationRepository(backend)
	directory := docstore.NewDirectoryRepository(backend)
	typeRepo := cache.NewCatalogCache(docstore.NewEquipmentTypeRepository(backend), cfg.Cache.Size, cfg.Cache.TTL)

	// Ledger de stock
	movementUC := inventory.NewMovementUseCase(stockRepo, movementRepo, eventRepo, typeRepo, log.Component("stock"))
	catalogSync := inventory.NewCatalogSync(stockRepo, eventRepo, typeRepo, log.Component("catalog-sync"))
	deliveryStock := inventory.NewDeliveryStock(movementUC, stockRepo, typeRepo, log.Component("delivery-stock"))
	notaUC := inventory.NewNotaUseCase(
		docstore.NewNotaRepository(backend, entity.NotaInbound),
		docstore.NewNotaRepository(backend, entity.NotaOutbound),
		movementUC, stockRepo, log.Component("notas"),
	)
	stockQueryUC := inventory.NewStockQueryUseCase(stockRepo, movementRepo, eventRepo, typeRepo, cfg.Stock.ExpiringDays)
	alertUC := inventory.NewAlertUseCase(stockRepo, typeRepo, notificationRepo, cfg.Stock.ExpiringDays, log.Component("alerts"))
	replenishmentUC := inventory.NewReplenishmentUseCase(stockRepo, typeRepo)

	// PDF: comprobantes de entrega e informe de stock
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	catalogUC := usecase.NewCatalogUseCase(typeRepo, catalogSync, log.Component("catalog"))
	fichaUC := usecase.NewFichaUseCase(fichaRepo, historicoRepo, directory.Employees(), typeRepo,
		cfg.Retry.Attempts, cfg.Retry.Interval, log.Component("fichas"))
	deliverySvc := deliveries.NewService(
		deliveryRepo, fichaRepo, historicoRepo, directory.Employees(), directory.Companies(), typeRepo,
		deliveryStock, pdfGenerator,
		entity.Company{Name: cfg.Company.Name, CNPJ: cfg.Company.CNPJ, Address: cfg.Company.Address},
		log.Component("deliveries"),
	)

	// Workers: salud del almacenamiento y alertas de stock
	monitor := docstore.NewHealthMonitor(backend, cfg.Store.HealthInterval, log.Component("health"))
	go monitor.Run(ctx)
	go alertUC.Run(ctx, cfg.Stock.AlertInterval)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.CORSOrigins}))
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "EPI Control API",
	}))
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		spec, err := docs.JSON()
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(spec)
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Catalog:       catalogUC,
		Fichas:        fichaUC,
		Notifications: usecase.NewNotificationUseCase(notificationRepo),
		Directory:     usecase.NewDirectoryUseCase(directory.Employees(), directory.Companies()),
		Deliveries:    deliverySvc,
		StockQuery:    stockQueryUC,
		Movements:     movementUC,
		Notas:         notaUC,
		Alerts:        alertUC,
		Replenishment: replenishmentUC,
		Reports:       pdfGenerator,
		Health:        monitor,
		Backend:       cfg.Store.Backend,
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
