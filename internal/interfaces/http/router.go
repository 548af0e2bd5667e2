package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/epi-control-api/internal/application/deliveries"
	"github.com/jhoicas/epi-control-api/internal/application/inventory"
	"github.com/jhoicas/epi-control-api/internal/application/usecase"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/docstore"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Catalog       *usecase.CatalogUseCase
	Fichas        *usecase.FichaUseCase
	Notifications *usecase.NotificationUseCase
	Directory     *usecase.DirectoryUseCase
	Deliveries    *deliveries.Service
	StockQuery    *inventory.StockQueryUseCase
	Movements     *inventory.MovementUseCase
	Notas         *inventory.NotaUseCase
	Alerts        *inventory.AlertUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Reports       inventory.StockReportGenerator
	Health        *docstore.HealthMonitor
	Backend       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		st := deps.Health.Status()
		status := "ok"
		if !st.LastCheck.IsZero() && !st.Online {
			status = "degraded"
		}
		return c.JSON(fiber.Map{"status": status, "backend": deps.Backend, "store": st})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api", RequireStore(deps.Health))

	// Catálogo de tipos de EPI
	catalog := api.Group("/catalog")
	catalogHandler := NewCatalogHandler(deps.Catalog)
	catalog.Get("/", catalogHandler.List)
	catalog.Get("/categories", catalogHandler.Categories)
	catalog.Post("/", catalogHandler.Create)
	catalog.Post("/sync", catalogHandler.Sync)
	catalog.Get("/:id", catalogHandler.GetByID)
	catalog.Put("/:id", catalogHandler.Update)
	catalog.Delete("/:id", catalogHandler.Delete)

	// Stock
	stock := api.Group("/stock")
	inventoryHandler := NewInventoryHandler(deps.StockQuery, deps.Movements, deps.Alerts, deps.Replenishment, deps.Reports)
	stock.Get("/", inventoryHandler.List)
	stock.Get("/summary", inventoryHandler.Summary)
	stock.Get("/alerts", inventoryHandler.Alerts)
	stock.Get("/replenishment", inventoryHandler.Replenishment)
	stock.Get("/report", inventoryHandler.Report)
	stock.Get("/:id", inventoryHandler.GetByID)
	stock.Get("/:id/movements", inventoryHandler.Movements)
	stock.Get("/:id/history", inventoryHandler.History)
	stock.Post("/:id/inbound", inventoryHandler.Inbound)
	stock.Post("/:id/outbound", inventoryHandler.Outbound)
	stock.Post("/:id/adjust", inventoryHandler.Adjust)

	// Notas de entrada y salida
	notas := api.Group("/notas/:kind")
	notaHandler := NewNotaHandler(deps.Notas)
	notas.Get("/", notaHandler.List)
	notas.Post("/", notaHandler.Create)
	notas.Get("/:id", notaHandler.GetByID)
	notas.Put("/:id", notaHandler.Update)
	notas.Post("/:id/process", notaHandler.Process)
	notas.Post("/:id/cancel", notaHandler.Cancel)

	// Fichas
	fichas := api.Group("/fichas")
	fichaHandler := NewFichaHandler(deps.Fichas, deps.Deliveries)
	fichas.Get("/", fichaHandler.List)
	fichas.Post("/", fichaHandler.Create)
	fichas.Get("/:id", fichaHandler.GetByID)
	fichas.Patch("/:id/status", fichaHandler.UpdateStatus)
	fichas.Get("/:id/history", fichaHandler.History)
	fichas.Get("/:id/deliveries", fichaHandler.Deliveries)
	fichas.Post("/:id/items/:itemId/deactivate", fichaHandler.DeactivateItem)

	// Entregas
	delivs := api.Group("/deliveries")
	deliveryHandler := NewDeliveryHandler(deps.Deliveries)
	delivs.Post("/", deliveryHandler.Create)
	delivs.Get("/:id", deliveryHandler.GetByID)
	delivs.Put("/:id", deliveryHandler.Update)
	delivs.Delete("/:id", deliveryHandler.Delete)
	delivs.Post("/:id/sign", deliveryHandler.Sign)
	delivs.Post("/:id/unsign", deliveryHandler.Unsign)
	delivs.Post("/:id/returns", deliveryHandler.Return)
	delivs.Get("/:id/receipt", deliveryHandler.Receipt)

	// Notificaciones
	notifications := api.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.Notifications, deps.Alerts)
	notifications.Get("/", notificationHandler.List)
	notifications.Post("/check", notificationHandler.Check)
	notifications.Patch("/:id", notificationHandler.Mark)

	// Directorio (solo lectura)
	directoryHandler := NewDirectoryHandler(deps.Directory)
	api.Get("/employees", directoryHandler.Employees)
	api.Get("/employees/:id", directoryHandler.Employee)
	api.Get("/companies", directoryHandler.Companies)
	api.Get("/companies/:id", directoryHandler.Company)
}
