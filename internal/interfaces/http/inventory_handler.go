package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/epi-control-api/internal/application/dto"
	"github.com/jhoicas/epi-control-api/internal/application/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
)

// InventoryHandler maneja las peticiones HTTP de stock: consulta, movimientos,
// alertas, reposición e informe.
type InventoryHandler struct {
	query         *inventory.StockQueryUseCase
	movements     *inventory.MovementUseCase
	alerts        *inventory.AlertUseCase
	replenishment *inventory.ReplenishmentUseCase
	reports       inventory.StockReportGenerator
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	query *inventory.StockQueryUseCase,
	movements *inventory.MovementUseCase,
	alerts *inventory.AlertUseCase,
	replenishment *inventory.ReplenishmentUseCase,
	reports inventory.StockReportGenerator,
) *InventoryHandler {
	return &InventoryHandler{
		query:         query,
		movements:     movements,
		alerts:        alerts,
		replenishment: replenishment,
		reports:       reports,
	}
}

// List godoc
// @Summary      Listar ítems de stock
// @Description  El estado se deriva al momento de la lectura (disponivel, baixo_estoque, vencido, esgotado).
// @Tags         stock
// @Produce      json
// @Param        status     query  string  false  "Estado derivado"
// @Param        tipoEPIId  query  string  false  "Tipo de EPI"
// @Param        empresaId  query  string  false  "Dueño del ítem (almacen_central o ID de empresa)"
// @Success      200  {array}  dto.StockItemDTO
// @Router       /api/stock [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	list, err := h.query.List(c.Context(), c.Query("tipoEPIId"), c.Query("empresaId"), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener ítem de stock
// @Tags         stock
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.StockItemDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Totales del inventario
// @Tags         stock
// @Produce      json
// @Success      200  {object}  dto.StockSummaryDTO
// @Router       /api/stock/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	out, err := h.query.Summary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Alerts godoc
// @Summary      Ítems con stock bajo, vencidos o próximos a vencer
// @Tags         stock
// @Produce      json
// @Success      200  {object}  dto.StockAlertsDTO
// @Router       /api/stock/alerts [get]
func (h *InventoryHandler) Alerts(c *fiber.Ctx) error {
	out, err := h.alerts.Check(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Sugerencias de reposición
// @Description  Ítems en o bajo su mínimo con la cantidad sugerida hasta el stock ideal (mínimo × 1,5).
// @Tags         stock
// @Produce      json
// @Param        empresaId  query  string  false  "Dueño del ítem"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/stock/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	list, err := h.replenishment.Suggestions(c.Context(), c.Query("empresaId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}

// Report godoc
// @Summary      Informe de stock en PDF
// @Tags         stock
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/stock/report [get]
func (h *InventoryHandler) Report(c *fiber.Ctx) error {
	pdf, filename, err := h.query.Report(c.Context(), h.reports)
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, pdf, filename)
}

// Movements godoc
// @Summary      Movimientos de un ítem
// @Tags         stock
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {array}  entity.StockMovement
// @Router       /api/stock/{id}/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	list, err := h.query.Movements(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// History godoc
// @Summary      Historial de un ítem
// @Tags         stock
// @Produce      json
// @Param        id     path   string  true   "ID del ítem"
// @Param        tipo   query  string  false  "Tipo de evento"
// @Param        responsavel  query  string  false  "Responsable"
// @Param        desde  query  string  false  "YYYY-MM-DD"
// @Param        ate    query  string  false  "YYYY-MM-DD"
// @Success      200  {array}  entity.StockEvent
// @Router       /api/stock/{id}/history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	f := repository.StockEventFilter{
		Kind:  c.Query("tipo"),
		Actor: c.Query("responsavel"),
		From:  queryDate(c, "desde"),
		To:    queryDate(c, "ate"),
	}
	list, err := h.query.History(c.Context(), c.Params("id"), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Inbound godoc
// @Summary      Entrada de unidades
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del ítem"
// @Param        body  body  dto.InboundRequest  true  "quantity, actor, reason"
// @Success      200   {object}  inventory.MovementResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/inbound [post]
func (h *InventoryHandler) Inbound(c *fiber.Ctx) error {
	var in dto.InboundRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.movements.Inbound(c.Context(), inventory.InboundInput{
		StockItemID: c.Params("id"),
		Quantity:    in.Quantity,
		Actor:       in.Actor,
		Reason:      in.Reason,
		Kind:        in.Kind,
		Invoice:     in.Invoice,
		UnitCost:    in.UnitCost,
		Supplier:    in.Supplier,
		Lot:         in.Lot,
		Notes:       in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Outbound godoc
// @Summary      Salida de unidades
// @Description  La cantidad puede quedar negativa.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del ítem"
// @Param        body  body  dto.OutboundRequest  true  "quantity, actor, reason"
// @Success      200   {object}  inventory.MovementResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/outbound [post]
func (h *InventoryHandler) Outbound(c *fiber.Ctx) error {
	var in dto.OutboundRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.movements.Outbound(c.Context(), inventory.OutboundInput{
		StockItemID: c.Params("id"),
		Quantity:    in.Quantity,
		Actor:       in.Actor,
		Reason:      in.Reason,
		Kind:        in.Kind,
		DeliveryID:  in.DeliveryID,
		Notes:       in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajuste de cantidad
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del ítem"
// @Param        body  body  dto.AdjustRequest  true  "new_quantity, actor, reason"
// @Success      200   {object}  inventory.MovementResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.movements.Adjust(c.Context(), inventory.AdjustInput{
		StockItemID: c.Params("id"),
		NewQuantity: *in.NewQuantity,
		Actor:       in.Actor,
		Reason:      in.Reason,
		Notes:       in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// queryDate lee un parámetro de fecha; vacío o inválido es nil.
func queryDate(c *fiber.Ctx, key string) *time.Time {
	t, ok := entity.ParseDate(c.Query(key))
	if !ok {
		return nil
	}
	return &t
}

func sendPDF(c *fiber.Ctx, pdf []byte, filename string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
