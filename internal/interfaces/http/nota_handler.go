package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/epi-control-api/internal/application/dto"
	"github.com/jhoicas/epi-control-api/internal/application/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
)

// NotaHandler maneja las notas de entrada y salida. :kind es entrada o saida.
type NotaHandler struct {
	uc *inventory.NotaUseCase
}

// NewNotaHandler construye el handler.
func NewNotaHandler(uc *inventory.NotaUseCase) *NotaHandler {
	return &NotaHandler{uc: uc}
}

// List godoc
// @Summary      Listar notas
// @Tags         notas
// @Produce      json
// @Param        kind         path   string  true   "entrada o saida"
// @Param        status       query  string  false  "pendente, processada, cancelada"
// @Param        responsavel  query  string  false  "Responsable"
// @Param        desde        query  string  false  "YYYY-MM-DD"
// @Param        ate          query  string  false  "YYYY-MM-DD"
// @Success      200  {array}   entity.Nota
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/notas/{kind} [get]
func (h *NotaHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.Params("kind"), repository.NotaFilter{
		Status: c.Query("status"),
		Actor:  c.Query("responsavel"),
		From:   queryDate(c, "desde"),
		To:     queryDate(c, "ate"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Create godoc
// @Summary      Crear y procesar nota
// @Tags         notas
// @Accept       json
// @Produce      json
// @Param        kind  path  string           true  "entrada o saida"
// @Param        body  body  dto.NotaRequest  true  "Cabecera y líneas"
// @Success      201   {object}  inventory.NotaResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/notas/{kind} [post]
func (h *NotaHandler) Create(c *fiber.Ctx) error {
	var in dto.NotaRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), c.Params("kind"), inventory.NotaInput{
		Actor:     in.Actor,
		Reason:    in.Reason,
		Notes:     in.Notes,
		Supplier:  in.Supplier,
		Invoice:   in.Invoice,
		Recipient: in.Recipient,
		Requester: in.Requester,
		Items:     notaItems(in.Items),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener nota
// @Tags         notas
// @Produce      json
// @Param        kind  path  string  true  "entrada o saida"
// @Param        id    path  string  true  "ID de la nota"
// @Success      200   {object}  entity.Nota
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/notas/{kind}/{id} [get]
func (h *NotaHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("kind"), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar nota
// @Description  Una nota procesada se revierte y se vuelve a procesar con las líneas nuevas.
// @Tags         notas
// @Accept       json
// @Produce      json
// @Param        kind  path  string                 true  "entrada o saida"
// @Param        id    path  string                 true  "ID de la nota"
// @Param        body  body  dto.NotaUpdateRequest  true  "Campos a modificar y líneas"
// @Success      200   {object}  inventory.NotaResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/notas/{kind}/{id} [put]
func (h *NotaHandler) Update(c *fiber.Ctx) error {
	var in dto.NotaUpdateRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Edit(c.Context(), c.Params("kind"), c.Params("id"), inventory.NotaInput{
		Actor:     in.Actor,
		Reason:    in.Reason,
		Notes:     in.Notes,
		Supplier:  in.Supplier,
		Invoice:   in.Invoice,
		Recipient: in.Recipient,
		Requester: in.Requester,
		Items:     notaItems(in.Items),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Process godoc
// @Summary      Procesar nota pendiente
// @Tags         notas
// @Produce      json
// @Param        kind  path  string  true  "entrada o saida"
// @Param        id    path  string  true  "ID de la nota"
// @Success      200   {object}  inventory.NotaResult
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/notas/{kind}/{id}/process [post]
func (h *NotaHandler) Process(c *fiber.Ctx) error {
	out, err := h.uc.Process(c.Context(), c.Params("kind"), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar nota pendiente
// @Tags         notas
// @Produce      json
// @Param        kind  path  string  true  "entrada o saida"
// @Param        id    path  string  true  "ID de la nota"
// @Success      200   {object}  entity.Nota
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/notas/{kind}/{id}/cancel [post]
func (h *NotaHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.Context(), c.Params("kind"), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func notaItems(in []dto.NotaItemRequest) []inventory.NotaItemInput {
	out := make([]inventory.NotaItemInput, len(in))
	for i, it := range in {
		out[i] = inventory.NotaItemInput{
			EquipmentTypeID: it.EquipmentTypeID,
			Quantity:        it.Quantity,
			UnitCost:        it.UnitCost,
			Lot:             it.Lot,
			Notes:           it.Notes,
		}
	}
	return out
}
