package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/epi-control-api/internal/application/deliveries"
	"github.com/jhoicas/epi-control-api/internal/application/dto"
	"github.com/jhoicas/epi-control-api/internal/application/usecase"
)

// FichaHandler maneja las fichas de EPI de los colaboradores.
type FichaHandler struct {
	uc         *usecase.FichaUseCase
	deliveries *deliveries.Service
}

// NewFichaHandler construye el handler.
func NewFichaHandler(uc *usecase.FichaUseCase, deliveries *deliveries.Service) *FichaHandler {
	return &FichaHandler{uc: uc, deliveries: deliveries}
}

// List godoc
// @Summary      Listar fichas
// @Description  status filtra por el estado mostrado: ativo, vencido, suspenso o arquivado.
// @Tags         fichas
// @Produce      json
// @Param        colaboradorId  query  string  false  "Colaborador"
// @Param        empresaId      query  string  false  "Empresa"
// @Param        status         query  string  false  "Estado mostrado"
// @Success      200  {array}   dto.FichaResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/fichas [get]
func (h *FichaHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.Query("colaboradorId"), c.Query("empresaId"), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Create godoc
// @Summary      Crear ficha
// @Tags         fichas
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFichaRequest  true  "Colaborador y vencimiento"
// @Success      201   {object}  dto.FichaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/fichas [post]
func (h *FichaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFichaRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ficha
// @Tags         fichas
// @Produce      json
// @Param        id   path  string  true  "ID de la ficha"
// @Success      200  {object}  dto.FichaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/fichas/{id} [get]
func (h *FichaHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de la ficha
// @Tags         fichas
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la ficha"
// @Param        body  body  dto.UpdateFichaStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.FichaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/fichas/{id}/status [patch]
func (h *FichaHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateFichaStatusRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de la ficha
// @Tags         fichas
// @Produce      json
// @Param        id   path  string  true  "ID de la ficha"
// @Success      200  {array}  dto.HistoricoResponse
// @Router       /api/fichas/{id}/history [get]
func (h *FichaHandler) History(c *fiber.Ctx) error {
	list, err := h.uc.History(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Deliveries godoc
// @Summary      Entregas de la ficha
// @Tags         fichas
// @Produce      json
// @Param        id   path  string  true  "ID de la ficha"
// @Success      200  {array}   dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/fichas/{id}/deliveries [get]
func (h *FichaHandler) Deliveries(c *fiber.Ctx) error {
	list, err := h.deliveries.ListByFicha(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// DeactivateItem godoc
// @Summary      Dar de baja un ítem entregado
// @Tags         fichas
// @Accept       json
// @Produce      json
// @Param        id      path  string                     true  "ID de la ficha"
// @Param        itemId  path  string                     true  "ID del ítem"
// @Param        body    body  dto.DeactivateItemRequest  true  "danificado o perdido"
// @Success      200     {object}  dto.FichaResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/fichas/{id}/items/{itemId}/deactivate [post]
func (h *FichaHandler) DeactivateItem(c *fiber.Ctx) error {
	var in dto.DeactivateItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.DeactivateItem(c.Context(), c.Params("id"), c.Params("itemId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
