package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/epi-control-api/internal/application/deliveries"
	"github.com/jhoicas/epi-control-api/internal/application/dto"
)

// DeliveryHandler maneja las entregas de EPI. Cada respuesta de escritura incluye
// el resultado del stock, que puede fallar sin deshacer la entrega.
type DeliveryHandler struct {
	svc *deliveries.Service
}

// NewDeliveryHandler construye el handler.
func NewDeliveryHandler(svc *deliveries.Service) *DeliveryHandler {
	return &DeliveryHandler{svc: svc}
}

// Create godoc
// @Summary      Registrar entrega
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeliveryRequest  true  "Ficha, responsable y líneas"
// @Success      201   {object}  deliveries.Result
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deliveries [post]
func (h *DeliveryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDeliveryRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.svc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener entrega
// @Tags         deliveries
// @Produce      json
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [get]
func (h *DeliveryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar entrega
// @Description  Solo entregas sin firmar. El stock se mueve por la diferencia entre las líneas anteriores y las nuevas.
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la entrega"
// @Param        body  body  dto.UpdateDeliveryRequest  true  "Líneas nuevas"
// @Success      200   {object}  deliveries.Result
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [put]
func (h *DeliveryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDeliveryRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.svc.Edit(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar entrega
// @Description  Devuelve al stock las unidades que el colaborador todavía tiene.
// @Tags         deliveries
// @Produce      json
// @Param        id     path   string  true   "ID de la entrega"
// @Param        actor  query  string  false  "Responsable"
// @Success      200    {object}  deliveries.Result
// @Failure      409    {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [delete]
func (h *DeliveryHandler) Delete(c *fiber.Ctx) error {
	out, err := h.svc.Delete(c.Context(), c.Params("id"), c.Query("actor"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Sign godoc
// @Summary      Firmar entrega
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        id    path  string           true   "ID de la entrega"
// @Param        body  body  dto.SignRequest  false  "IP y dispositivo"
// @Success      200   {object}  dto.DeliveryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/sign [post]
func (h *DeliveryHandler) Sign(c *fiber.Ctx) error {
	var in dto.SignRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	if in.IP == "" {
		in.IP = c.IP()
	}
	if in.Device == "" {
		in.Device = c.Get(fiber.HeaderUserAgent)
	}
	out, err := h.svc.Sign(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Unsign godoc
// @Summary      Cancelar firma
// @Tags         deliveries
// @Produce      json
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/unsign [post]
func (h *DeliveryHandler) Unsign(c *fiber.Ctx) error {
	out, err := h.svc.CancelSignature(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Return godoc
// @Summary      Procesar devolución
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la entrega"
// @Param        body  body  dto.ReturnRequest  true  "Unidades devueltas por tipo"
// @Success      200   {object}  deliveries.Result
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/returns [post]
func (h *DeliveryHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.svc.ProcessReturn(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante de entrega en PDF
// @Tags         deliveries
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/receipt [get]
func (h *DeliveryHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.svc.Receipt(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, pdf, filename)
}
