package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/epi-control-api/internal/application/dto"
	"github.com/jhoicas/epi-control-api/internal/application/inventory"
	"github.com/jhoicas/epi-control-api/internal/application/usecase"
)

// NotificationHandler lista y marca notificaciones; Check dispara el chequeo de alertas.
type NotificationHandler struct {
	uc     *usecase.NotificationUseCase
	alerts *inventory.AlertUseCase
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *usecase.NotificationUseCase, alerts *inventory.AlertUseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc, alerts: alerts}
}

// List godoc
// @Summary      Listar notificaciones
// @Tags         notifications
// @Produce      json
// @Param        unread  query  bool  false  "Solo no leídas"
// @Success      200  {array}  dto.NotificationResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.QueryBool("unread"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Mark godoc
// @Summary      Marcar notificación como leída o no leída
// @Tags         notifications
// @Accept       json
// @Param        id    path  string                       true  "ID de la notificación"
// @Param        body  body  dto.MarkNotificationRequest  true  "read"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id} [patch]
func (h *NotificationHandler) Mark(c *fiber.Ctx) error {
	var in dto.MarkNotificationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	if err := h.uc.MarkRead(c.Context(), c.Params("id"), *in.Read); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Check godoc
// @Summary      Generar notificaciones de stock
// @Description  Crea una notificación por alerta que todavía no tenga una sin leer.
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/notifications/check [post]
func (h *NotificationHandler) Check(c *fiber.Ctx) error {
	created, err := h.alerts.Notify(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.NotificationResponse, len(created))
	for i, n := range created {
		out[i] = usecase.ToNotificationResponse(n)
	}
	return c.JSON(fiber.Map{"created": len(out), "notifications": out})
}
