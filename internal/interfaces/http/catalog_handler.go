package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/epi-control-api/internal/application/dto"
	"github.com/jhoicas/epi-control-api/internal/application/usecase"
)

// CatalogHandler maneja las peticiones HTTP del catálogo de tipos de EPI.
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler construye el handler inyectando el caso de uso.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Create godoc
// @Summary      Crear tipo de EPI
// @Description  Registra el tipo y crea su ítem de stock. Si el stock falla el tipo queda creado y el error se informa en "stock".
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEquipmentTypeRequest  true  "Datos del tipo de EPI"
// @Success      201   {object}  usecase.CatalogResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/catalog [post]
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEquipmentTypeRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar tipos de EPI
// @Tags         catalog
// @Produce      json
// @Param        categoria  query  string  false  "Categoría exacta"
// @Param        q          query  string  false  "Busca en nombre, CA y fabricante"
// @Success      200  {array}   dto.EquipmentTypeResponse
// @Router       /api/catalog [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.Query("categoria"), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Categories godoc
// @Summary      Categorías de EPI conocidas
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/catalog/categories [get]
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(h.uc.Categories())
}

// GetByID godoc
// @Summary      Obtener tipo de EPI
// @Tags         catalog
// @Produce      json
// @Param        id   path  string  true  "ID del tipo"
// @Success      200  {object}  dto.EquipmentTypeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalog/{id} [get]
func (h *CatalogHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar tipo de EPI
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del tipo"
// @Param        body  body  dto.UpdateEquipmentTypeRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.EquipmentTypeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/catalog/{id} [put]
func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateEquipmentTypeRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar tipo de EPI
// @Description  Elimina el tipo y sus ítems de stock vacíos. Los ítems con cantidad se conservan y se informan en "stock".
// @Tags         catalog
// @Produce      json
// @Param        id   path  string  true  "ID del tipo"
// @Success      200  {object}  usecase.CatalogResult
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalog/{id} [delete]
func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Sync godoc
// @Summary      Sincronizar catálogo con el stock
// @Description  Crea el ítem de stock de cada tipo que todavía no tiene uno.
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  inventory.StockOutcome
// @Router       /api/catalog/sync [post]
func (h *CatalogHandler) Sync(c *fiber.Ctx) error {
	out, err := h.uc.Sync(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
