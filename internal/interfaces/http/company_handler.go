package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/epi-control-api/internal/application/usecase"
)

// DirectoryHandler expone en modo lectura las empresas y los colaboradores.
type DirectoryHandler struct {
	uc *usecase.DirectoryUseCase
}

// NewDirectoryHandler construye el handler inyectando el caso de uso.
func NewDirectoryHandler(uc *usecase.DirectoryUseCase) *DirectoryHandler {
	return &DirectoryHandler{uc: uc}
}

// Employees godoc
// @Summary      Listar colaboradores
// @Tags         directory
// @Produce      json
// @Param        empresaId  query  string  false  "Empresa"
// @Success      200  {array}  dto.EmployeeResponse
// @Router       /api/employees [get]
func (h *DirectoryHandler) Employees(c *fiber.Ctx) error {
	list, err := h.uc.Employees(c.Context(), c.Query("empresaId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Employee godoc
// @Summary      Obtener colaborador por ID
// @Tags         directory
// @Produce      json
// @Param        id   path  string  true  "ID del colaborador"
// @Success      200  {object}  dto.EmployeeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/employees/{id} [get]
func (h *DirectoryHandler) Employee(c *fiber.Ctx) error {
	out, err := h.uc.Employee(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Companies godoc
// @Summary      Listar empresas
// @Tags         directory
// @Produce      json
// @Success      200  {array}  dto.CompanyResponse
// @Router       /api/companies [get]
func (h *DirectoryHandler) Companies(c *fiber.Ctx) error {
	list, err := h.uc.Companies(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Company godoc
// @Summary      Obtener empresa por ID
// @Tags         directory
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [get]
func (h *DirectoryHandler) Company(c *fiber.Ctx) error {
	out, err := h.uc.Company(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
