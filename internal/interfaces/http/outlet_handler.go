package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tilo-app/tilo-api/internal/application/dto"
	"github.com/tilo-app/tilo-api/internal/application/usecase"
)

// OutletHandler expone las sucursales por HTTP.
type OutletHandler struct {
	uc *usecase.OutletUseCase
}

// NewOutletHandler construye el handler de sucursales.
func NewOutletHandler(uc *usecase.OutletUseCase) *OutletHandler {
	return &OutletHandler{uc: uc}
}

// List godoc
// @Summary      Listar sucursales
// @Tags         outlets
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (por defecto 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.OutletResponse
// @Security     BearerAuth
// @Router       /api/outlets [get]
func (h *OutletHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	outlets, err := h.uc.List(page)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(outlets)
}

// Get godoc
// @Summary      Obtener una sucursal por ID
// @Tags         outlets
// @Produce      json
// @Param        id  path  string  true  "ID de la sucursal"
// @Success      200  {object}  dto.OutletResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/outlets/{id} [get]
func (h *OutletHandler) Get(c *fiber.Ctx) error {
	outlet, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(outlet)
}

// Create godoc
// @Summary      Crear una sucursal
// @Tags         outlets
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOutletRequest  true  "datos de la sucursal"
// @Success      201  {object}  dto.OutletResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/outlets [post]
func (h *OutletHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOutletRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	outlet, err := h.uc.Create(in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(outlet)
}
