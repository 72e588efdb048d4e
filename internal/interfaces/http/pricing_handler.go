package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/tilo-app/tilo-api/internal/application/dto"
	"github.com/tilo-app/tilo-api/internal/application/pricing"
)

// PricingHandler expone los tiers de precio por volumen y la resolución de
// precio unitario para una cantidad.
type PricingHandler struct {
	uc *pricing.PriceTierUseCase
}

// NewPricingHandler construye el handler de pricing.
func NewPricingHandler(uc *pricing.PriceTierUseCase) *PricingHandler {
	return &PricingHandler{uc: uc}
}

// ListTiers godoc
// @Summary      Tiers activos de un producto (min_quantity ascendente)
// @Tags         pricing
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {array}  dto.TierResponse
// @Security     BearerAuth
// @Router       /api/products/{productId}/tiers [get]
func (h *PricingHandler) ListTiers(c *fiber.Ctx) error {
	tiers, err := h.uc.ListByProduct(c.Params("productId"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(tiers)
}

// CreateTier godoc
// @Summary      Crear un tier de precio para un producto
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        productId  path  string                 true  "ID del producto"
// @Param        body       body  dto.CreateTierRequest  true  "datos del tier"
// @Success      201  {object}  dto.TierResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/products/{productId}/tiers [post]
func (h *PricingHandler) CreateTier(c *fiber.Ctx) error {
	var in dto.CreateTierRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tier, err := h.uc.Create(c.Params("productId"), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tier)
}

// UpdateTier godoc
// @Summary      Actualización parcial de un tier
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del tier"
// @Param        body  body  dto.UpdateTierRequest  true  "campos a modificar"
// @Success      200  {object}  dto.TierResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/tiers/{id} [put]
func (h *PricingHandler) UpdateTier(c *fiber.Ctx) error {
	var in dto.UpdateTierRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tier, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(tier)
}

// DeleteTier godoc
// @Summary      Eliminar un tier
// @Tags         pricing
// @Param        id  path  string  true  "ID del tier"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/tiers/{id} [delete]
func (h *PricingHandler) DeleteTier(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ReplaceTiers godoc
// @Summary      Reemplazar el set completo de tiers de un producto
// @Description  Transaccional: valida todos los tiers antes de tocar la BD. Un array vacío deja al producto sin tiers.
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        productId  path  string                       true  "ID del producto"
// @Param        body       body  dto.BulkReplaceTiersRequest  true  "set completo de tiers"
// @Success      200  {array}   dto.TierResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/products/{productId}/tiers [put]
func (h *PricingHandler) ReplaceTiers(c *fiber.Ctx) error {
	var in dto.BulkReplaceTiersRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tiers, err := h.uc.BulkReplace(c.UserContext(), c.Params("productId"), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(tiers)
}

// ResolvePrice godoc
// @Summary      Resolver el precio unitario para una cantidad
// @Description  Aplica el tier de mayor min_quantity <= quantity; sin tier aplicable responde el precio base con ahorro cero.
// @Tags         pricing
// @Produce      json
// @Param        productId  path   string  true  "ID del producto"
// @Param        quantity   query  string  true  "cantidad (admite decimales)"
// @Success      200  {object}  dto.ResolvePriceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/products/{productId}/price [get]
func (h *PricingHandler) ResolvePrice(c *fiber.Ctx) error {
	qty, ok := parseQuantity(c.Query("quantity"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity requerido y numérico"})
	}
	resp, err := h.uc.ResolvePrice(c.Params("productId"), qty)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}

func parseQuantity(raw string) (decimal.Decimal, bool) {
	if raw == "" {
		return decimal.Zero, false
	}
	qty, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return qty, true
}
