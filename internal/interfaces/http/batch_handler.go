package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tilo-app/tilo-api/internal/application/dto"
	"github.com/tilo-app/tilo-api/internal/application/inventory"
)

// BatchHandler expone los lotes por HTTP: CRUD, deducción FEFO,
// vencimientos y resumen.
type BatchHandler struct {
	uc *inventory.BatchTrackingUseCase
}

// NewBatchHandler construye el handler de lotes.
func NewBatchHandler(uc *inventory.BatchTrackingUseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// ListByProduct godoc
// @Summary      Lotes de un producto en una sucursal (orden FEFO)
// @Tags         batches
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        outlet_id  query  string  true   "ID de la sucursal"
// @Param        active     query  bool    false  "solo lotes consumibles"
// @Success      200  {array}   dto.BatchLotResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/products/{productId}/batches [get]
func (h *BatchHandler) ListByProduct(c *fiber.Ctx) error {
	productID := c.Params("productId")
	outletID := c.Query("outlet_id")
	if outletID == "" {
		outletID = GetOutletID(c)
	}
	if outletID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "outlet_id requerido"})
	}
	var (
		batches []dto.BatchLotResponse
		err     error
	)
	if c.QueryBool("active") {
		batches, err = h.uc.ListActive(productID, outletID)
	} else {
		batches, err = h.uc.ListByProduct(productID, outletID)
	}
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(batches)
}

// Create godoc
// @Summary      Registrar recepción de stock como lote nuevo
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "datos del lote"
// @Success      201   {object}  dto.BatchLotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/batches [post]
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.OutletID == "" {
		in.OutletID = GetOutletID(c)
	}
	batch, err := h.uc.Create(in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(batch)
}

// Update godoc
// @Summary      Actualización parcial de un lote
// @Description  Solo los campos presentes cambian. expires_at admite "" para limpiar el vencimiento.
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del lote"
// @Param        body  body  dto.UpdateBatchRequest  true  "campos a modificar"
// @Success      200   {object}  dto.BatchLotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/batches/{id} [put]
func (h *BatchHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	batch, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(batch)
}

// Delete godoc
// @Summary      Eliminar un lote
// @Tags         batches
// @Param        id  path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/batches/{id} [delete]
func (h *BatchHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Deduct godoc
// @Summary      Deducir stock según la política FEFO
// @Description  Consume primero los lotes con vencimiento más próximo. Si el stock activo no alcanza, responde 200 con deducted < requested (faltante, no error).
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeductRequest  true  "producto, sucursal y cantidad"
// @Success      200   {object}  dto.DeductionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/batches/deduct [post]
func (h *BatchHandler) Deduct(c *fiber.Ctx) error {
	var in dto.DeductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.OutletID == "" {
		in.OutletID = GetOutletID(c)
	}
	result, err := h.uc.DeductFIFO(c.UserContext(), in.ProductID, in.OutletID, in.Quantity)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(result)
}

// Expiring godoc
// @Summary      Lotes por vencer dentro de N días
// @Tags         batches
// @Produce      json
// @Param        outlet_id  query  string  true   "ID de la sucursal"
// @Param        days       query  int     false  "ventana en días (por defecto la configurada)"
// @Success      200  {array}   dto.ExpiringBatchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/batches/expiring [get]
func (h *BatchHandler) Expiring(c *fiber.Ctx) error {
	outletID := c.Query("outlet_id")
	if outletID == "" {
		outletID = GetOutletID(c)
	}
	if outletID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "outlet_id requerido"})
	}
	batches, err := h.uc.GetExpiringBatches(outletID, c.QueryInt("days"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(batches)
}

// Expired godoc
// @Summary      Lotes vencidos que siguen en estado active
// @Description  La brecha entre el vencimiento real y el barrido nocturno que los marca.
// @Tags         batches
// @Produce      json
// @Param        outlet_id  query  string  true  "ID de la sucursal"
// @Success      200  {array}   dto.BatchLotResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/batches/expired [get]
func (h *BatchHandler) Expired(c *fiber.Ctx) error {
	outletID := c.Query("outlet_id")
	if outletID == "" {
		outletID = GetOutletID(c)
	}
	if outletID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "outlet_id requerido"})
	}
	batches, err := h.uc.GetExpiredBatches(outletID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(batches)
}

// Summary godoc
// @Summary      Resumen de lotes de un producto en una sucursal
// @Tags         batches
// @Produce      json
// @Param        productId  path   string  true  "ID del producto"
// @Param        outlet_id  query  string  true  "ID de la sucursal"
// @Success      200  {object}  dto.BatchSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/products/{productId}/batches/summary [get]
func (h *BatchHandler) Summary(c *fiber.Ctx) error {
	productID := c.Params("productId")
	outletID := c.Query("outlet_id")
	if outletID == "" {
		outletID = GetOutletID(c)
	}
	if outletID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "outlet_id requerido"})
	}
	summary, err := h.uc.GetBatchSummary(productID, outletID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(summary)
}
