package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
)

// PurchaseHandler maneja detalles de compra y sus correcciones.
type PurchaseHandler struct {
	receipts *inventory.ReceiptProcessor
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(receipts *inventory.ReceiptProcessor) *PurchaseHandler {
	return &PurchaseHandler{receipts: receipts}
}

func (h *PurchaseHandler) input(c *fiber.Ctx, in dto.PurchaseLineRequest) inventory.PurchaseLineInput {
	return inventory.PurchaseLineInput{
		PurchaseID: in.PurchaseID,
		MaterialID: in.MaterialID,
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		UserID:     GetUserID(c),
	}
}

// Create godoc
// @Summary      Registrar detalle de compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseLineRequest  true  "Detalle de compra"
// @Success      201   {object}  dto.PurchaseLineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchase-lines [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.PurchaseLineRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	res, err := h.receipts.RegisterPurchaseLine(c.UserContext(), h.input(c, in))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PurchaseLineFrom(res))
}

// Correct godoc
// @Summary      Corregir detalle de compra
// @Description  Genera los movimientos compensatorios necesarios; nunca edita filas existentes del kardex.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del detalle"
// @Param        body  body  dto.PurchaseLineRequest  true  "Nuevos valores"
// @Success      200   {object}  dto.PurchaseLineResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-lines/{id} [put]
func (h *PurchaseHandler) Correct(c *fiber.Ctx) error {
	var in dto.PurchaseLineRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	res, err := h.receipts.CorrectPurchaseLine(c.UserContext(), c.Params("id"), h.input(c, in))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PurchaseLineFrom(res))
}

// Remove godoc
// @Summary      Anular detalle de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del detalle"
// @Success      200  {object}  dto.PurchaseLineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-lines/{id} [delete]
func (h *PurchaseHandler) Remove(c *fiber.Ctx) error {
	res, err := h.receipts.RemovePurchaseLine(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PurchaseLineFrom(res))
}
