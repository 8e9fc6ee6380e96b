package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
)

// BOMHandler maneja las líneas de receta.
type BOMHandler struct {
	uc *inventory.BOMUseCase
}

// NewBOMHandler construye el handler.
func NewBOMHandler(uc *inventory.BOMUseCase) *BOMHandler {
	return &BOMHandler{uc: uc}
}

func bomInput(in dto.BOMLineRequest) inventory.BOMLineInput {
	return inventory.BOMLineInput{ProductID: in.ProductID, MaterialID: in.MaterialID, RequiredQuantity: in.RequiredQuantity}
}

// Create godoc
// @Summary      Agregar línea de receta
// @Tags         bom
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BOMLineRequest  true  "Línea de receta"
// @Success      201   {object}  dto.BOMLineResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/bom-lines [post]
func (h *BOMHandler) Create(c *fiber.Ctx) error {
	var in dto.BOMLineRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	res, err := h.uc.Create(c.UserContext(), bomInput(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.BOMLineFrom(res))
}

// Update godoc
// @Summary      Modificar línea de receta
// @Tags         bom
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la línea"
// @Param        body  body  dto.BOMLineRequest  true  "Línea de receta"
// @Success      200   {object}  dto.BOMLineResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/bom-lines/{id} [put]
func (h *BOMHandler) Update(c *fiber.Ctx) error {
	var in dto.BOMLineRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	res, err := h.uc.Update(c.UserContext(), c.Params("id"), bomInput(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BOMLineFrom(res))
}

// Retire godoc
// @Summary      Retirar línea de receta
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la línea"
// @Success      200  {object}  dto.BOMLineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/bom-lines/{id} [delete]
func (h *BOMHandler) Retire(c *fiber.Ctx) error {
	res, err := h.uc.Retire(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BOMLineFrom(res))
}
