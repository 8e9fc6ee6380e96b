package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
)

// ProductHandler maneja productos terminados y su precio de venta.
type ProductHandler struct {
	catalog *inventory.CatalogUseCase
	bom     *inventory.BOMUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(catalog *inventory.CatalogUseCase, bom *inventory.BOMUseCase) *ProductHandler {
	return &ProductHandler{catalog: catalog, bom: bom}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	p, err := h.catalog.CreateProduct(c.UserContext(), inventory.CreateProductInput{Name: in.Name, Description: in.Description})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ProductFrom(p))
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.catalog.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ProductFrom(p))
}

// Reprice godoc
// @Summary      Recalcular precio de venta
// @Description  Costo de receta (cantidad requerida x costo promedio de cada materia prima) por el markup configurado.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.PriceUpdateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/reprice [post]
func (h *ProductHandler) Reprice(c *fiber.Ctx) error {
	upd, err := h.bom.Reprice(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PriceUpdateFrom(*upd))
}
