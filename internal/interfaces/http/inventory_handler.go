package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
)

// InventoryHandler expone materias primas, kardex, consumos y producción.
type InventoryHandler struct {
	catalog    *inventory.CatalogUseCase
	receipts   *inventory.ReceiptProcessor
	planner    *inventory.ConsumptionPlanner
	production *inventory.ProductionUseCase
	kardex     *inventory.KardexQuery
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	catalog *inventory.CatalogUseCase,
	receipts *inventory.ReceiptProcessor,
	planner *inventory.ConsumptionPlanner,
	production *inventory.ProductionUseCase,
	kardex *inventory.KardexQuery,
) *InventoryHandler {
	return &InventoryHandler{catalog: catalog, receipts: receipts, planner: planner, production: production, kardex: kardex}
}

// CreateMaterial godoc
// @Summary      Crear materia prima
// @Tags         materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaterialRequest  true  "Datos de la materia prima"
// @Success      201   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/materials [post]
func (h *InventoryHandler) CreateMaterial(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	m, err := h.catalog.CreateMaterial(c.UserContext(), inventory.CreateMaterialInput{
		Name:          in.Name,
		Description:   in.Description,
		UnitOfMeasure: in.UnitOfMeasure,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MaterialFrom(m))
}

// GetMaterial godoc
// @Summary      Obtener materia prima por ID
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la materia prima"
// @Success      200  {object}  dto.MaterialResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id} [get]
func (h *InventoryHandler) GetMaterial(c *fiber.Ctx) error {
	m, err := h.catalog.GetMaterial(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MaterialFrom(m))
}

// ReceiveEntry godoc
// @Summary      Registrar entrada de materia prima
// @Description  Agrega una fila de entrada al kardex, recalcula el promedio ponderado y los precios de los productos que la usan.
// @Tags         materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la materia prima"
// @Param        body  body  dto.ReceiveEntryRequest  true  "Cantidad y costo unitario"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/entries [post]
func (h *InventoryHandler) ReceiveEntry(c *fiber.Ctx) error {
	var in dto.ReceiveEntryRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	mov, err := h.receipts.ReceiveEntry(c.UserContext(), inventory.ReceiveEntryInput{
		MaterialID: c.Params("id"),
		Quantity:   in.Quantity,
		UnitCost:   in.UnitCost,
		Reference:  in.Reference,
		UserID:     GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFrom(mov))
}

// GetKardex godoc
// @Summary      Kardex de una materia prima
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID de la materia prima"
// @Param        from  query  string  false  "Desde (RFC3339)"
// @Param        to    query  string  false  "Hasta (RFC3339)"
// @Success      200   {object}  dto.KardexResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/kardex [get]
func (h *InventoryHandler) GetKardex(c *fiber.Ctx) error {
	from, err := queryTime(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
	}
	id := c.Params("id")
	list, err := h.kardex.GetLedger(c.UserContext(), id, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.KardexResponse{MaterialID: id, Total: len(list), Movements: dto.MovementsFrom(list)})
}

// GetSnapshot godoc
// @Summary      Existencia y costo promedio vigentes
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la materia prima"
// @Success      200  {object}  dto.SnapshotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/snapshot [get]
func (h *InventoryHandler) GetSnapshot(c *fiber.Ctx) error {
	snap, err := h.kardex.GetMaterialSnapshot(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SnapshotFrom(snap))
}

// Consume godoc
// @Summary      Consumir materias primas
// @Description  Todo o nada: si falta stock en cualquier ítem responde 409 con la lista de faltantes y no escribe nada.
// @Tags         consumptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumeRequest  true  "Ítems a consumir"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/consumptions [post]
func (h *InventoryHandler) Consume(c *fiber.Ctx) error {
	var in dto.ConsumeRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	items := make([]inventory.ConsumeItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, inventory.ConsumeItem{MaterialID: it.MaterialID, Quantity: it.Quantity})
	}
	movs, err := h.planner.Consume(c.UserContext(), inventory.ConsumeInput{Items: items, Reference: in.Reference, UserID: GetUserID(c)})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementsFrom(movs))
}

// Produce godoc
// @Summary      Orden de producción
// @Description  Expande la receta activa del producto, consume las materias primas y aumenta el stock del producto.
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProduceRequest  true  "Producto y cantidad"
// @Success      201   {object}  dto.ProductionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production [post]
func (h *InventoryHandler) Produce(c *fiber.Ctx) error {
	var in dto.ProduceRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	res, err := h.production.Produce(c.UserContext(), inventory.ProduceInput{ProductID: in.ProductID, Quantity: in.Quantity, UserID: GetUserID(c)})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ProductionFrom(res))
}
