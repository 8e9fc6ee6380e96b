package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Catalog    *inventory.CatalogUseCase
	Receipts   *inventory.ReceiptProcessor
	Planner    *inventory.ConsumptionPlanner
	Production *inventory.ProductionUseCase
	BOM        *inventory.BOMUseCase
	Kardex     *inventory.KardexQuery
	JWTSecret  string
	Log        zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequestLogger(deps.Log))

	// Todas las rutas requieren Bearer Token
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	readers := RequireRole(jwt.RoleAdmin, jwt.RoleWarehouse, jwt.RoleViewer)
	operators := RequireRole(jwt.RoleAdmin, jwt.RoleWarehouse)
	admins := RequireRole(jwt.RoleAdmin)

	// Materias primas y kardex
	inventoryHandler := NewInventoryHandler(deps.Catalog, deps.Receipts, deps.Planner, deps.Production, deps.Kardex)
	materials := protected.Group("/materials")
	materials.Post("/", admins, inventoryHandler.CreateMaterial)
	materials.Get("/:id", readers, inventoryHandler.GetMaterial)
	materials.Post("/:id/entries", operators, inventoryHandler.ReceiveEntry)
	materials.Get("/:id/kardex", readers, inventoryHandler.GetKardex)
	materials.Get("/:id/snapshot", readers, inventoryHandler.GetSnapshot)

	protected.Post("/consumptions", operators, inventoryHandler.Consume)
	protected.Post("/production", operators, inventoryHandler.Produce)

	// Productos terminados
	productHandler := NewProductHandler(deps.Catalog, deps.BOM)
	products := protected.Group("/products")
	products.Post("/", admins, productHandler.Create)
	products.Get("/:id", readers, productHandler.GetByID)
	products.Post("/:id/reprice", admins, productHandler.Reprice)

	// Compras: registrar es operativo, corregir o anular solo admin
	purchaseHandler := NewPurchaseHandler(deps.Receipts)
	purchases := protected.Group("/purchase-lines")
	purchases.Post("/", operators, purchaseHandler.Create)
	purchases.Put("/:id", admins, purchaseHandler.Correct)
	purchases.Delete("/:id", admins, purchaseHandler.Remove)

	// Recetas
	bomHandler := NewBOMHandler(deps.BOM)
	bom := protected.Group("/bom-lines", admins)
	bom.Post("/", bomHandler.Create)
	bom.Put("/:id", bomHandler.Update)
	bom.Delete("/:id", bomHandler.Retire)
}
