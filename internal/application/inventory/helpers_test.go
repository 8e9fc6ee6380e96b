package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/lock"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
)

// engine casos de uso cableados sobre el store en memoria y el locker local.
type engine struct {
	store      *memory.Store
	ledger     *inventory.CostLedger
	catalog    *inventory.CatalogUseCase
	receipts   *inventory.ReceiptProcessor
	planner    *inventory.ConsumptionPlanner
	production *inventory.ProductionUseCase
	bom        *inventory.BOMUseCase
	propagator *inventory.BOMCostPropagator
	kardex     *inventory.KardexQuery
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	store := memory.NewStore()
	locker := lock.NewLocalLocker()
	log := zerolog.Nop()

	stock := inventory.NewMaterialStockStore(store.Materials())
	ledger := inventory.NewCostLedger(stock, nil)
	propagator := inventory.NewBOMCostPropagator(store, locker, decimal.Zero, log)
	planner := inventory.NewConsumptionPlanner(store, locker, ledger, propagator, log)
	return &engine{
		store:      store,
		ledger:     ledger,
		catalog:    inventory.NewCatalogUseCase(store.Materials(), store.Products()),
		receipts:   inventory.NewReceiptProcessor(store, locker, ledger, propagator, log),
		planner:    planner,
		production: inventory.NewProductionUseCase(store, locker, planner, propagator, log),
		bom:        inventory.NewBOMUseCase(store, locker, propagator, log),
		propagator: propagator,
		kardex:     inventory.NewKardexQuery(store.Materials(), store.Movements(), stock),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (e *engine) material(t *testing.T, name string) *entity.Material {
	t.Helper()
	m, err := e.catalog.CreateMaterial(context.Background(), inventory.CreateMaterialInput{Name: name, UnitOfMeasure: "und"})
	require.NoError(t, err)
	return m
}

func (e *engine) product(t *testing.T, name string) *entity.Product {
	t.Helper()
	p, err := e.catalog.CreateProduct(context.Background(), inventory.CreateProductInput{Name: name})
	require.NoError(t, err)
	return p
}

func (e *engine) receive(t *testing.T, materialID string, qty int64, cost string) *entity.MaterialMovement {
	t.Helper()
	mov, err := e.receipts.ReceiveEntry(context.Background(), inventory.ReceiveEntryInput{
		MaterialID: materialID,
		Quantity:   qty,
		UnitCost:   dec(cost),
	})
	require.NoError(t, err)
	return mov
}

func (e *engine) bomLine(t *testing.T, productID, materialID, required string) *entity.BOMLine {
	t.Helper()
	res, err := e.bom.Create(context.Background(), inventory.BOMLineInput{
		ProductID:        productID,
		MaterialID:       materialID,
		RequiredQuantity: dec(required),
	})
	require.NoError(t, err)
	return res.Line
}

func (e *engine) snapshot(t *testing.T, materialID string) *inventory.MaterialSnapshot {
	t.Helper()
	snap, err := e.kardex.GetMaterialSnapshot(context.Background(), materialID)
	require.NoError(t, err)
	return snap
}

func (e *engine) salePrice(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	p, err := e.catalog.GetProduct(context.Background(), productID)
	require.NoError(t, err)
	return p.SalePrice
}

func (e *engine) ledgerOf(t *testing.T, materialID string) []*entity.MaterialMovement {
	t.Helper()
	list, err := e.kardex.GetLedger(context.Background(), materialID, nil, nil)
	require.NoError(t, err)
	return list
}
