//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/lock"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Kardex-api/pkg/config"
)

type pgEnv struct {
	catalog  *inventory.CatalogUseCase
	receipts *inventory.ReceiptProcessor
	planner  *inventory.ConsumptionPlanner
	bom      *inventory.BOMUseCase
	kardex   *inventory.KardexQuery
}

func setupPostgres(t *testing.T) *pgEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("kardex_test"),
		tcPostgres.WithUsername("kardex"),
		tcPostgres.WithPassword("kardex"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	url, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	dbCfg := config.DBConfig{DatabaseURL: url}

	require.NoError(t, postgres.RunMigrations(dbCfg))
	pool, err := postgres.NewPool(ctx, dbCfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	tx := postgres.NewTxRunner(pool)
	repos := postgres.Repos(pool)
	locker := lock.NewLocalLocker()
	log := zerolog.Nop()

	stock := inventory.NewMaterialStockStore(repos.Materials)
	ledger := inventory.NewCostLedger(stock, nil)
	propagator := inventory.NewBOMCostPropagator(tx, locker, decimal.Zero, log)
	return &pgEnv{
		catalog:  inventory.NewCatalogUseCase(repos.Materials, repos.Products),
		receipts: inventory.NewReceiptProcessor(tx, locker, ledger, propagator, log),
		planner:  inventory.NewConsumptionPlanner(tx, locker, ledger, propagator, log),
		bom:      inventory.NewBOMUseCase(tx, locker, propagator, log),
		kardex:   inventory.NewKardexQuery(repos.Materials, repos.Movements, stock),
	}
}

func TestPostgres_KardexCompleto(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()

	a, err := env.catalog.CreateMaterial(ctx, inventory.CreateMaterialInput{Name: "Harina"})
	require.NoError(t, err)
	b, err := env.catalog.CreateMaterial(ctx, inventory.CreateMaterialInput{Name: "Azúcar"})
	require.NoError(t, err)
	p, err := env.catalog.CreateProduct(ctx, inventory.CreateProductInput{Name: "Pan"})
	require.NoError(t, err)

	_, err = env.receipts.ReceiveEntry(ctx, inventory.ReceiveEntryInput{MaterialID: a.ID, Quantity: 100, UnitCost: decimal.RequireFromString("2.00")})
	require.NoError(t, err)
	_, err = env.receipts.ReceiveEntry(ctx, inventory.ReceiveEntryInput{MaterialID: b.ID, Quantity: 2, UnitCost: decimal.RequireFromString("1.00")})
	require.NoError(t, err)

	_, err = env.bom.Create(ctx, inventory.BOMLineInput{ProductID: p.ID, MaterialID: a.ID, RequiredQuantity: decimal.NewFromInt(3)})
	require.NoError(t, err)
	prod, err := env.catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "7.50", prod.SalePrice.StringFixed(2))

	movs, err := env.planner.Consume(ctx, inventory.ConsumeInput{Items: []inventory.ConsumeItem{{MaterialID: a.ID, Quantity: 40}}})
	require.NoError(t, err)
	assert.Equal(t, int64(60), movs[0].ResultingStock)
	assert.Equal(t, "120.00", movs[0].Balance.StringFixed(2))

	_, err = env.planner.Consume(ctx, inventory.ConsumeInput{Items: []inventory.ConsumeItem{
		{MaterialID: a.ID, Quantity: 5},
		{MaterialID: b.ID, Quantity: 5},
	}})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	snap, err := env.kardex.GetMaterialSnapshot(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), snap.Stock)
	assert.Equal(t, "2.00", snap.UnitCost.StringFixed(2))

	list, err := env.kardex.GetLedger(ctx, a.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Less(t, list[0].Sequence, list[1].Sequence)

	_, err = env.kardex.GetMaterialSnapshot(ctx, "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_ConsumoConcurrente(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	a, err := env.catalog.CreateMaterial(ctx, inventory.CreateMaterialInput{Name: "Harina"})
	require.NoError(t, err)
	_, err = env.receipts.ReceiveEntry(ctx, inventory.ReceiveEntryInput{MaterialID: a.ID, Quantity: 50, UnitCost: decimal.RequireFromString("1.00")})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var consumed int64
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			_, err := env.planner.Consume(cctx, inventory.ConsumeInput{Items: []inventory.ConsumeItem{{MaterialID: a.ID, Quantity: 4}}})
			if err == nil {
				mu.Lock()
				consumed += 4
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	snap, err := env.kardex.GetMaterialSnapshot(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 50-consumed, snap.Stock)
	assert.GreaterOrEqual(t, snap.Stock, int64(0))
}
