package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
)

func seedMaterial(t *testing.T, s *memory.Store) *entity.Material {
	t.Helper()
	m := &entity.Material{Name: "Harina", Status: entity.StatusActive, UnitCost: decimal.Zero}
	require.NoError(t, s.Materials().Create(context.Background(), m))
	require.NotEmpty(t, m.ID)
	return m
}

func TestStore_CommitAplicaCambios(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	m := seedMaterial(t, s)

	err := s.Run(ctx, func(repos inventory.TxRepos) error {
		require.NoError(t, repos.Materials.UpdateSnapshot(ctx, m.ID, 7, decimal.RequireFromString("1.50")))
		// dentro de la tx se ve lo escrito
		got, err := repos.Materials.GetForUpdate(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.Stock)
		// fuera de la tx todavía no
		outside, err := s.Materials().GetByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), outside.Stock)
		return nil
	})
	require.NoError(t, err)

	got, err := s.Materials().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Stock)
	assert.Equal(t, "1.50", got.UnitCost.StringFixed(2))
}

func TestStore_RollbackDescartaCambios(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	m := seedMaterial(t, s)
	boom := errors.New("boom")

	err := s.Run(ctx, func(repos inventory.TxRepos) error {
		require.NoError(t, repos.Movements.Create(ctx, &entity.MaterialMovement{MaterialID: m.ID, EntryQuantity: 1, Date: time.Now()}))
		require.NoError(t, repos.Materials.UpdateSnapshot(ctx, m.ID, 1, decimal.NewFromInt(1)))
		return boom
	})
	require.ErrorIs(t, err, boom)

	last, err := s.Movements().Latest(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, last)
	got, _ := s.Materials().GetByID(ctx, m.ID)
	assert.Equal(t, int64(0), got.Stock)
}

func TestStore_MovimientosOrdenadosPorFechaYSecuencia(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	m := seedMaterial(t, s)
	at := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	first := &entity.MaterialMovement{MaterialID: m.ID, EntryQuantity: 1, Date: at}
	second := &entity.MaterialMovement{MaterialID: m.ID, EntryQuantity: 2, Date: at}
	require.NoError(t, s.Movements().Create(ctx, first))
	require.NoError(t, s.Movements().Create(ctx, second))
	assert.Less(t, first.Sequence, second.Sequence)

	last, err := s.Movements().Latest(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, last.ID)

	list, err := s.Movements().ListByMaterial(ctx, m.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
}

func TestStore_ProductoStockYPrecio(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	p := &entity.Product{Name: "Pan", Status: entity.StatusActive}
	require.NoError(t, s.Products().Create(ctx, p))

	require.NoError(t, s.Run(ctx, func(repos inventory.TxRepos) error {
		if err := repos.Products.AddStock(ctx, p.ID, 3); err != nil {
			return err
		}
		if err := repos.Products.AddStock(ctx, p.ID, 2); err != nil {
			return err
		}
		return repos.Products.UpdateSalePrice(ctx, p.ID, decimal.RequireFromString("7.50"))
	}))

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Stock)
	assert.Equal(t, "7.50", got.SalePrice.StringFixed(2))

	assert.ErrorIs(t, s.Products().AddStock(ctx, "no-existe", 1), domain.ErrNotFound)
	assert.ErrorIs(t, s.Products().Create(ctx, &entity.Product{ID: p.ID}), domain.ErrDuplicate)
}

func TestStore_RecetasActivasPorMateriaPrima(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	now := time.Now()
	lines := []*entity.BOMLine{
		{ProductID: "p2", MaterialID: "m1", RequiredQuantity: decimal.NewFromInt(1), Status: entity.StatusActive, CreatedAt: now},
		{ProductID: "p1", MaterialID: "m1", RequiredQuantity: decimal.NewFromInt(1), Status: entity.StatusActive, CreatedAt: now},
		{ProductID: "p1", MaterialID: "m1", RequiredQuantity: decimal.NewFromInt(2), Status: entity.StatusActive, CreatedAt: now},
		{ProductID: "p3", MaterialID: "m1", RequiredQuantity: decimal.NewFromInt(1), Status: entity.StatusInactive, CreatedAt: now},
	}
	for _, l := range lines {
		require.NoError(t, s.BOMLines().Create(ctx, l))
	}

	ids, err := s.BOMLines().ListProductIDsByMaterial(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids)

	active, err := s.BOMLines().ListActiveByProduct(ctx, "p3")
	require.NoError(t, err)
	assert.Empty(t, active)
}
