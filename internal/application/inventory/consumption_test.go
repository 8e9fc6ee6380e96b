package inventory_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
)

func TestConsume_AtomicoConFaltante(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "A")
	b := e.material(t, "B")
	e.receive(t, a.ID, 10, "1.00")
	e.receive(t, b.ID, 2, "1.00")

	_, err := e.planner.Consume(ctx, inventory.ConsumeInput{Items: []inventory.ConsumeItem{
		{MaterialID: a.ID, Quantity: 5},
		{MaterialID: b.ID, Quantity: 5},
	}})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Len(t, insufficient.Missing, 1)
	assert.Equal(t, b.ID, insufficient.Missing[0].MaterialID)
	assert.Equal(t, int64(5), insufficient.Missing[0].Requested)
	assert.Equal(t, int64(2), insufficient.Missing[0].Available)

	assert.Equal(t, int64(10), e.snapshot(t, a.ID).Stock)
	assert.Len(t, e.ledgerOf(t, a.ID), 1)
	assert.Len(t, e.ledgerOf(t, b.ID), 1)
}

func TestConsume_ReportaTodosLosFaltantes(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "A")
	b := e.material(t, "B")
	e.receive(t, a.ID, 1, "1.00")

	_, err := e.planner.Consume(ctx, inventory.ConsumeInput{Items: []inventory.ConsumeItem{
		{MaterialID: b.ID, Quantity: 3},
		{MaterialID: a.ID, Quantity: 2},
	}})
	missing := domain.Shortfalls(err)
	require.Len(t, missing, 2)
	ids := []string{missing[0].MaterialID, missing[1].MaterialID}
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)
}

func TestConsume_UneCantidadesDeLaMismaMateria(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "A")
	e.receive(t, a.ID, 20, "1.50")

	movs, err := e.planner.Consume(ctx, inventory.ConsumeInput{Items: []inventory.ConsumeItem{
		{MaterialID: a.ID, Quantity: 3},
		{MaterialID: a.ID, Quantity: 4},
	}})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, int64(7), movs[0].ExitQuantity)
	assert.Equal(t, int64(13), e.snapshot(t, a.ID).Stock)
}

func TestConsume_EntradasInvalidas(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "A")
	e.receive(t, a.ID, 5, "1.00")

	_, err := e.planner.Consume(ctx, inventory.ConsumeInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.planner.Consume(ctx, inventory.ConsumeInput{Items: []inventory.ConsumeItem{{MaterialID: a.ID, Quantity: 0}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = e.planner.Consume(ctx, inventory.ConsumeInput{Items: []inventory.ConsumeItem{{MaterialID: a.ID, Quantity: -2}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = e.planner.Consume(ctx, inventory.ConsumeInput{Items: []inventory.ConsumeItem{
		{MaterialID: a.ID, Quantity: 1},
		{MaterialID: "no-existe", Quantity: 1},
	}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, int64(5), e.snapshot(t, a.ID).Stock)
}

func TestConsume_AgotarExistenciaDejaPromedioEnCero(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "A")
	e.receive(t, a.ID, 3, "3.00")

	movs, err := e.planner.Consume(ctx, inventory.ConsumeInput{Items: []inventory.ConsumeItem{{MaterialID: a.ID, Quantity: 3}}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), movs[0].ResultingStock)
	assert.True(t, movs[0].WeightedAverage.IsZero())
	assert.True(t, e.snapshot(t, a.ID).UnitCost.IsZero())
}

func TestConsume_SumaQueDesbordaSeRechazaAntesDeValidarStock(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "Harina")
	e.receive(t, a.ID, 10, "2.00")

	_, err := e.planner.Consume(ctx, inventory.ConsumeInput{Items: []inventory.ConsumeItem{
		{MaterialID: a.ID, Quantity: math.MaxInt64},
		{MaterialID: a.ID, Quantity: 2},
	}})
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(10), e.snapshot(t, a.ID).Stock)
	assert.Len(t, e.ledgerOf(t, a.ID), 1)
}
