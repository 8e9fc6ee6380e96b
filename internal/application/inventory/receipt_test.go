package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

func registerLine(t *testing.T, e *engine, materialID string, qty int64, price string) *entity.PurchaseLine {
	t.Helper()
	res, err := e.receipts.RegisterPurchaseLine(context.Background(), inventory.PurchaseLineInput{
		PurchaseID: "compra-1",
		MaterialID: materialID,
		Quantity:   qty,
		UnitPrice:  dec(price),
	})
	require.NoError(t, err)
	require.Len(t, res.Movements, 1)
	return res.Line
}

func TestRegisterPurchaseLine_CreaEntrada(t *testing.T) {
	e := newEngine(t)
	a := e.material(t, "A")
	line := registerLine(t, e, a.ID, 10, "2.00")

	assert.Equal(t, "20.00", line.Subtotal.StringFixed(2))
	assert.Equal(t, entity.StatusActive, line.Status)
	list := e.ledgerOf(t, a.ID)
	require.Len(t, list, 1)
	assert.Equal(t, line.ID, list[0].Reference)
	assert.Equal(t, int64(10), e.snapshot(t, a.ID).Stock)
}

func TestCorrectPurchaseLine_SoloCantidadGeneraDiferencia(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "A")
	line := registerLine(t, e, a.ID, 10, "2.00")

	res, err := e.receipts.CorrectPurchaseLine(ctx, line.ID, inventory.PurchaseLineInput{MaterialID: a.ID, Quantity: 15, UnitPrice: dec("2.00")})
	require.NoError(t, err)
	require.Len(t, res.Movements, 1)
	assert.Equal(t, int64(5), res.Movements[0].EntryQuantity)
	assert.Equal(t, entity.MovementSourceCorrection, res.Movements[0].Source)
	assert.Equal(t, int64(15), e.snapshot(t, a.ID).Stock)

	res, err = e.receipts.CorrectPurchaseLine(ctx, line.ID, inventory.PurchaseLineInput{MaterialID: a.ID, Quantity: 12, UnitPrice: dec("2.00")})
	require.NoError(t, err)
	require.Len(t, res.Movements, 1)
	assert.Equal(t, int64(3), res.Movements[0].ExitQuantity)
	assert.Equal(t, int64(12), e.snapshot(t, a.ID).Stock)
	assert.Equal(t, int64(12), res.Line.Quantity)
}

func TestCorrectPurchaseLine_CambioDePrecioCompensa(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "A")
	line := registerLine(t, e, a.ID, 15, "2.00")

	res, err := e.receipts.CorrectPurchaseLine(ctx, line.ID, inventory.PurchaseLineInput{MaterialID: a.ID, Quantity: 15, UnitPrice: dec("3.00")})
	require.NoError(t, err)
	require.Len(t, res.Movements, 2)
	assert.Equal(t, int64(15), res.Movements[0].ExitQuantity)
	assert.Equal(t, int64(15), res.Movements[1].EntryQuantity)

	snap := e.snapshot(t, a.ID)
	assert.Equal(t, int64(15), snap.Stock)
	assert.Equal(t, "3.00", snap.UnitCost.StringFixed(2))
	assert.Len(t, e.ledgerOf(t, a.ID), 3)
}

func TestCorrectPurchaseLine_CambioDeMateriaPrima(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "A")
	b := e.material(t, "B")
	line := registerLine(t, e, a.ID, 8, "2.00")

	res, err := e.receipts.CorrectPurchaseLine(ctx, line.ID, inventory.PurchaseLineInput{MaterialID: b.ID, Quantity: 8, UnitPrice: dec("2.00")})
	require.NoError(t, err)
	require.Len(t, res.Movements, 2)
	assert.Equal(t, a.ID, res.Movements[0].MaterialID)
	assert.Equal(t, b.ID, res.Movements[1].MaterialID)
	assert.Equal(t, b.ID, res.Line.MaterialID)

	assert.Equal(t, int64(0), e.snapshot(t, a.ID).Stock)
	assert.Equal(t, int64(8), e.snapshot(t, b.ID).Stock)
}

func TestCorrectPurchaseLine_SinCambiosNoMueveKardex(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "A")
	line := registerLine(t, e, a.ID, 8, "2.00")

	res, err := e.receipts.CorrectPurchaseLine(ctx, line.ID, inventory.PurchaseLineInput{MaterialID: a.ID, Quantity: 8, UnitPrice: dec("2.00")})
	require.NoError(t, err)
	assert.Empty(t, res.Movements)
	assert.Len(t, e.ledgerOf(t, a.ID), 1)
}

func TestCorrectPurchaseLine_ExistenciaYaConsumida(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "A")
	line := registerLine(t, e, a.ID, 10, "2.00")
	_, err := e.planner.Consume(ctx, inventory.ConsumeInput{Items: []inventory.ConsumeItem{{MaterialID: a.ID, Quantity: 9}}})
	require.NoError(t, err)

	_, err = e.receipts.CorrectPurchaseLine(ctx, line.ID, inventory.PurchaseLineInput{MaterialID: a.ID, Quantity: 5, UnitPrice: dec("2.00")})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	stored, err := e.store.PurchaseLines().GetByID(ctx, line.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stored.Quantity)
	assert.Equal(t, int64(1), e.snapshot(t, a.ID).Stock)
}

func TestRemovePurchaseLine_SalidaCompensatoria(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "A")
	line := registerLine(t, e, a.ID, 6, "2.00")

	res, err := e.receipts.RemovePurchaseLine(ctx, line.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInactive, res.Line.Status)
	assert.Equal(t, int64(6), res.Movements[0].ExitQuantity)
	assert.Equal(t, int64(0), e.snapshot(t, a.ID).Stock)

	_, err = e.receipts.RemovePurchaseLine(ctx, line.ID, "user-1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = e.receipts.RemovePurchaseLine(ctx, "no-existe", "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
