package inventory_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

func TestReceiveAndConsume_EscenarioBasico(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "Harina")

	mov := e.receive(t, a.ID, 100, "2.00")
	assert.Equal(t, int64(100), mov.ResultingStock)
	assert.Equal(t, "2.00", mov.WeightedAverage.StringFixed(2))
	assert.Equal(t, "200.00", mov.Balance.StringFixed(2))
	assert.Equal(t, entity.MovementSourceReceipt, mov.Source)

	movs, err := e.planner.Consume(ctx, inventory.ConsumeInput{Items: []inventory.ConsumeItem{{MaterialID: a.ID, Quantity: 40}}})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	out := movs[0]
	assert.Equal(t, int64(60), out.ResultingStock)
	assert.Equal(t, "2.00", out.WeightedAverage.StringFixed(2))
	assert.Equal(t, "120.00", out.Balance.StringFixed(2))
	assert.Equal(t, "80.00", out.Credit.StringFixed(2))

	snap := e.snapshot(t, a.ID)
	assert.Equal(t, int64(60), snap.Stock)
	assert.Equal(t, "2.00", snap.UnitCost.StringFixed(2))
}

func TestReceiveEntry_PromedioPonderado(t *testing.T) {
	e := newEngine(t)
	a := e.material(t, "Azúcar")
	e.receive(t, a.ID, 100, "2.00")
	mov := e.receive(t, a.ID, 50, "3.20")

	// (200 + 160) / 150 = 2.40
	assert.Equal(t, int64(150), mov.ResultingStock)
	assert.Equal(t, "2.40", mov.WeightedAverage.StringFixed(2))
	assert.Equal(t, "360.00", mov.Balance.StringFixed(2))
	assert.Equal(t, "2.40", e.snapshot(t, a.ID).UnitCost.StringFixed(2))
}

func TestReceiveEntry_EntradasInvalidas(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "Sal")

	_, err := e.receipts.ReceiveEntry(ctx, inventory.ReceiveEntryInput{MaterialID: a.ID, Quantity: 0, UnitCost: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = e.receipts.ReceiveEntry(ctx, inventory.ReceiveEntryInput{MaterialID: a.ID, Quantity: 5, UnitCost: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = e.receipts.ReceiveEntry(ctx, inventory.ReceiveEntryInput{MaterialID: "no-existe", Quantity: 5, UnitCost: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, e.ledgerOf(t, a.ID))
}

func TestCostLedger_RechazaFechaAnterior(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "Levadura")
	e.receive(t, a.ID, 10, "1.00")

	err := e.store.Run(ctx, func(repos inventory.TxRepos) error {
		_, err := e.ledger.Append(ctx, repos, inventory.AppendInput{
			MaterialID:    a.ID,
			EntryQuantity: 5,
			UnitCost:      dec("1.00"),
			Date:          time.Now().Add(-24 * time.Hour),
		})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, e.ledgerOf(t, a.ID), 1)
}

func TestCostLedger_SalidaSinExistenciaDevuelveFaltante(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "Cacao")
	e.receive(t, a.ID, 3, "4.00")

	err := e.store.Run(ctx, func(repos inventory.TxRepos) error {
		_, err := e.ledger.Append(ctx, repos, inventory.AppendInput{MaterialID: a.ID, ExitQuantity: 4})
		return err
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	missing := domain.Shortfalls(err)
	require.Len(t, missing, 1)
	assert.Equal(t, a.ID, missing[0].MaterialID)
	assert.Equal(t, int64(1), missing[0].Missing())
}

func TestCostLedger_RollbackNoDejaRastro(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "Mantequilla")
	e.receive(t, a.ID, 10, "5.00")

	boom := errors.New("boom")
	err := e.store.Run(ctx, func(repos inventory.TxRepos) error {
		if _, err := e.ledger.Append(ctx, repos, inventory.AppendInput{MaterialID: a.ID, ExitQuantity: 4}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Len(t, e.ledgerOf(t, a.ID), 1)
	assert.Equal(t, int64(10), e.snapshot(t, a.ID).Stock)
}

func TestCostLedger_IdentidadDeSaldo(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "Leche")
	rnd := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		snap := e.snapshot(t, a.ID)
		if snap.Stock > 0 && rnd.Intn(2) == 0 {
			qty := rnd.Int63n(snap.Stock) + 1
			_, err := e.planner.Consume(ctx, inventory.ConsumeInput{Items: []inventory.ConsumeItem{{MaterialID: a.ID, Quantity: qty}}})
			require.NoError(t, err)
			continue
		}
		cost := decimal.New(rnd.Int63n(1000)+1, -2)
		_, err := e.receipts.ReceiveEntry(ctx, inventory.ReceiveEntryInput{MaterialID: a.ID, Quantity: rnd.Int63n(50) + 1, UnitCost: cost})
		require.NoError(t, err)
	}

	debits, credits := decimal.Zero, decimal.Zero
	var stock int64
	for i, mov := range e.ledgerOf(t, a.ID) {
		debits = debits.Add(mov.Debit)
		credits = credits.Add(mov.Credit)
		stock += mov.EntryQuantity - mov.ExitQuantity
		require.True(t, mov.Balance.Equal(debits.Sub(credits)), "saldo del movimiento %d", i)
		require.Equal(t, stock, mov.ResultingStock)
		require.GreaterOrEqual(t, mov.ResultingStock, int64(0))
	}
	snap := e.snapshot(t, a.ID)
	assert.Equal(t, stock, snap.Stock)
}

func TestConsume_ConcurrenteNuncaDejaExistenciaNegativa(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "Huevos")
	b := e.material(t, "Aceite")
	e.receive(t, a.ID, 100, "1.00")
	e.receive(t, b.ID, 60, "2.00")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		consumed = map[string]int64{}
		received = map[string]int64{}
	)
	for g := 0; g < 60; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))

			// un tercio de las goroutines recibe mercancía entre los consumos
			if rnd.Intn(3) == 0 {
				id := a.ID
				if rnd.Intn(2) == 0 {
					id = b.ID
				}
				qty := rnd.Int63n(10) + 1
				cost := decimal.New(rnd.Int63n(500)+1, -2)
				_, err := e.receipts.ReceiveEntry(ctx, inventory.ReceiveEntryInput{MaterialID: id, Quantity: qty, UnitCost: cost})
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				received[id] += qty
				mu.Unlock()
				return
			}

			items := []inventory.ConsumeItem{{MaterialID: a.ID, Quantity: rnd.Int63n(6) + 1}}
			if rnd.Intn(2) == 0 {
				items = append(items, inventory.ConsumeItem{MaterialID: b.ID, Quantity: rnd.Int63n(6) + 1})
			}
			_, err := e.planner.Consume(ctx, inventory.ConsumeInput{Items: items})
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
				return
			}
			mu.Lock()
			for _, it := range items {
				consumed[it.MaterialID] += it.Quantity
			}
			mu.Unlock()
		}(int64(g))
	}
	wg.Wait()

	assert.Equal(t, 100+received[a.ID]-consumed[a.ID], e.snapshot(t, a.ID).Stock)
	assert.Equal(t, 60+received[b.ID]-consumed[b.ID], e.snapshot(t, b.ID).Stock)
	for _, id := range []string{a.ID, b.ID} {
		var prev int64
		debits, credits := decimal.Zero, decimal.Zero
		for i, mov := range e.ledgerOf(t, id) {
			assert.Equal(t, prev+mov.EntryQuantity-mov.ExitQuantity, mov.ResultingStock)
			assert.GreaterOrEqual(t, mov.ResultingStock, int64(0))
			prev = mov.ResultingStock

			debits = debits.Add(mov.Debit)
			credits = credits.Add(mov.Credit)
			assert.True(t, mov.Balance.Equal(debits.Sub(credits)), "saldo del movimiento %d de %s", i, id)
		}
	}
}

func TestReceiveEntry_ExistenciaQueDesbordaSeRechaza(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "Harina")
	e.receive(t, a.ID, math.MaxInt64, "0")

	_, err := e.receipts.ReceiveEntry(ctx, inventory.ReceiveEntryInput{MaterialID: a.ID, Quantity: 1, UnitCost: decimal.Zero})
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	snap := e.snapshot(t, a.ID)
	assert.Equal(t, int64(math.MaxInt64), snap.Stock)
	assert.Len(t, e.ledgerOf(t, a.ID), 1)
}

func TestGetLedger_FiltroPorFechas(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	a := e.material(t, "Vainilla")
	first := e.receive(t, a.ID, 10, "1.00")
	time.Sleep(2 * time.Millisecond)
	second := e.receive(t, a.ID, 10, "1.00")

	from := second.Date
	list, err := e.kardex.GetLedger(ctx, a.ID, &from, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	to := first.Date
	list, err = e.kardex.GetLedger(ctx, a.ID, nil, &to)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	_, err = e.kardex.GetLedger(ctx, a.ID, &from, &to)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.kardex.GetLedger(ctx, "no-existe", nil, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
