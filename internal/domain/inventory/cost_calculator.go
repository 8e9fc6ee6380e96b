package inventory

import (
	"fmt"
	"math"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// costScale decimales con los que se expresa el promedio ponderado.
const costScale = 2

// LedgerState es el acumulado del kardex de una materia prima después de un movimiento.
type LedgerState struct {
	Stock   int64
	Balance decimal.Decimal
	Average decimal.Decimal
}

// StateOf devuelve el estado acumulado tras el movimiento dado (cero si no hay movimientos).
func StateOf(last *entity.MaterialMovement) LedgerState {
	if last == nil {
		return LedgerState{Balance: decimal.Zero, Average: decimal.Zero}
	}
	return LedgerState{
		Stock:   last.ResultingStock,
		Balance: last.Balance,
		Average: last.WeightedAverage,
	}
}

// Posting es el resultado de aplicar un movimiento sobre el estado anterior.
type Posting struct {
	State  LedgerState
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// WeightedAverage promedio = saldo / existencia redondeado a 2 decimales; 0 si no hay existencia.
func WeightedAverage(balance decimal.Decimal, stock int64) decimal.Decimal {
	if stock <= 0 {
		return decimal.Zero
	}
	return balance.Div(decimal.NewFromInt(stock)).Round(costScale)
}

// CostCalculator aplica una entrada o salida sobre el kardex (costo promedio ponderado).
//
//	Debe   = Entrada * CostoEntrada
//	Haber  = Salida * PromedioAnterior
//	Saldo  = SaldoAnterior + Debe - Haber
//
// Las entradas recalculan el promedio; las salidas lo conservan mientras quede existencia.
func CostCalculator(prev LedgerState, entryQty, exitQty int64, entryCost decimal.Decimal) (Posting, error) {
	if entryQty < 0 || exitQty < 0 {
		return Posting{}, domain.ErrInvalidQuantity
	}
	if entryQty > 0 && exitQty > 0 {
		return Posting{}, fmt.Errorf("%w: entrada y salida en el mismo movimiento", domain.ErrInvalidQuantity)
	}
	if entryCost.IsNegative() {
		return Posting{}, fmt.Errorf("%w: costo negativo", domain.ErrInvalidQuantity)
	}
	if exitQty > prev.Stock {
		return Posting{}, domain.ErrInsufficientStock
	}
	if entryQty > math.MaxInt64-prev.Stock {
		return Posting{}, fmt.Errorf("%w: la existencia resultante excede el máximo", domain.ErrInvalidQuantity)
	}

	debit := decimal.NewFromInt(entryQty).Mul(entryCost)
	credit := decimal.NewFromInt(exitQty).Mul(prev.Average)
	next := LedgerState{
		Stock:   prev.Stock + entryQty - exitQty,
		Balance: prev.Balance.Add(debit).Sub(credit),
	}
	switch {
	case next.Stock <= 0:
		next.Average = decimal.Zero
	case entryQty > 0:
		next.Average = WeightedAverage(next.Balance, next.Stock)
	default:
		next.Average = prev.Average
	}
	return Posting{State: next, Debit: debit, Credit: credit}, nil
}
