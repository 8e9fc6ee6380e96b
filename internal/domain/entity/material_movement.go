package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Origen del movimiento de kardex.
const (
	MovementSourceReceipt     = "RECEIPT"     // entrada por compra o recepción
	MovementSourceConsumption = "CONSUMPTION" // salida por consumo o venta
	MovementSourceProduction  = "PRODUCTION"  // salida por orden de producción
	MovementSourceCorrection  = "CORRECTION"  // movimiento compensatorio
)

// MaterialMovement es una fila inmutable del kardex de una materia prima.
// El orden (Date, Sequence) define el movimiento anterior; nunca se actualiza ni se borra.
type MaterialMovement struct {
	ID              string
	Sequence        int64
	MaterialID      string
	Date            time.Time
	EntryQuantity   int64
	ExitQuantity    int64
	ResultingStock  int64
	UnitCost        decimal.Decimal // costo aplicado a la entrada
	WeightedAverage decimal.Decimal // promedio ponderado después del movimiento
	Debit           decimal.Decimal // EntryQuantity * UnitCost
	Credit          decimal.Decimal // ExitQuantity * promedio anterior
	Balance         decimal.Decimal // saldo monetario acumulado
	Source          string
	Reference       string
	Status          string
	CreatedAt       time.Time
	CreatedBy       string
}

// IsEntry indica si el movimiento suma unidades.
func (m *MaterialMovement) IsEntry() bool {
	return m.EntryQuantity > 0
}
