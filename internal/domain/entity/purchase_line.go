package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLine es el detalle de una compra de materia prima; origina movimientos de entrada.
type PurchaseLine struct {
	ID         string
	PurchaseID string
	MaterialID string
	Quantity   int64
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
