package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto terminado fabricado a partir de una receta (BOM).
// SalePrice lo escribe únicamente el propagador de costos; Stock lo mueve la producción.
type Product struct {
	ID          string
	Name        string
	Description string
	SalePrice   decimal.Decimal
	Stock       int64
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
