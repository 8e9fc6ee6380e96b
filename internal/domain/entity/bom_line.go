package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BOMLine es una línea de la receta: cuánta materia prima requiere una unidad de producto.
type BOMLine struct {
	ID               string
	ProductID        string
	MaterialID       string
	RequiredQuantity decimal.Decimal
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsActive indica si la línea participa en costeo y producción.
func (l *BOMLine) IsActive() bool {
	return l.Status == StatusActive
}
