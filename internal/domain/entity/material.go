package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material representa una materia prima del inventario.
// UnitCost y Stock son el snapshot del último movimiento del kardex; solo el motor de costeo los modifica.
type Material struct {
	ID            string
	Name          string
	Description   string
	UnitOfMeasure string
	UnitCost      decimal.Decimal // costo promedio ponderado vigente
	Stock         int64
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive indica si la materia prima está habilitada.
func (m *Material) IsActive() bool {
	return m.Status == StatusActive
}
