package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MaterialRepository define el puerto de persistencia para materias primas.
// UnitCost y Stock solo se escriben mediante UpdateSnapshot desde el motor de kardex.
type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Material, error)
	UpdateSnapshot(ctx context.Context, id string, stock int64, unitCost decimal.Decimal) error
}
