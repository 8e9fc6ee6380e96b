package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// MaterialMovementRepository define el puerto del kardex (append-only).
type MaterialMovementRepository interface {
	// Create inserta el movimiento y le asigna ID y Sequence.
	Create(ctx context.Context, movement *entity.MaterialMovement) error
	// Latest devuelve el último movimiento por (date, sequence) o (nil, nil) si no hay.
	Latest(ctx context.Context, materialID string) (*entity.MaterialMovement, error)
	// ListByMaterial lista en orden ascendente (date, sequence), opcionalmente acotado por fechas.
	ListByMaterial(ctx context.Context, materialID string, from, to *time.Time) ([]*entity.MaterialMovement, error)
}
