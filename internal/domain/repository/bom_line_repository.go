package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// BOMLineRepository define el puerto de persistencia para las recetas (producto ↔ materia prima).
type BOMLineRepository interface {
	Create(ctx context.Context, line *entity.BOMLine) error
	GetByID(ctx context.Context, id string) (*entity.BOMLine, error)
	Update(ctx context.Context, line *entity.BOMLine) error
	ListActiveByProduct(ctx context.Context, productID string) ([]*entity.BOMLine, error)
	// ListProductIDsByMaterial productos distintos con al menos una línea activa sobre la materia prima.
	ListProductIDsByMaterial(ctx context.Context, materialID string) ([]string, error)
}
