package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// PurchaseLineRepository define el puerto para los detalles de compra.
type PurchaseLineRepository interface {
	Create(ctx context.Context, line *entity.PurchaseLine) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseLine, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseLine, error)
	Update(ctx context.Context, line *entity.PurchaseLine) error
}
