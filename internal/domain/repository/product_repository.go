package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// UpdateSalePrice lo usa solo el propagador de costos.
	UpdateSalePrice(ctx context.Context, id string, price decimal.Decimal) error
	// AddStock suma (o resta) unidades de producto terminado de forma atómica.
	AddStock(ctx context.Context, id string, delta int64) error
}
