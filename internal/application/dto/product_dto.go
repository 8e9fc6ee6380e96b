package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto terminado.
type CreateProductRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// ProductResponse salida de un producto. SalePrice lo calcula el propagador de costos.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	Stock       int64           `json:"stock"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PriceUpdateResponse resultado del recálculo de un producto.
type PriceUpdateResponse struct {
	ProductID string          `json:"product_id"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	Changed   bool            `json:"changed"`
}

// ProduceRequest body para POST /api/production.
type ProduceRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// ProductionResponse movimientos de consumo de una orden de producción.
type ProductionResponse struct {
	ProductID string             `json:"product_id"`
	Quantity  int64              `json:"quantity"`
	Movements []MovementResponse `json:"movements"`
}

// BOMLineRequest body para crear o modificar una línea de receta.
type BOMLineRequest struct {
	ProductID        string          `json:"product_id" validate:"required"`
	MaterialID       string          `json:"material_id" validate:"required"`
	RequiredQuantity decimal.Decimal `json:"required_quantity" validate:"gt=0"`
}

// BOMLineResponse línea de receta y precios recalculados.
type BOMLineResponse struct {
	ID               string                `json:"id"`
	ProductID        string                `json:"product_id"`
	MaterialID       string                `json:"material_id"`
	RequiredQuantity decimal.Decimal       `json:"required_quantity"`
	Status           string                `json:"status"`
	PriceUpdates     []PriceUpdateResponse `json:"price_updates"`
}
