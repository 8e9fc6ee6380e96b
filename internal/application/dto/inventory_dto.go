package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest entrada para crear una materia prima (sin existencia).
type CreateMaterialRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	Description   string `json:"description" validate:"max=2000"`
	UnitOfMeasure string `json:"unit_of_measure" validate:"max=20"`
}

// MaterialResponse salida de una materia prima con su snapshot.
type MaterialResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Stock         int64           `json:"stock"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ReceiveEntryRequest body para POST /api/materials/:id/entries.
type ReceiveEntryRequest struct {
	Quantity  int64           `json:"quantity" validate:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost" validate:"gte=0"`
	Reference string          `json:"reference" validate:"max=100"`
}

// ConsumeItemRequest ítem de consumo.
type ConsumeItemRequest struct {
	MaterialID string `json:"material_id" validate:"required"`
	Quantity   int64  `json:"quantity" validate:"required,gt=0"`
}

// ConsumeRequest body para POST /api/consumptions.
type ConsumeRequest struct {
	Items     []ConsumeItemRequest `json:"items" validate:"required,min=1,dive"`
	Reference string               `json:"reference" validate:"max=100"`
}

// MovementResponse fila del kardex.
type MovementResponse struct {
	ID              string          `json:"id"`
	Sequence        int64           `json:"sequence"`
	MaterialID      string          `json:"material_id"`
	Date            time.Time       `json:"date"`
	EntryQuantity   int64           `json:"entry_quantity"`
	ExitQuantity    int64           `json:"exit_quantity"`
	ResultingStock  int64           `json:"resulting_stock"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	WeightedAverage decimal.Decimal `json:"weighted_average"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	Balance         decimal.Decimal `json:"balance"`
	Source          string          `json:"source"`
	Reference       string          `json:"reference"`
	CreatedBy       string          `json:"created_by"`
}

// KardexResponse kardex de una materia prima.
type KardexResponse struct {
	MaterialID string             `json:"material_id"`
	Total      int                `json:"total"`
	Movements  []MovementResponse `json:"movements"`
}

// SnapshotResponse existencia y costo promedio vigentes.
type SnapshotResponse struct {
	MaterialID string          `json:"material_id"`
	Stock      int64           `json:"stock"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
}

// PurchaseLineRequest body para registrar o corregir un detalle de compra.
type PurchaseLineRequest struct {
	PurchaseID string          `json:"purchase_id" validate:"max=64"`
	MaterialID string          `json:"material_id" validate:"required"`
	Quantity   int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice  decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

// PurchaseLineResponse detalle de compra y movimientos generados.
type PurchaseLineResponse struct {
	ID         string             `json:"id"`
	PurchaseID string             `json:"purchase_id"`
	MaterialID string             `json:"material_id"`
	Quantity   int64              `json:"quantity"`
	UnitPrice  decimal.Decimal    `json:"unit_price"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	Status     string             `json:"status"`
	Movements  []MovementResponse `json:"movements"`
}
