package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// MaterialSnapshot existencia y costo promedio vigentes de una materia prima.
type MaterialSnapshot struct {
	MaterialID string
	Stock      int64
	UnitCost   decimal.Decimal
}

// MaterialStockStore mantiene el snapshot desnormalizado (stock, costo) de cada materia prima,
// siempre igual al último movimiento del kardex.
type MaterialStockStore struct {
	materials repository.MaterialRepository
}

// NewMaterialStockStore construye el store; materials se usa para lecturas confirmadas.
func NewMaterialStockStore(materials repository.MaterialRepository) *MaterialStockStore {
	return &MaterialStockStore{materials: materials}
}

// SyncFrom copia el resultado del movimiento al snapshot, usando el repositorio de la transacción en curso.
func (s *MaterialStockStore) SyncFrom(ctx context.Context, materials repository.MaterialRepository, mov *entity.MaterialMovement) error {
	if err := materials.UpdateSnapshot(ctx, mov.MaterialID, mov.ResultingStock, mov.WeightedAverage); err != nil {
		return fmt.Errorf("sincronizar snapshot %s: %w", mov.MaterialID, err)
	}
	return nil
}

// Snapshot devuelve el stock y costo confirmados de la materia prima.
func (s *MaterialStockStore) Snapshot(ctx context.Context, materialID string) (*MaterialSnapshot, error) {
	m, err := s.materials.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return &MaterialSnapshot{MaterialID: m.ID, Stock: m.Stock, UnitCost: m.UnitCost}, nil
}
