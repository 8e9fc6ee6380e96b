package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// KardexQuery lecturas del kardex sobre datos confirmados.
type KardexQuery struct {
	materials repository.MaterialRepository
	movements repository.MaterialMovementRepository
	stock     *MaterialStockStore
}

// NewKardexQuery construye el servicio de consulta.
func NewKardexQuery(materials repository.MaterialRepository, movements repository.MaterialMovementRepository, stock *MaterialStockStore) *KardexQuery {
	return &KardexQuery{materials: materials, movements: movements, stock: stock}
}

// GetLedger devuelve los movimientos de la materia prima en orden (fecha, secuencia), opcionalmente acotados.
func (q *KardexQuery) GetLedger(ctx context.Context, materialID string, from, to *time.Time) ([]*entity.MaterialMovement, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: rango de fechas inválido", domain.ErrInvalidInput)
	}
	m, err := q.materials.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("materia prima %s: %w", materialID, domain.ErrNotFound)
	}
	list, err := q.movements.ListByMaterial(ctx, materialID, from, to)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.MaterialMovement{}
	}
	return list, nil
}

// GetMaterialSnapshot existencia y costo promedio vigentes.
func (q *KardexQuery) GetMaterialSnapshot(ctx context.Context, materialID string) (*MaterialSnapshot, error) {
	return q.stock.Snapshot(ctx, materialID)
}
