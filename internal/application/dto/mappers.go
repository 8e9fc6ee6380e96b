package dto

import (
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

func MaterialFrom(m *entity.Material) MaterialResponse {
	return MaterialResponse{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		UnitOfMeasure: m.UnitOfMeasure,
		UnitCost:      m.UnitCost,
		Stock:         m.Stock,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ProductFrom(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		SalePrice:   p.SalePrice,
		Stock:       p.Stock,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func MovementFrom(m *entity.MaterialMovement) MovementResponse {
	return MovementResponse{
		ID:              m.ID,
		Sequence:        m.Sequence,
		MaterialID:      m.MaterialID,
		Date:            m.Date,
		EntryQuantity:   m.EntryQuantity,
		ExitQuantity:    m.ExitQuantity,
		ResultingStock:  m.ResultingStock,
		UnitCost:        m.UnitCost,
		WeightedAverage: m.WeightedAverage,
		Debit:           m.Debit,
		Credit:          m.Credit,
		Balance:         m.Balance,
		Source:          m.Source,
		Reference:       m.Reference,
		CreatedBy:       m.CreatedBy,
	}
}

// MovementsFrom nunca devuelve nil para que el JSON sea [] y no null.
func MovementsFrom(list []*entity.MaterialMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, MovementFrom(m))
	}
	return out
}

func SnapshotFrom(s *inventory.MaterialSnapshot) SnapshotResponse {
	return SnapshotResponse{MaterialID: s.MaterialID, Stock: s.Stock, UnitCost: s.UnitCost}
}

func PriceUpdateFrom(u inventory.PriceUpdate) PriceUpdateResponse {
	return PriceUpdateResponse{ProductID: u.ProductID, OldPrice: u.OldPrice, NewPrice: u.NewPrice, Changed: u.Changed()}
}

func BOMLineFrom(r *inventory.BOMLineResult) BOMLineResponse {
	updates := make([]PriceUpdateResponse, 0, len(r.Updates))
	for _, u := range r.Updates {
		updates = append(updates, PriceUpdateFrom(u))
	}
	return BOMLineResponse{
		ID:               r.Line.ID,
		ProductID:        r.Line.ProductID,
		MaterialID:       r.Line.MaterialID,
		RequiredQuantity: r.Line.RequiredQuantity,
		Status:           r.Line.Status,
		PriceUpdates:     updates,
	}
}

func PurchaseLineFrom(r *inventory.PurchaseLineResult) PurchaseLineResponse {
	return PurchaseLineResponse{
		ID:         r.Line.ID,
		PurchaseID: r.Line.PurchaseID,
		MaterialID: r.Line.MaterialID,
		Quantity:   r.Line.Quantity,
		UnitPrice:  r.Line.UnitPrice,
		Subtotal:   r.Line.Subtotal,
		Status:     r.Line.Status,
		Movements:  MovementsFrom(r.Movements),
	}
}

func ProductionFrom(r *inventory.ProductionResult) ProductionResponse {
	return ProductionResponse{ProductID: r.ProductID, Quantity: r.Quantity, Movements: MovementsFrom(r.Movements)}
}
