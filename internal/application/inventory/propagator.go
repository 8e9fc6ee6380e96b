package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/inventory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("kardex-api/inventory")

// PriceUpdate resultado del recálculo de un producto.
type PriceUpdate struct {
	ProductID string
	OldPrice  decimal.Decimal
	NewPrice  decimal.Decimal
}

// Changed indica si el precio de venta cambió.
func (u PriceUpdate) Changed() bool {
	return !u.OldPrice.Equal(u.NewPrice)
}

// BOMCostPropagator recalcula el precio de venta de los productos a partir del costo
// vigente (confirmado) de sus materias primas. Se invoca después del commit del movimiento.
type BOMCostPropagator struct {
	tx     TxRunner
	locker Locker
	markup decimal.Decimal
	log    zerolog.Logger
}

// NewBOMCostPropagator construye el propagador. markup en cero usa inventory.DefaultMarkup.
func NewBOMCostPropagator(tx TxRunner, locker Locker, markup decimal.Decimal, log zerolog.Logger) *BOMCostPropagator {
	if markup.IsZero() {
		markup = inventory.DefaultMarkup
	}
	return &BOMCostPropagator{tx: tx, locker: locker, markup: markup, log: log}
}

// PropagateFor recalcula todos los productos con una línea de receta activa sobre la materia prima.
// Un fallo en un producto se registra y no detiene a los demás.
func (p *BOMCostPropagator) PropagateFor(ctx context.Context, materialID string) ([]PriceUpdate, error) {
	ctx, span := tracer.Start(ctx, "BOMCostPropagator.PropagateFor")
	defer span.End()
	span.SetAttributes(attribute.String("material_id", materialID))

	var productIDs []string
	err := p.tx.Run(ctx, func(repos TxRepos) error {
		ids, err := repos.BOMLines.ListProductIDsByMaterial(ctx, materialID)
		productIDs = ids
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("productos de la materia prima %s: %w", materialID, err)
	}

	updates := make([]PriceUpdate, 0, len(productIDs))
	for _, productID := range sortedUnique(productIDs) {
		upd, err := p.PropagateProduct(ctx, productID)
		if err != nil {
			p.log.Warn().Err(err).
				Str("material_id", materialID).
				Str("product_id", productID).
				Msg("no se pudo recalcular el precio del producto")
			continue
		}
		updates = append(updates, *upd)
	}
	return updates, nil
}

// PropagateMany propaga para cada materia prima distinta; los errores solo se registran.
func (p *BOMCostPropagator) PropagateMany(ctx context.Context, materialIDs []string) {
	for _, id := range sortedUnique(materialIDs) {
		if _, err := p.PropagateFor(ctx, id); err != nil {
			p.log.Warn().Err(err).Str("material_id", id).Msg("propagación de costos fallida")
		}
	}
}

// PropagateProduct recalcula el precio de un producto: round(Σ requerida * costo * markup, 2).
// Una materia prima inexistente aporta costo 0. Serializa con otras actualizaciones del mismo producto.
func (p *BOMCostPropagator) PropagateProduct(ctx context.Context, productID string) (*PriceUpdate, error) {
	ctx, span := tracer.Start(ctx, "BOMCostPropagator.PropagateProduct")
	defer span.End()
	span.SetAttributes(attribute.String("product_id", productID))

	unlock, err := p.locker.Lock(ctx, productKey(productID))
	if err != nil {
		return nil, fmt.Errorf("bloquear producto: %w", err)
	}
	defer unlock()

	var upd PriceUpdate
	err = p.tx.Run(ctx, func(repos TxRepos) error {
		product, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
		}
		lines, err := repos.BOMLines.ListActiveByProduct(ctx, productID)
		if err != nil {
			return err
		}
		costed := make([]inventory.CostedLine, 0, len(lines))
		for _, l := range lines {
			m, err := repos.Materials.GetByID(ctx, l.MaterialID)
			if err != nil {
				return err
			}
			cost := decimal.Zero
			if m != nil {
				cost = m.UnitCost
			}
			costed = append(costed, inventory.CostedLine{RequiredQuantity: l.RequiredQuantity, UnitCost: cost})
		}
		upd = PriceUpdate{
			ProductID: productID,
			OldPrice:  product.SalePrice,
			NewPrice:  inventory.SalePrice(costed, p.markup),
		}
		if !upd.Changed() {
			return nil
		}
		return repos.Products.UpdateSalePrice(ctx, productID, upd.NewPrice)
	})
	if err != nil {
		return nil, err
	}
	if upd.Changed() {
		p.log.Info().
			Str("product_id", productID).
			Str("old_price", upd.OldPrice.StringFixed(2)).
			Str("new_price", upd.NewPrice.StringFixed(2)).
			Msg("precio de venta actualizado")
	}
	return &upd, nil
}
