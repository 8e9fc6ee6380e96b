package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/inventory"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// ProduceInput orden de producción.
type ProduceInput struct {
	ProductID string
	Quantity  int64
	UserID    string
}

// ProductionResult movimientos de consumo y existencia resultante del producto.
type ProductionResult struct {
	ProductID string
	Quantity  int64
	Movements []*entity.MaterialMovement
}

// ProductionUseCase consume la receta del producto y suma la existencia producida en una sola transacción.
type ProductionUseCase struct {
	session    materialSession
	planner    *ConsumptionPlanner
	propagator *BOMCostPropagator
	log        zerolog.Logger
}

// NewProductionUseCase construye el caso de uso.
func NewProductionUseCase(tx TxRunner, locker Locker, planner *ConsumptionPlanner, propagator *BOMCostPropagator, log zerolog.Logger) *ProductionUseCase {
	return &ProductionUseCase{
		session:    materialSession{tx: tx, locker: locker},
		planner:    planner,
		propagator: propagator,
		log:        log,
	}
}

// Produce expande la receta activa (cantidad requerida * unidades, redondeado hacia arriba),
// consume las materias primas en dos fases y suma Quantity a la existencia del producto.
func (uc *ProductionUseCase) Produce(ctx context.Context, in ProduceInput) (*ProductionResult, error) {
	ctx, span := tracer.Start(ctx, "ProductionUseCase.Produce")
	defer span.End()
	span.SetAttributes(attribute.String("product_id", in.ProductID), attribute.Int64("quantity", in.Quantity))

	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	var plan []ConsumeItem
	err := uc.session.tx.Run(ctx, func(repos TxRepos) error {
		var err error
		plan, err = recipePlan(ctx, repos, in.ProductID, in.Quantity)
		return err
	})
	if err != nil {
		return nil, err
	}

	keys := append(materialKeys(planMaterialIDs(plan)), productKey(in.ProductID))
	res := &ProductionResult{ProductID: in.ProductID, Quantity: in.Quantity}
	err = uc.session.runKeys(ctx, keys, func(repos TxRepos) error {
		current, err := recipePlan(ctx, repos, in.ProductID, in.Quantity)
		if err != nil {
			return err
		}
		if !samePlan(plan, current) {
			return fmt.Errorf("%w: la receta del producto %s cambió", domain.ErrConflict, in.ProductID)
		}
		ref := fmt.Sprintf("production:%s", in.ProductID)
		movs, err := uc.planner.consumeInTx(ctx, repos, current, entity.MovementSourceProduction, ref, in.UserID)
		if err != nil {
			return err
		}
		res.Movements = movs
		return repos.Products.AddStock(ctx, in.ProductID, in.Quantity)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", in.ProductID).
		Int64("quantity", in.Quantity).
		Int("materials", len(plan)).
		Msg("producción registrada")
	uc.propagator.PropagateMany(ctx, planMaterialIDs(plan))
	return res, nil
}

// recipePlan unidades de cada materia prima que requiere producir qty unidades del producto.
func recipePlan(ctx context.Context, repos TxRepos, productID string, qty int64) ([]ConsumeItem, error) {
	product, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	lines, err := repos.BOMLines.ListActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	items := make([]ConsumeItem, 0, len(lines))
	for _, l := range lines {
		units, err := inventory.RequiredUnits(l.RequiredQuantity, qty)
		if err != nil {
			return nil, fmt.Errorf("línea de receta %s: %w", l.ID, err)
		}
		items = append(items, ConsumeItem{MaterialID: l.MaterialID, Quantity: units})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: el producto %s no tiene receta activa", domain.ErrInvalidInput, productID)
	}
	return mergeItems(items)
}

func samePlan(a, b []ConsumeItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
