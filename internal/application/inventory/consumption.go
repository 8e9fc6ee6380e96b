package inventory

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/inventory"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// ConsumeItem cantidad a descontar de una materia prima.
type ConsumeItem struct {
	MaterialID string
	Quantity   int64
}

// ConsumeInput solicitud de consumo de varias materias primas.
type ConsumeInput struct {
	Items     []ConsumeItem
	Reference string
	UserID    string
}

// ConsumptionPlanner descuenta varias materias primas de forma atómica:
// primero valida todas (sin escribir), luego registra una salida por materia prima.
type ConsumptionPlanner struct {
	session    materialSession
	ledger     *CostLedger
	propagator *BOMCostPropagator
	log        zerolog.Logger
}

// NewConsumptionPlanner construye el caso de uso.
func NewConsumptionPlanner(tx TxRunner, locker Locker, ledger *CostLedger, propagator *BOMCostPropagator, log zerolog.Logger) *ConsumptionPlanner {
	return &ConsumptionPlanner{
		session:    materialSession{tx: tx, locker: locker},
		ledger:     ledger,
		propagator: propagator,
		log:        log,
	}
}

// Consume une cantidades de la misma materia prima, bloquea en orden ascendente y registra las salidas.
// Si falta existencia en alguna, devuelve *domain.InsufficientStockError con todos los faltantes y no escribe nada.
func (p *ConsumptionPlanner) Consume(ctx context.Context, in ConsumeInput) ([]*entity.MaterialMovement, error) {
	ctx, span := tracer.Start(ctx, "ConsumptionPlanner.Consume")
	defer span.End()

	plan, err := mergeItems(in.Items)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("materials", len(plan)))

	var movements []*entity.MaterialMovement
	err = p.session.run(ctx, planMaterialIDs(plan), func(repos TxRepos) error {
		var err error
		movements, err = p.consumeInTx(ctx, repos, plan, entity.MovementSourceConsumption, in.Reference, in.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	p.log.Info().Int("materials", len(plan)).Str("reference", in.Reference).Msg("consumo registrado")
	p.propagator.PropagateMany(ctx, planMaterialIDs(plan))
	return movements, nil
}

// consumeInTx ejecuta las dos fases dentro de la transacción del llamador; las materias primas ya deben estar bloqueadas.
func (p *ConsumptionPlanner) consumeInTx(ctx context.Context, repos TxRepos, plan []ConsumeItem, source, reference, userID string) ([]*entity.MaterialMovement, error) {
	var missing []domain.Shortfall
	for _, item := range plan {
		material, err := repos.Materials.GetForUpdate(ctx, item.MaterialID)
		if err != nil {
			return nil, err
		}
		if material == nil {
			return nil, fmt.Errorf("materia prima %s: %w", item.MaterialID, domain.ErrNotFound)
		}
		last, err := repos.Movements.Latest(ctx, item.MaterialID)
		if err != nil {
			return nil, err
		}
		available := inventory.StateOf(last).Stock
		if item.Quantity > available {
			missing = append(missing, domain.Shortfall{
				MaterialID: item.MaterialID,
				Requested:  item.Quantity,
				Available:  available,
			})
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewInsufficientStock(missing...)
	}

	movements := make([]*entity.MaterialMovement, 0, len(plan))
	for _, item := range plan {
		mov, err := p.ledger.Append(ctx, repos, AppendInput{
			MaterialID:   item.MaterialID,
			ExitQuantity: item.Quantity,
			Source:       source,
			Reference:    reference,
			UserID:       userID,
		})
		if err != nil {
			return nil, err
		}
		movements = append(movements, mov)
	}
	return movements, nil
}

// mergeItems valida y suma cantidades por materia prima; el resultado queda ordenado por MaterialID.
func mergeItems(items []ConsumeItem) ([]ConsumeItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: consumo sin ítems", domain.ErrInvalidInput)
	}
	totals := make(map[string]int64, len(items))
	for _, it := range items {
		if it.MaterialID == "" {
			return nil, domain.ErrInvalidInput
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: materia prima %s", domain.ErrInvalidQuantity, it.MaterialID)
		}
		if totals[it.MaterialID] > math.MaxInt64-it.Quantity {
			return nil, fmt.Errorf("%w: total de la materia prima %s excede el máximo", domain.ErrInvalidQuantity, it.MaterialID)
		}
		totals[it.MaterialID] += it.Quantity
	}
	plan := make([]ConsumeItem, 0, len(totals))
	for id, qty := range totals {
		plan = append(plan, ConsumeItem{MaterialID: id, Quantity: qty})
	}
	sort.Slice(plan, func(i, j int) bool { return plan[i].MaterialID < plan[j].MaterialID })
	return plan, nil
}

func planMaterialIDs(plan []ConsumeItem) []string {
	ids := make([]string, len(plan))
	for i, it := range plan {
		ids[i] = it.MaterialID
	}
	return ids
}
