package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AppendInput movimiento a registrar en el kardex de una materia prima.
// Date vacío = hora actual del ledger.
type AppendInput struct {
	MaterialID    string
	EntryQuantity int64
	ExitQuantity  int64
	UnitCost      decimal.Decimal
	Date          time.Time
	Source        string
	Reference     string
	UserID        string
}

// CostLedger es el único punto que escribe movimientos de kardex.
// Append debe llamarse dentro de una transacción (TxRunner) y con la materia prima bloqueada (Locker).
type CostLedger struct {
	stock *MaterialStockStore
	now   func() time.Time
}

// NewCostLedger construye el ledger. now puede ser nil (time.Now).
func NewCostLedger(stock *MaterialStockStore, now func() time.Time) *CostLedger {
	if now == nil {
		now = time.Now
	}
	return &CostLedger{stock: stock, now: now}
}

// Now hora de referencia del ledger, con la precisión de timestamptz.
func (l *CostLedger) Now() time.Time {
	return l.now().UTC().Truncate(time.Microsecond)
}

// Append bloquea la fila de la materia prima (SELECT FOR UPDATE), lee el último movimiento,
// calcula existencia, debe, haber, saldo y promedio, inserta el movimiento y sincroniza el snapshot.
func (l *CostLedger) Append(ctx context.Context, repos TxRepos, in AppendInput) (*entity.MaterialMovement, error) {
	if in.MaterialID == "" {
		return nil, domain.ErrInvalidInput
	}
	material, err := repos.Materials.GetForUpdate(ctx, in.MaterialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, fmt.Errorf("materia prima %s: %w", in.MaterialID, domain.ErrNotFound)
	}

	last, err := repos.Movements.Latest(ctx, in.MaterialID)
	if err != nil {
		return nil, err
	}
	date := in.Date
	if date.IsZero() {
		date = l.Now()
	}
	if last != nil && date.Before(last.Date) {
		return nil, fmt.Errorf("%w: fecha %s anterior al último movimiento", domain.ErrInvalidInput, date.Format(time.RFC3339))
	}

	prev := inventory.StateOf(last)
	posting, err := inventory.CostCalculator(prev, in.EntryQuantity, in.ExitQuantity, in.UnitCost)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			return nil, domain.NewInsufficientStock(domain.Shortfall{
				MaterialID: in.MaterialID,
				Requested:  in.ExitQuantity,
				Available:  prev.Stock,
			})
		}
		return nil, err
	}

	unitCost := in.UnitCost
	if in.EntryQuantity == 0 {
		// En salidas el costo aplicado es el promedio con el que se valoriza el haber.
		unitCost = prev.Average
	}
	mov := &entity.MaterialMovement{
		ID:              uuid.New().String(),
		MaterialID:      in.MaterialID,
		Date:            date,
		EntryQuantity:   in.EntryQuantity,
		ExitQuantity:    in.ExitQuantity,
		ResultingStock:  posting.State.Stock,
		UnitCost:        unitCost,
		WeightedAverage: posting.State.Average,
		Debit:           posting.Debit,
		Credit:          posting.Credit,
		Balance:         posting.State.Balance,
		Source:          in.Source,
		Reference:       in.Reference,
		Status:          entity.StatusActive,
		CreatedAt:       l.Now(),
		CreatedBy:       in.UserID,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	if err := l.stock.SyncFrom(ctx, repos.Materials, mov); err != nil {
		return nil, err
	}
	// evento en el span de la operación que escribe (recepción, consumo, producción)
	trace.SpanFromContext(ctx).AddEvent("kardex.append", trace.WithAttributes(
		attribute.String("material_id", mov.MaterialID),
		attribute.Int64("sequence", mov.Sequence),
		attribute.Int64("resulting_stock", mov.ResultingStock),
		attribute.String("weighted_average", mov.WeightedAverage.String()),
	))
	return mov, nil
}

// materialSession abre la sección crítica de un conjunto de materias primas:
// Locker en orden ascendente y luego la transacción.
type materialSession struct {
	tx     TxRunner
	locker Locker
}

func (s materialSession) run(ctx context.Context, materialIDs []string, fn func(repos TxRepos) error) error {
	return s.runKeys(ctx, materialKeys(sortedUnique(materialIDs)), fn)
}

func (s materialSession) runKeys(ctx context.Context, keys []string, fn func(repos TxRepos) error) error {
	unlock, err := s.locker.Lock(ctx, sortedUnique(keys)...)
	if err != nil {
		return fmt.Errorf("bloquear: %w", err)
	}
	defer unlock()
	return s.tx.Run(ctx, fn)
}
