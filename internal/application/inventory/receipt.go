package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// ReceiptProcessor registra entradas de materia prima (recepciones y detalles de compra)
// y sus correcciones mediante movimientos compensatorios.
type ReceiptProcessor struct {
	session    materialSession
	ledger     *CostLedger
	propagator *BOMCostPropagator
	log        zerolog.Logger
}

// NewReceiptProcessor construye el caso de uso.
func NewReceiptProcessor(tx TxRunner, locker Locker, ledger *CostLedger, propagator *BOMCostPropagator, log zerolog.Logger) *ReceiptProcessor {
	return &ReceiptProcessor{
		session:    materialSession{tx: tx, locker: locker},
		ledger:     ledger,
		propagator: propagator,
		log:        log,
	}
}

// ReceiveEntryInput entrada directa de materia prima.
type ReceiveEntryInput struct {
	MaterialID string
	Quantity   int64
	UnitCost   decimal.Decimal
	Reference  string
	UserID     string
}

// ReceiveEntry registra la entrada en el kardex y, tras el commit, recalcula los productos afectados.
func (p *ReceiptProcessor) ReceiveEntry(ctx context.Context, in ReceiveEntryInput) (*entity.MaterialMovement, error) {
	ctx, span := tracer.Start(ctx, "ReceiptProcessor.ReceiveEntry")
	defer span.End()
	span.SetAttributes(attribute.String("material_id", in.MaterialID))

	if in.MaterialID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 || in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}

	var mov *entity.MaterialMovement
	err := p.session.run(ctx, []string{in.MaterialID}, func(repos TxRepos) error {
		var err error
		mov, err = p.ledger.Append(ctx, repos, AppendInput{
			MaterialID:    in.MaterialID,
			EntryQuantity: in.Quantity,
			UnitCost:      in.UnitCost,
			Source:        entity.MovementSourceReceipt,
			Reference:     in.Reference,
			UserID:        in.UserID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	p.log.Info().
		Str("material_id", in.MaterialID).
		Str("movement_id", mov.ID).
		Int64("quantity", in.Quantity).
		Msg("entrada registrada")
	p.propagator.PropagateMany(ctx, []string{in.MaterialID})
	return mov, nil
}

// PurchaseLineInput detalle de compra a registrar o corregir.
type PurchaseLineInput struct {
	PurchaseID string
	MaterialID string
	Quantity   int64
	UnitPrice  decimal.Decimal
	UserID     string
}

func (in PurchaseLineInput) validate() error {
	if in.MaterialID == "" {
		return domain.ErrInvalidInput
	}
	if in.Quantity <= 0 || in.UnitPrice.IsNegative() {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// PurchaseLineResult detalle resultante y movimientos generados.
type PurchaseLineResult struct {
	Line      *entity.PurchaseLine
	Movements []*entity.MaterialMovement
}

// RegisterPurchaseLine crea el detalle de compra y su movimiento de entrada en la misma transacción.
func (p *ReceiptProcessor) RegisterPurchaseLine(ctx context.Context, in PurchaseLineInput) (*PurchaseLineResult, error) {
	ctx, span := tracer.Start(ctx, "ReceiptProcessor.RegisterPurchaseLine")
	defer span.End()

	if err := in.validate(); err != nil {
		return nil, err
	}
	res := &PurchaseLineResult{}
	err := p.session.run(ctx, []string{in.MaterialID}, func(repos TxRepos) error {
		now := p.ledger.Now()
		line := &entity.PurchaseLine{
			ID:         uuid.New().String(),
			PurchaseID: in.PurchaseID,
			MaterialID: in.MaterialID,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
			Subtotal:   decimal.NewFromInt(in.Quantity).Mul(in.UnitPrice),
			Status:     entity.StatusActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		mov, err := p.ledger.Append(ctx, repos, AppendInput{
			MaterialID:    in.MaterialID,
			EntryQuantity: in.Quantity,
			UnitCost:      in.UnitPrice,
			Source:        entity.MovementSourceReceipt,
			Reference:     line.ID,
			UserID:        in.UserID,
		})
		if err != nil {
			return err
		}
		if err := repos.PurchaseLines.Create(ctx, line); err != nil {
			return err
		}
		res.Line = line
		res.Movements = append(res.Movements, mov)
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.propagator.PropagateMany(ctx, []string{in.MaterialID})
	return res, nil
}

// CorrectPurchaseLine corrige un detalle de compra sin editar movimientos existentes:
// cambio de materia prima o de precio = salida compensatoria + entrada nueva;
// cambio solo de cantidad = un movimiento por la diferencia; sin cambios = nada.
func (p *ReceiptProcessor) CorrectPurchaseLine(ctx context.Context, id string, in PurchaseLineInput) (*PurchaseLineResult, error) {
	ctx, span := tracer.Start(ctx, "ReceiptProcessor.CorrectPurchaseLine")
	defer span.End()
	span.SetAttributes(attribute.String("purchase_line_id", id))

	if err := in.validate(); err != nil {
		return nil, err
	}
	current, err := p.readLine(ctx, id)
	if err != nil {
		return nil, err
	}
	touched := []string{current.MaterialID, in.MaterialID}

	res := &PurchaseLineResult{}
	err = p.session.run(ctx, touched, func(repos TxRepos) error {
		line, err := p.lockLine(ctx, repos, id, current.MaterialID)
		if err != nil {
			return err
		}
		ref := line.ID
		switch {
		case line.MaterialID != in.MaterialID || !line.UnitPrice.Equal(in.UnitPrice):
			out, err := p.ledger.Append(ctx, repos, AppendInput{
				MaterialID:   line.MaterialID,
				ExitQuantity: line.Quantity,
				Source:       entity.MovementSourceCorrection,
				Reference:    ref,
				UserID:       in.UserID,
			})
			if err != nil {
				return err
			}
			entry, err := p.ledger.Append(ctx, repos, AppendInput{
				MaterialID:    in.MaterialID,
				EntryQuantity: in.Quantity,
				UnitCost:      in.UnitPrice,
				Source:        entity.MovementSourceCorrection,
				Reference:     ref,
				UserID:        in.UserID,
			})
			if err != nil {
				return err
			}
			res.Movements = append(res.Movements, out, entry)
		case line.Quantity != in.Quantity:
			diff := in.Quantity - line.Quantity
			adj := AppendInput{
				MaterialID: line.MaterialID,
				Source:     entity.MovementSourceCorrection,
				Reference:  ref,
				UserID:     in.UserID,
			}
			if diff > 0 {
				adj.EntryQuantity = diff
				adj.UnitCost = in.UnitPrice
			} else {
				adj.ExitQuantity = -diff
			}
			mov, err := p.ledger.Append(ctx, repos, adj)
			if err != nil {
				return err
			}
			res.Movements = append(res.Movements, mov)
		default:
			res.Line = line
			return nil
		}

		line.MaterialID = in.MaterialID
		line.Quantity = in.Quantity
		line.UnitPrice = in.UnitPrice
		line.Subtotal = decimal.NewFromInt(in.Quantity).Mul(in.UnitPrice)
		line.UpdatedAt = p.ledger.Now()
		if err := repos.PurchaseLines.Update(ctx, line); err != nil {
			return err
		}
		res.Line = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(res.Movements) > 0 {
		p.propagator.PropagateMany(ctx, touched)
	}
	return res, nil
}

// RemovePurchaseLine anula el detalle con una salida compensatoria y lo marca inactivo.
func (p *ReceiptProcessor) RemovePurchaseLine(ctx context.Context, id, userID string) (*PurchaseLineResult, error) {
	ctx, span := tracer.Start(ctx, "ReceiptProcessor.RemovePurchaseLine")
	defer span.End()
	span.SetAttributes(attribute.String("purchase_line_id", id))

	current, err := p.readLine(ctx, id)
	if err != nil {
		return nil, err
	}
	res := &PurchaseLineResult{}
	err = p.session.run(ctx, []string{current.MaterialID}, func(repos TxRepos) error {
		line, err := p.lockLine(ctx, repos, id, current.MaterialID)
		if err != nil {
			return err
		}
		mov, err := p.ledger.Append(ctx, repos, AppendInput{
			MaterialID:   line.MaterialID,
			ExitQuantity: line.Quantity,
			Source:       entity.MovementSourceCorrection,
			Reference:    line.ID,
			UserID:       userID,
		})
		if err != nil {
			return err
		}
		line.Status = entity.StatusInactive
		line.UpdatedAt = p.ledger.Now()
		if err := repos.PurchaseLines.Update(ctx, line); err != nil {
			return err
		}
		res.Line = line
		res.Movements = append(res.Movements, mov)
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.propagator.PropagateMany(ctx, []string{current.MaterialID})
	return res, nil
}

// readLine lee el detalle fuera de la sección crítica para conocer qué materias primas bloquear.
func (p *ReceiptProcessor) readLine(ctx context.Context, id string) (*entity.PurchaseLine, error) {
	var line *entity.PurchaseLine
	err := p.session.tx.Run(ctx, func(repos TxRepos) error {
		var err error
		line, err = repos.PurchaseLines.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, fmt.Errorf("detalle de compra %s: %w", id, domain.ErrNotFound)
	}
	if line.Status != entity.StatusActive {
		return nil, fmt.Errorf("%w: detalle de compra %s anulado", domain.ErrConflict, id)
	}
	return line, nil
}

// lockLine relee el detalle con bloqueo; si cambió de materia prima desde readLine, el bloqueo tomado no lo cubre.
func (p *ReceiptProcessor) lockLine(ctx context.Context, repos TxRepos, id, materialID string) (*entity.PurchaseLine, error) {
	line, err := repos.PurchaseLines.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, fmt.Errorf("detalle de compra %s: %w", id, domain.ErrNotFound)
	}
	if line.Status != entity.StatusActive || line.MaterialID != materialID {
		return nil, fmt.Errorf("%w: detalle de compra %s modificado concurrentemente", domain.ErrConflict, id)
	}
	return line, nil
}
