package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// BOMLineInput línea de receta a crear o modificar.
type BOMLineInput struct {
	ProductID        string
	MaterialID       string
	RequiredQuantity decimal.Decimal
}

// BOMLineResult línea resultante y precios recalculados.
type BOMLineResult struct {
	Line    *entity.BOMLine
	Updates []PriceUpdate
}

// BOMUseCase mantiene las recetas; cada cambio recalcula el precio de los productos afectados.
type BOMUseCase struct {
	session    materialSession
	propagator *BOMCostPropagator
	log        zerolog.Logger
}

// NewBOMUseCase construye el caso de uso.
func NewBOMUseCase(tx TxRunner, locker Locker, propagator *BOMCostPropagator, log zerolog.Logger) *BOMUseCase {
	return &BOMUseCase{
		session:    materialSession{tx: tx, locker: locker},
		propagator: propagator,
		log:        log,
	}
}

func (in BOMLineInput) validate() error {
	if in.ProductID == "" || in.MaterialID == "" {
		return domain.ErrInvalidInput
	}
	if !in.RequiredQuantity.IsPositive() {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// Create agrega la línea a la receta del producto.
func (uc *BOMUseCase) Create(ctx context.Context, in BOMLineInput) (*BOMLineResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var line *entity.BOMLine
	err := uc.session.runKeys(ctx, []string{productKey(in.ProductID)}, func(repos TxRepos) error {
		if err := checkRefs(ctx, repos, in); err != nil {
			return err
		}
		now := time.Now().UTC()
		line = &entity.BOMLine{
			ID:               uuid.New().String(),
			ProductID:        in.ProductID,
			MaterialID:       in.MaterialID,
			RequiredQuantity: in.RequiredQuantity,
			Status:           entity.StatusActive,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		return repos.BOMLines.Create(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	return &BOMLineResult{Line: line, Updates: uc.reprice(ctx, line.ProductID)}, nil
}

// Update modifica la línea; si cambia de producto se recalculan el anterior y el nuevo.
func (uc *BOMUseCase) Update(ctx context.Context, id string, in BOMLineInput) (*BOMLineResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	current, err := uc.readLine(ctx, id)
	if err != nil {
		return nil, err
	}
	oldProductID := current.ProductID
	keys := []string{productKey(oldProductID), productKey(in.ProductID)}

	var line *entity.BOMLine
	err = uc.session.runKeys(ctx, keys, func(repos TxRepos) error {
		l, err := repos.BOMLines.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if l == nil || !l.IsActive() || l.ProductID != oldProductID {
			return fmt.Errorf("%w: línea de receta %s modificada concurrentemente", domain.ErrConflict, id)
		}
		if err := checkRefs(ctx, repos, in); err != nil {
			return err
		}
		l.ProductID = in.ProductID
		l.MaterialID = in.MaterialID
		l.RequiredQuantity = in.RequiredQuantity
		l.UpdatedAt = time.Now().UTC()
		line = l
		return repos.BOMLines.Update(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return &BOMLineResult{Line: line, Updates: uc.reprice(ctx, oldProductID, in.ProductID)}, nil
}

// Retire inactiva la línea; deja de participar en costeo y producción.
func (uc *BOMUseCase) Retire(ctx context.Context, id string) (*BOMLineResult, error) {
	current, err := uc.readLine(ctx, id)
	if err != nil {
		return nil, err
	}
	var line *entity.BOMLine
	err = uc.session.runKeys(ctx, []string{productKey(current.ProductID)}, func(repos TxRepos) error {
		l, err := repos.BOMLines.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if l == nil || !l.IsActive() {
			return fmt.Errorf("%w: línea de receta %s ya inactiva", domain.ErrConflict, id)
		}
		l.Status = entity.StatusInactive
		l.UpdatedAt = time.Now().UTC()
		line = l
		return repos.BOMLines.Update(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return &BOMLineResult{Line: line, Updates: uc.reprice(ctx, line.ProductID)}, nil
}

// Reprice recalcula un producto a demanda.
func (uc *BOMUseCase) Reprice(ctx context.Context, productID string) (*PriceUpdate, error) {
	return uc.propagator.PropagateProduct(ctx, productID)
}

func (uc *BOMUseCase) readLine(ctx context.Context, id string) (*entity.BOMLine, error) {
	var line *entity.BOMLine
	err := uc.session.tx.Run(ctx, func(repos TxRepos) error {
		var err error
		line, err = repos.BOMLines.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, fmt.Errorf("línea de receta %s: %w", id, domain.ErrNotFound)
	}
	if !line.IsActive() {
		return nil, fmt.Errorf("%w: línea de receta %s inactiva", domain.ErrConflict, id)
	}
	return line, nil
}

// reprice recalcula los productos tras el commit; un fallo solo se registra.
func (uc *BOMUseCase) reprice(ctx context.Context, productIDs ...string) []PriceUpdate {
	var updates []PriceUpdate
	for _, id := range sortedUnique(productIDs) {
		upd, err := uc.propagator.PropagateProduct(ctx, id)
		if err != nil {
			uc.log.Warn().Err(err).Str("product_id", id).Msg("no se pudo recalcular el precio del producto")
			continue
		}
		updates = append(updates, *upd)
	}
	return updates
}

func checkRefs(ctx context.Context, repos TxRepos, in BOMLineInput) error {
	p, err := repos.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("producto %s: %w", in.ProductID, domain.ErrNotFound)
	}
	m, err := repos.Materials.GetByID(ctx, in.MaterialID)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("materia prima %s: %w", in.MaterialID, domain.ErrNotFound)
	}
	return nil
}
