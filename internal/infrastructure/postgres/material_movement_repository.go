package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.MaterialMovementRepository = (*MaterialMovementRepo)(nil)

const movementColumns = `id, seq, material_id, date, entry_quantity, exit_quantity, resulting_stock,
	unit_cost, weighted_average, debit, credit, balance, source, reference, status, created_at, created_by`

// MaterialMovementRepo kardex append-only sobre PostgreSQL; seq (BIGSERIAL) desempata movimientos con la misma fecha.
type MaterialMovementRepo struct {
	q Querier
}

// NewMaterialMovementRepository construye el repositorio (pool o tx).
func NewMaterialMovementRepository(q Querier) *MaterialMovementRepo {
	return &MaterialMovementRepo{q: q}
}

// Create inserta el movimiento y devuelve la secuencia asignada en mov.Sequence.
func (r *MaterialMovementRepo) Create(ctx context.Context, mov *entity.MaterialMovement) error {
	if mov.ID == "" {
		mov.ID = uuid.New().String()
	}
	query := `
		INSERT INTO material_movements (id, material_id, date, entry_quantity, exit_quantity, resulting_stock,
			unit_cost, weighted_average, debit, credit, balance, source, reference, status, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		mov.ID, mov.MaterialID, mov.Date, mov.EntryQuantity, mov.ExitQuantity, mov.ResultingStock,
		mov.UnitCost, mov.WeightedAverage, mov.Debit, mov.Credit, mov.Balance,
		mov.Source, mov.Reference, mov.Status, mov.CreatedAt, mov.CreatedBy,
	).Scan(&mov.Sequence)
	if err != nil {
		return fmt.Errorf("insert material movement: %w", err)
	}
	return nil
}

// Latest último movimiento por (date, seq) o (nil, nil).
func (r *MaterialMovementRepo) Latest(ctx context.Context, materialID string) (*entity.MaterialMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM material_movements
		WHERE material_id = $1 ORDER BY date DESC, seq DESC LIMIT 1`
	mov, err := scanMovement(r.q.QueryRow(ctx, query, materialID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest material movement: %w", err)
	}
	return mov, nil
}

// ListByMaterial kardex ascendente, opcionalmente acotado por [from, to].
func (r *MaterialMovementRepo) ListByMaterial(ctx context.Context, materialID string, from, to *time.Time) ([]*entity.MaterialMovement, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + movementColumns + ` FROM material_movements WHERE material_id = $1`)
	args := []any{materialID}
	if from != nil {
		args = append(args, *from)
		fmt.Fprintf(&sb, " AND date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		fmt.Fprintf(&sb, " AND date <= $%d", len(args))
	}
	sb.WriteString(" ORDER BY date ASC, seq ASC")

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list material movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.MaterialMovement
	for rows.Next() {
		mov, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material movement: %w", err)
		}
		list = append(list, mov)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.MaterialMovement, error) {
	var m entity.MaterialMovement
	err := row.Scan(
		&m.ID, &m.Sequence, &m.MaterialID, &m.Date, &m.EntryQuantity, &m.ExitQuantity, &m.ResultingStock,
		&m.UnitCost, &m.WeightedAverage, &m.Debit, &m.Credit, &m.Balance,
		&m.Source, &m.Reference, &m.Status, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
