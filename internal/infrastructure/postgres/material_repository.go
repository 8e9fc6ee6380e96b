package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `id, name, description, unit_of_measure, unit_cost, stock, status, created_at, updated_at`

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL.
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el repositorio (pool o tx).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// Create persiste una materia prima.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	query := `INSERT INTO materials (` + materialColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Name, m.Description, m.UnitOfMeasure, m.UnitCost, m.Stock, m.Status, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// GetByID obtiene la materia prima o (nil, nil).
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	return r.get(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la materia prima hasta el fin de la transacción.
func (r *MaterialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	return r.get(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1 FOR UPDATE`, id)
}

func (r *MaterialRepo) get(ctx context.Context, query, id string) (*entity.Material, error) {
	if !isUUID(id) {
		return nil, nil
	}
	var m entity.Material
	err := r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.Description, &m.UnitOfMeasure, &m.UnitCost, &m.Stock, &m.Status, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return &m, nil
}

// UpdateSnapshot escribe el stock y el costo promedio vigentes.
func (r *MaterialRepo) UpdateSnapshot(ctx context.Context, id string, stock int64, unitCost decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE materials SET stock = $2, unit_cost = $3, updated_at = now() WHERE id = $1`,
		id, stock, unitCost,
	)
	if err != nil {
		return fmt.Errorf("update material snapshot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
