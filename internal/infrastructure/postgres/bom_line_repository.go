package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.BOMLineRepository = (*BOMLineRepo)(nil)

const bomLineColumns = `id, product_id, material_id, required_quantity, status, created_at, updated_at`

// BOMLineRepo recetas sobre PostgreSQL.
type BOMLineRepo struct {
	q Querier
}

// NewBOMLineRepository construye el repositorio (pool o tx).
func NewBOMLineRepository(q Querier) *BOMLineRepo {
	return &BOMLineRepo{q: q}
}

// Create persiste la línea de receta.
func (r *BOMLineRepo) Create(ctx context.Context, l *entity.BOMLine) error {
	query := `INSERT INTO bom_lines (` + bomLineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, l.ID, l.ProductID, l.MaterialID, l.RequiredQuantity, l.Status, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert bom line: %w", err)
	}
	return nil
}

// GetByID obtiene la línea o (nil, nil).
func (r *BOMLineRepo) GetByID(ctx context.Context, id string) (*entity.BOMLine, error) {
	if !isUUID(id) {
		return nil, nil
	}
	l, err := scanBOMLine(r.q.QueryRow(ctx, `SELECT `+bomLineColumns+` FROM bom_lines WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bom line: %w", err)
	}
	return l, nil
}

// Update reescribe producto, materia prima, cantidad y estado.
func (r *BOMLineRepo) Update(ctx context.Context, l *entity.BOMLine) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE bom_lines SET product_id = $2, material_id = $3, required_quantity = $4, status = $5, updated_at = $6
		WHERE id = $1`,
		l.ID, l.ProductID, l.MaterialID, l.RequiredQuantity, l.Status, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update bom line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListActiveByProduct líneas activas del producto en orden de alta.
func (r *BOMLineRepo) ListActiveByProduct(ctx context.Context, productID string) ([]*entity.BOMLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+bomLineColumns+` FROM bom_lines
		WHERE product_id = $1 AND status = 'active'
		ORDER BY created_at, id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list bom lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.BOMLine
	for rows.Next() {
		l, err := scanBOMLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bom line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// ListProductIDsByMaterial productos distintos con línea activa sobre la materia prima.
func (r *BOMLineRepo) ListProductIDsByMaterial(ctx context.Context, materialID string) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT product_id::text FROM bom_lines
		WHERE material_id = $1 AND status = 'active'
		ORDER BY 1`, materialID)
	if err != nil {
		return nil, fmt.Errorf("list products by material: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanBOMLine(row pgx.Row) (*entity.BOMLine, error) {
	var l entity.BOMLine
	if err := row.Scan(&l.ID, &l.ProductID, &l.MaterialID, &l.RequiredQuantity, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}
