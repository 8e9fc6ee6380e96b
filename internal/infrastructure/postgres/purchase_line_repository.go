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

var _ repository.PurchaseLineRepository = (*PurchaseLineRepo)(nil)

const purchaseLineColumns = `id, purchase_id, material_id, quantity, unit_price, subtotal, status, created_at, updated_at`

// PurchaseLineRepo detalles de compra sobre PostgreSQL.
type PurchaseLineRepo struct {
	q Querier
}

// NewPurchaseLineRepository construye el repositorio (pool o tx).
func NewPurchaseLineRepository(q Querier) *PurchaseLineRepo {
	return &PurchaseLineRepo{q: q}
}

// Create persiste el detalle.
func (r *PurchaseLineRepo) Create(ctx context.Context, l *entity.PurchaseLine) error {
	query := `INSERT INTO purchase_lines (` + purchaseLineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.PurchaseID, l.MaterialID, l.Quantity, l.UnitPrice, l.Subtotal, l.Status, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase line: %w", err)
	}
	return nil
}

// GetByID obtiene el detalle o (nil, nil).
func (r *PurchaseLineRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseLine, error) {
	return r.get(ctx, `SELECT `+purchaseLineColumns+` FROM purchase_lines WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del detalle hasta el fin de la transacción.
func (r *PurchaseLineRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseLine, error) {
	return r.get(ctx, `SELECT `+purchaseLineColumns+` FROM purchase_lines WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseLineRepo) get(ctx context.Context, query, id string) (*entity.PurchaseLine, error) {
	if !isUUID(id) {
		return nil, nil
	}
	var l entity.PurchaseLine
	err := r.q.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.PurchaseID, &l.MaterialID, &l.Quantity, &l.UnitPrice, &l.Subtotal, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase line: %w", err)
	}
	return &l, nil
}

// Update reescribe materia prima, cantidad, precio y estado.
func (r *PurchaseLineRepo) Update(ctx context.Context, l *entity.PurchaseLine) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE purchase_lines SET material_id = $2, quantity = $3, unit_price = $4, subtotal = $5, status = $6, updated_at = $7
		WHERE id = $1`,
		l.ID, l.MaterialID, l.Quantity, l.UnitPrice, l.Subtotal, l.Status, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
