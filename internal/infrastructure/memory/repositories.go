package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

type materialRepo struct{ t *txView }

func (r materialRepo) Create(_ context.Context, m *entity.Material) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if existing, _ := r.GetByID(context.Background(), m.ID); existing != nil {
		return domain.ErrDuplicate
	}
	cp := *m
	r.t.write(func(c *changes) { c.materials[cp.ID] = cp })
	return nil
}

func (r materialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	c := r.t.staged()
	m, ok := c.materials[id]
	if !ok {
		r.t.s.mu.RLock()
		m, ok = r.t.s.materials[id]
		r.t.s.mu.RUnlock()
	}
	if !ok {
		return nil, nil
	}
	if snap, ok := c.snapshots[id]; ok {
		m.Stock = snap.stock
		m.UnitCost = snap.unitCost
		m.UpdatedAt = snap.at
	}
	return &m, nil
}

func (r materialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	return r.GetByID(ctx, id)
}

func (r materialRepo) UpdateSnapshot(ctx context.Context, id string, stock int64, unitCost decimal.Decimal) error {
	m, _ := r.GetByID(ctx, id)
	if m == nil {
		return domain.ErrNotFound
	}
	snap := snapshot{stock: stock, unitCost: unitCost, at: time.Now().UTC()}
	r.t.write(func(c *changes) { c.snapshots[id] = snap })
	return nil
}

type movementRepo struct{ t *txView }

func (r movementRepo) Create(_ context.Context, mov *entity.MaterialMovement) error {
	if mov.ID == "" {
		mov.ID = uuid.New().String()
	}
	mov.Sequence = r.t.s.seq.Add(1)
	cp := *mov
	r.t.write(func(c *changes) { c.movements = append(c.movements, cp) })
	return nil
}

// all movimientos confirmados más los de la tx, ordenados por (fecha, secuencia).
func (r movementRepo) all(materialID string) []entity.MaterialMovement {
	r.t.s.mu.RLock()
	list := append([]entity.MaterialMovement(nil), r.t.s.movements[materialID]...)
	r.t.s.mu.RUnlock()
	for _, mov := range r.t.staged().movements {
		if mov.MaterialID == materialID {
			list = append(list, mov)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return movementLess(&list[i], &list[j]) })
	return list
}

func (r movementRepo) Latest(_ context.Context, materialID string) (*entity.MaterialMovement, error) {
	list := r.all(materialID)
	if len(list) == 0 {
		return nil, nil
	}
	last := list[len(list)-1]
	return &last, nil
}

func (r movementRepo) ListByMaterial(_ context.Context, materialID string, from, to *time.Time) ([]*entity.MaterialMovement, error) {
	list := r.all(materialID)
	out := make([]*entity.MaterialMovement, 0, len(list))
	for i := range list {
		mov := list[i]
		if from != nil && mov.Date.Before(*from) {
			continue
		}
		if to != nil && mov.Date.After(*to) {
			continue
		}
		out = append(out, &mov)
	}
	return out, nil
}

type productRepo struct{ t *txView }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if existing, _ := r.GetByID(context.Background(), p.ID); existing != nil {
		return domain.ErrDuplicate
	}
	cp := *p
	r.t.write(func(c *changes) { c.products[cp.ID] = cp })
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	c := r.t.staged()
	p, ok := c.products[id]
	if !ok {
		r.t.s.mu.RLock()
		p, ok = r.t.s.products[id]
		r.t.s.mu.RUnlock()
	}
	if !ok {
		return nil, nil
	}
	if price, ok := c.prices[id]; ok {
		p.SalePrice = price
	}
	p.Stock += c.stockDelta[id]
	return &p, nil
}

func (r productRepo) UpdateSalePrice(ctx context.Context, id string, price decimal.Decimal) error {
	if p, _ := r.GetByID(ctx, id); p == nil {
		return domain.ErrNotFound
	}
	r.t.write(func(c *changes) { c.prices[id] = price })
	return nil
}

func (r productRepo) AddStock(ctx context.Context, id string, delta int64) error {
	if p, _ := r.GetByID(ctx, id); p == nil {
		return domain.ErrNotFound
	}
	r.t.write(func(c *changes) { c.stockDelta[id] += delta })
	return nil
}

type bomLineRepo struct{ t *txView }

func (r bomLineRepo) Create(_ context.Context, l *entity.BOMLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if existing, _ := r.GetByID(context.Background(), l.ID); existing != nil {
		return domain.ErrDuplicate
	}
	cp := *l
	r.t.write(func(c *changes) { c.bomLines[cp.ID] = cp })
	return nil
}

func (r bomLineRepo) GetByID(_ context.Context, id string) (*entity.BOMLine, error) {
	if l, ok := r.t.staged().bomLines[id]; ok {
		return &l, nil
	}
	r.t.s.mu.RLock()
	l, ok := r.t.s.bomLines[id]
	r.t.s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r bomLineRepo) Update(ctx context.Context, l *entity.BOMLine) error {
	if existing, _ := r.GetByID(ctx, l.ID); existing == nil {
		return domain.ErrNotFound
	}
	cp := *l
	r.t.write(func(c *changes) { c.bomLines[cp.ID] = cp })
	return nil
}

// merged líneas confirmadas con las de la tx superpuestas, ordenadas por alta.
func (r bomLineRepo) merged() []entity.BOMLine {
	r.t.s.mu.RLock()
	byID := make(map[string]entity.BOMLine, len(r.t.s.bomLines))
	for id, l := range r.t.s.bomLines {
		byID[id] = l
	}
	r.t.s.mu.RUnlock()
	for id, l := range r.t.staged().bomLines {
		byID[id] = l
	}
	out := make([]entity.BOMLine, 0, len(byID))
	for _, l := range byID {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r bomLineRepo) ListActiveByProduct(_ context.Context, productID string) ([]*entity.BOMLine, error) {
	var out []*entity.BOMLine
	for _, l := range r.merged() {
		if l.ProductID == productID && l.IsActive() {
			line := l
			out = append(out, &line)
		}
	}
	return out, nil
}

func (r bomLineRepo) ListProductIDsByMaterial(_ context.Context, materialID string) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, l := range r.merged() {
		if l.MaterialID != materialID || !l.IsActive() {
			continue
		}
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	sort.Strings(ids)
	return ids, nil
}

type purchaseLineRepo struct{ t *txView }

func (r purchaseLineRepo) Create(_ context.Context, l *entity.PurchaseLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if existing, _ := r.GetByID(context.Background(), l.ID); existing != nil {
		return domain.ErrDuplicate
	}
	cp := *l
	r.t.write(func(c *changes) { c.purchases[cp.ID] = cp })
	return nil
}

func (r purchaseLineRepo) GetByID(_ context.Context, id string) (*entity.PurchaseLine, error) {
	if l, ok := r.t.staged().purchases[id]; ok {
		return &l, nil
	}
	r.t.s.mu.RLock()
	l, ok := r.t.s.purchases[id]
	r.t.s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r purchaseLineRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseLine, error) {
	return r.GetByID(ctx, id)
}

func (r purchaseLineRepo) Update(ctx context.Context, l *entity.PurchaseLine) error {
	if existing, _ := r.GetByID(ctx, l.ID); existing == nil {
		return domain.ErrNotFound
	}
	cp := *l
	r.t.write(func(c *changes) { c.purchases[cp.ID] = cp })
	return nil
}
