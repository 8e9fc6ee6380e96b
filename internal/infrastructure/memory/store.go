// Package memory implementa los repositorios del kardex en memoria, con transacciones
// de tipo overlay: las escrituras quedan en staging y se aplican en el commit.
package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Store datos confirmados. Seguro para uso concurrente; el aislamiento por materia prima lo da el Locker.
type Store struct {
	mu        sync.RWMutex
	materials map[string]entity.Material
	products  map[string]entity.Product
	bomLines  map[string]entity.BOMLine
	purchases map[string]entity.PurchaseLine
	movements map[string][]entity.MaterialMovement
	seq       atomic.Int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		materials: make(map[string]entity.Material),
		products:  make(map[string]entity.Product),
		bomLines:  make(map[string]entity.BOMLine),
		purchases: make(map[string]entity.PurchaseLine),
		movements: make(map[string][]entity.MaterialMovement),
	}
}

var _ inventory.TxRunner = (*Store)(nil)

// Run ejecuta fn sobre un overlay; aplica los cambios si fn retorna nil y los descarta en otro caso.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &txView{s: s, c: newChanges()}
	if err := fn(tx.repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.apply(tx.c)
	return nil
}

// Repos devuelve repositorios en modo autocommit (cada escritura se confirma al instante).
func (s *Store) Repos() inventory.TxRepos {
	return (&txView{s: s, auto: true}).repos()
}

// Materials repositorio autocommit de materias primas.
func (s *Store) Materials() repository.MaterialRepository { return s.Repos().Materials }

// Movements repositorio autocommit del kardex.
func (s *Store) Movements() repository.MaterialMovementRepository { return s.Repos().Movements }

// Products repositorio autocommit de productos.
func (s *Store) Products() repository.ProductRepository { return s.Repos().Products }

// BOMLines repositorio autocommit de recetas.
func (s *Store) BOMLines() repository.BOMLineRepository { return s.Repos().BOMLines }

// PurchaseLines repositorio autocommit de detalles de compra.
func (s *Store) PurchaseLines() repository.PurchaseLineRepository { return s.Repos().PurchaseLines }

type snapshot struct {
	stock    int64
	unitCost decimal.Decimal
	at       time.Time
}

// changes escrituras pendientes de una transacción.
type changes struct {
	materials  map[string]entity.Material
	snapshots  map[string]snapshot
	products   map[string]entity.Product
	prices     map[string]decimal.Decimal
	stockDelta map[string]int64
	bomLines   map[string]entity.BOMLine
	purchases  map[string]entity.PurchaseLine
	movements  []entity.MaterialMovement
}

func newChanges() *changes {
	return &changes{
		materials:  make(map[string]entity.Material),
		snapshots:  make(map[string]snapshot),
		products:   make(map[string]entity.Product),
		prices:     make(map[string]decimal.Decimal),
		stockDelta: make(map[string]int64),
		bomLines:   make(map[string]entity.BOMLine),
		purchases:  make(map[string]entity.PurchaseLine),
	}
}

func (s *Store) apply(c *changes) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, m := range c.materials {
		s.materials[id] = m
	}
	for id, snap := range c.snapshots {
		m := s.materials[id]
		m.Stock = snap.stock
		m.UnitCost = snap.unitCost
		m.UpdatedAt = snap.at
		s.materials[id] = m
	}
	for id, p := range c.products {
		s.products[id] = p
	}
	for id, price := range c.prices {
		p := s.products[id]
		p.SalePrice = price
		p.UpdatedAt = time.Now().UTC()
		s.products[id] = p
	}
	for id, delta := range c.stockDelta {
		p := s.products[id]
		p.Stock += delta
		s.products[id] = p
	}
	for id, l := range c.bomLines {
		s.bomLines[id] = l
	}
	for id, l := range c.purchases {
		s.purchases[id] = l
	}
	touched := make(map[string]struct{})
	for _, mov := range c.movements {
		s.movements[mov.MaterialID] = append(s.movements[mov.MaterialID], mov)
		touched[mov.MaterialID] = struct{}{}
	}
	for id := range touched {
		list := s.movements[id]
		sort.SliceStable(list, func(i, j int) bool { return movementLess(&list[i], &list[j]) })
	}
}

func movementLess(a, b *entity.MaterialMovement) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.Sequence < b.Sequence
}

// txView vista de lectura/escritura de una transacción (o autocommit si auto).
type txView struct {
	s    *Store
	c    *changes
	auto bool
}

func (t *txView) repos() inventory.TxRepos {
	return inventory.TxRepos{
		Materials:     materialRepo{t},
		Movements:     movementRepo{t},
		Products:      productRepo{t},
		BOMLines:      bomLineRepo{t},
		PurchaseLines: purchaseLineRepo{t},
	}
}

// write aplica w sobre el staging de la tx o, en autocommit, sobre un staging que se confirma de inmediato.
func (t *txView) write(w func(c *changes)) {
	if !t.auto {
		w(t.c)
		return
	}
	c := newChanges()
	w(c)
	t.s.apply(c)
}

func (t *txView) staged() *changes {
	if t.c == nil {
		return newChanges()
	}
	return t.c
}
