package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// CatalogUseCase alta y consulta de materias primas y productos.
// Stock, costo y precio nacen en cero: solo el kardex y el propagador los modifican.
type CatalogUseCase struct {
	materials repository.MaterialRepository
	products  repository.ProductRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(materials repository.MaterialRepository, products repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{materials: materials, products: products}
}

// CreateMaterialInput datos de una materia prima nueva.
type CreateMaterialInput struct {
	Name          string
	Description   string
	UnitOfMeasure string
}

// CreateMaterial registra la materia prima sin existencia.
func (uc *CatalogUseCase) CreateMaterial(ctx context.Context, in CreateMaterialInput) (*entity.Material, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	m := &entity.Material{
		ID:            uuid.New().String(),
		Name:          name,
		Description:   in.Description,
		UnitOfMeasure: in.UnitOfMeasure,
		UnitCost:      decimal.Zero,
		Status:        entity.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.materials.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// GetMaterial devuelve la materia prima o domain.ErrNotFound.
func (uc *CatalogUseCase) GetMaterial(ctx context.Context, id string) (*entity.Material, error) {
	m, err := uc.materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// CreateProductInput datos de un producto terminado nuevo.
type CreateProductInput struct {
	Name        string
	Description string
}

// CreateProduct registra el producto con precio y existencia en cero.
func (uc *CatalogUseCase) CreateProduct(ctx context.Context, in CreateProductInput) (*entity.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	p := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		SalePrice:   decimal.Zero,
		Status:      entity.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct devuelve el producto o domain.ErrNotFound.
func (uc *CatalogUseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
