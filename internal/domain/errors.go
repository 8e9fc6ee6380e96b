package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Shortfall describe el faltante de una materia prima dentro de un consumo.
type Shortfall struct {
	MaterialID string `json:"material_id"`
	Requested  int64  `json:"requested"`
	Available  int64  `json:"available"`
}

// Missing devuelve las unidades que faltan para cubrir lo solicitado.
func (s Shortfall) Missing() int64 {
	return s.Requested - s.Available
}

// InsufficientStockError enumera todos los faltantes detectados en la validación.
// errors.Is(err, ErrInsufficientStock) es verdadero para este tipo.
type InsufficientStockError struct {
	Missing []Shortfall
}

// NewInsufficientStock construye el error a partir de los faltantes.
func NewInsufficientStock(missing ...Shortfall) *InsufficientStockError {
	return &InsufficientStockError{Missing: missing}
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for _, s := range e.Missing {
		parts = append(parts, fmt.Sprintf("%s (solicitado %d, disponible %d)", s.MaterialID, s.Requested, s.Available))
	}
	return ErrInsufficientStock.Error() + ": " + strings.Join(parts, ", ")
}

// Is permite comparar contra el sentinel ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Shortfalls extrae la lista de faltantes de un error, si la tiene.
func Shortfalls(err error) []Shortfall {
	var ise *InsufficientStockError
	if errors.As(err, &ise) {
		return ise.Missing
	}
	return nil
}
