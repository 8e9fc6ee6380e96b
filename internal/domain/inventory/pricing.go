package inventory

import (
	"fmt"
	"math"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/shopspring/decimal"
)

var maxUnits = decimal.NewFromInt(math.MaxInt64)

// DefaultMarkup margen aplicado sobre el costo de la receta para obtener el precio de venta.
var DefaultMarkup = decimal.RequireFromString("1.25")

// CostedLine línea activa de receta con el costo vigente de su materia prima.
type CostedLine struct {
	RequiredQuantity decimal.Decimal
	UnitCost         decimal.Decimal
}

// RecipeCost Σ cantidad requerida * costo unitario.
func RecipeCost(lines []CostedLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.RequiredQuantity.Mul(l.UnitCost))
	}
	return total
}

// SalePrice precio de venta = round(costo de receta * markup, 2).
func SalePrice(lines []CostedLine, markup decimal.Decimal) decimal.Decimal {
	return RecipeCost(lines).Mul(markup).Round(costScale)
}

// RequiredUnits unidades enteras de materia prima para producir qty productos.
// Las fracciones se redondean hacia arriba para no consumir menos de lo que pide la receta.
// Cantidades no positivas o que no caben en int64 devuelven ErrInvalidQuantity.
func RequiredUnits(required decimal.Decimal, qty int64) (int64, error) {
	if !required.IsPositive() || qty <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	units := required.Mul(decimal.NewFromInt(qty)).Ceil()
	if units.GreaterThan(maxUnits) {
		return 0, fmt.Errorf("%w: %s unidades exceden el máximo", domain.ErrInvalidQuantity, units.String())
	}
	return units.IntPart(), nil
}
