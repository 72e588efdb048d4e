package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceTier representa una regla de precio por volumen para un producto:
// por encima de MinQuantity aplica Price en lugar del precio base.
type PriceTier struct {
	ID              string
	ProductID       string
	TierName        string
	MinQuantity     decimal.Decimal
	MaxQuantity     *decimal.Decimal // nil = sin tope superior
	Price           decimal.Decimal
	DiscountPercent *decimal.Decimal // informativo; opcional
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidRange verifica que el rango de cantidades esté bien formado:
// MinQuantity >= 0 y, si hay tope, MaxQuantity >= MinQuantity.
func (t *PriceTier) ValidRange() bool {
	if t.MinQuantity.IsNegative() {
		return false
	}
	if t.MaxQuantity != nil && t.MaxQuantity.LessThan(t.MinQuantity) {
		return false
	}
	return true
}

// Matches es true si qty cae dentro del rango del tier (ambas fronteras inclusivas).
func (t *PriceTier) Matches(qty decimal.Decimal) bool {
	if qty.LessThan(t.MinQuantity) {
		return false
	}
	if t.MaxQuantity != nil && qty.GreaterThan(*t.MaxQuantity) {
		return false
	}
	return true
}
