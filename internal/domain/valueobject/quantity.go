package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tilo-app/tilo-api/internal/domain"
)

// Quantity value object inmutable: cantidad de stock decimal no negativa
// (admite fracciones, ej. 2.5 kg). Mismo contrato de inmutabilidad que Money,
// sin concepto de moneda.
type Quantity struct {
	value decimal.Decimal
}

// NewQuantity crea una Quantity validando que el valor no sea negativo.
func NewQuantity(value decimal.Decimal) (Quantity, error) {
	if value.IsNegative() {
		return Quantity{}, fmt.Errorf("cantidad negativa %s: %w", value.String(), domain.ErrInvalidInput)
	}
	return Quantity{value: value}, nil
}

// ZeroQuantity devuelve una cantidad en cero.
func ZeroQuantity() Quantity { return Quantity{value: decimal.Zero} }

// Value devuelve el valor decimal.
func (q Quantity) Value() decimal.Decimal { return q.value }

// Add suma dos cantidades.
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value.Add(other.value)}
}

// Sub resta otra cantidad. Un resultado negativo se rechaza, no se trunca.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	result := q.value.Sub(other.value)
	if result.IsNegative() {
		return Quantity{}, fmt.Errorf("resultado negativo %s: %w", result.String(), domain.ErrInvalidInput)
	}
	return Quantity{value: result}, nil
}

// Mul multiplica por un factor escalar (sin redondeo: las cantidades conservan decimales).
func (q Quantity) Mul(factor decimal.Decimal) Quantity {
	return Quantity{value: q.value.Mul(factor)}
}

// GreaterThan compara cantidades.
func (q Quantity) GreaterThan(other Quantity) bool {
	return q.value.GreaterThan(other.value)
}

// IsZero es true si la cantidad es exactamente cero.
func (q Quantity) IsZero() bool { return q.value.IsZero() }

// Equal compara por valor.
func (q Quantity) Equal(other Quantity) bool {
	return q.value.Equal(other.value)
}
