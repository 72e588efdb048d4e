package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tilo-app/tilo-api/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency moneda por defecto del sistema (rupia indonesia, sin subunidades).
const DefaultCurrency = "IDR"

// Money value object inmutable: monto decimal no negativo + código de moneda.
// Toda operación devuelve una instancia nueva; nunca se muta el receptor.
// Las operaciones entre dos Money exigen la misma moneda.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney crea un Money validando que el monto no sea negativo.
// currency vacío se normaliza a DefaultCurrency.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("monto negativo %s: %w", amount.String(), domain.ErrInvalidInput)
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: amount, currency: currency}, nil
}

// ZeroMoney devuelve un Money en cero para la moneda indicada.
func ZeroMoney(currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount devuelve el monto decimal.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency devuelve el código de moneda.
func (m Money) Currency() string { return m.currency }

// Add suma dos montos de la misma moneda.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Sub resta otro monto. Un resultado negativo se rechaza, no se trunca a cero.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, fmt.Errorf("resultado negativo %s: %w", result.String(), domain.ErrInvalidInput)
	}
	return Money{amount: result, currency: m.currency}, nil
}

// Mul multiplica por un factor escalar y redondea a la unidad entera
// (mitad lejos de cero: 1100.11 -> 1100, 5500.5 -> 5501). IDR no tiene subunidades.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor).Round(0), currency: m.currency}
}

// GreaterThan compara montos; falla si las monedas difieren.
func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.sameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.GreaterThan(other.amount), nil
}

// LessThan compara montos; falla si las monedas difieren.
func (m Money) LessThan(other Money) (bool, error) {
	if err := m.sameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.LessThan(other.amount), nil
}

// Equal es true solo si monto y moneda coinciden. No hay igualdad entre monedas distintas.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// Display formatea el monto con separadores de miles para recibos/respuestas
// (ej. "IDR 1.500.000" con locale indonesio).
func (m Money) Display() string {
	p := message.NewPrinter(language.Indonesian)
	return p.Sprintf("%s %v", m.currency, number.Decimal(m.amount.InexactFloat64(), number.MaxFractionDigits(2)))
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%s vs %s: %w", m.currency, other.currency, domain.ErrCurrencyMismatch)
	}
	return nil
}
