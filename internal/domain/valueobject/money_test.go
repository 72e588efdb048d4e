package valueobject_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilo-app/tilo-api/internal/domain"
	"github.com/tilo-app/tilo-api/internal/domain/valueobject"
)

func money(t *testing.T, amount int64) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoney(decimal.NewFromInt(amount), "IDR")
	require.NoError(t, err)
	return m
}

func TestNewMoney_MontoValido(t *testing.T) {
	m, err := valueobject.NewMoney(decimal.NewFromInt(15000), "")
	require.NoError(t, err)
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(15000)))
	assert.Equal(t, "IDR", m.Currency(), "moneda vacía debe normalizarse a IDR")
}

func TestNewMoney_MontoNegativoRechazado(t *testing.T) {
	_, err := valueobject.NewMoney(decimal.NewFromInt(-1), "IDR")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Round-trip exacto: a.Add(b).Sub(b) == a para enteros.
func TestMoney_AddSubRoundTrip(t *testing.T) {
	a := money(t, 125000)
	b := money(t, 37500)

	sum, err := a.Add(b)
	require.NoError(t, err)
	back, err := sum.Sub(b)
	require.NoError(t, err)
	assert.True(t, back.Equal(a))
}

func TestMoney_SubResultadoNegativoRechazado(t *testing.T) {
	a := money(t, 1000)
	b := money(t, 2000)
	_, err := a.Sub(b)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Casos frontera de redondeo observados: redondeo a la unidad, mitad lejos de cero.
func TestMoney_MulRedondeo(t *testing.T) {
	factor := decimal.NewFromFloat(0.11)

	assert.True(t, money(t, 10001).Mul(factor).Amount().Equal(decimal.NewFromInt(1100)),
		"10001 * 0.11 = 1100.11 -> 1100")
	assert.True(t, money(t, 50000).Mul(factor).Amount().Equal(decimal.NewFromInt(5500)),
		"50000 * 0.11 = 5500 exacto")
	assert.True(t, money(t, 50005).Mul(factor).Amount().Equal(decimal.NewFromInt(5501)),
		"50005 * 0.11 = 5500.55 -> 5501 (mitad lejos de cero)")
}

func TestMoney_MonedasDistintasRechazadas(t *testing.T) {
	idr := money(t, 5000)
	usd, err := valueobject.NewMoney(decimal.NewFromInt(5000), "USD")
	require.NoError(t, err)

	_, err = idr.Add(usd)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	_, err = idr.Sub(usd)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	_, err = idr.GreaterThan(usd)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	// Sin igualdad entre monedas: mismo monto, distinta moneda -> false, sin error.
	assert.False(t, idr.Equal(usd))
}

func TestMoney_Comparaciones(t *testing.T) {
	a := money(t, 10000)
	b := money(t, 9999)

	gt, err := a.GreaterThan(b)
	require.NoError(t, err)
	assert.True(t, gt)

	lt, err := b.LessThan(a)
	require.NoError(t, err)
	assert.True(t, lt)

	assert.True(t, a.Equal(money(t, 10000)))
}

func TestZeroMoney(t *testing.T) {
	z := valueobject.ZeroMoney("")
	assert.True(t, z.Amount().IsZero())
	assert.Equal(t, "IDR", z.Currency())
}
