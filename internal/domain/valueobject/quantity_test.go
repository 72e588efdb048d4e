package valueobject_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilo-app/tilo-api/internal/domain"
	"github.com/tilo-app/tilo-api/internal/domain/valueobject"
)

func qty(t *testing.T, v string) valueobject.Quantity {
	t.Helper()
	q, err := valueobject.NewQuantity(decimal.RequireFromString(v))
	require.NoError(t, err)
	return q
}

func TestNewQuantity_NegativaRechazada(t *testing.T) {
	_, err := valueobject.NewQuantity(decimal.NewFromInt(-1))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQuantity_SubHastaCero(t *testing.T) {
	result, err := qty(t, "5").Sub(qty(t, "5"))
	require.NoError(t, err)
	assert.True(t, result.IsZero())
}

func TestQuantity_SubResultadoNegativoRechazado(t *testing.T) {
	_, err := qty(t, "3").Sub(qty(t, "5"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQuantity_Fraccionaria(t *testing.T) {
	// Las cantidades admiten fracciones (ej. productos a granel en kg).
	sum := qty(t, "2.5").Add(qty(t, "0.75"))
	assert.True(t, sum.Value().Equal(decimal.RequireFromString("3.25")))

	result, err := sum.Sub(qty(t, "3.25"))
	require.NoError(t, err)
	assert.True(t, result.IsZero())
}

func TestQuantity_Comparaciones(t *testing.T) {
	assert.True(t, qty(t, "10").GreaterThan(qty(t, "9.99")))
	assert.True(t, qty(t, "1.50").Equal(qty(t, "1.5")))
	assert.True(t, valueobject.ZeroQuantity().IsZero())
}
