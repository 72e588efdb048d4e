package pricing_test

import (
	"context"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilo-app/tilo-api/internal/application/dto"
	"github.com/tilo-app/tilo-api/internal/application/pricing"
	"github.com/tilo-app/tilo-api/internal/domain"
	"github.com/tilo-app/tilo-api/internal/domain/entity"
	"github.com/tilo-app/tilo-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeTierRepo struct {
	tiers map[string]*entity.PriceTier
}

func newFakeTierRepo(tiers ...*entity.PriceTier) *fakeTierRepo {
	r := &fakeTierRepo{tiers: make(map[string]*entity.PriceTier)}
	for _, t := range tiers {
		r.tiers[t.ID] = t
	}
	return r
}

func (r *fakeTierRepo) Create(t *entity.PriceTier) error {
	r.tiers[t.ID] = t
	return nil
}

func (r *fakeTierRepo) GetByID(id string) (*entity.PriceTier, error) {
	return r.tiers[id], nil
}

func (r *fakeTierRepo) Update(t *entity.PriceTier) error {
	if _, ok := r.tiers[t.ID]; !ok {
		return domain.ErrNotFound
	}
	r.tiers[t.ID] = t
	return nil
}

func (r *fakeTierRepo) Delete(id string) error {
	if _, ok := r.tiers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tiers, id)
	return nil
}

func (r *fakeTierRepo) DeleteByProduct(productID string) error {
	for id, t := range r.tiers {
		if t.ProductID == productID {
			delete(r.tiers, id)
		}
	}
	return nil
}

func (r *fakeTierRepo) ListByProduct(productID string) ([]*entity.PriceTier, error) {
	var out []*entity.PriceTier
	for _, t := range r.tiers {
		if t.ProductID == productID && t.IsActive {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MinQuantity.LessThan(out[j].MinQuantity)
	})
	return out, nil
}

// FindBestTier replica la consulta del adaptador: mayor min_quantity <= qty,
// desempate por id ascendente.
func (r *fakeTierRepo) FindBestTier(productID string, qty decimal.Decimal) (*entity.PriceTier, error) {
	var best *entity.PriceTier
	for _, t := range r.tiers {
		if t.ProductID != productID || !t.IsActive || t.MinQuantity.GreaterThan(qty) {
			continue
		}
		switch {
		case best == nil:
			best = t
		case t.MinQuantity.GreaterThan(best.MinQuantity):
			best = t
		case t.MinQuantity.Equal(best.MinQuantity) && t.ID < best.ID:
			best = t
		}
	}
	return best, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *fakeProductRepo) GetBySKU(string) (*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) Update(*entity.Product) error             { return nil }
func (r *fakeProductRepo) List(int, int) ([]*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) Delete(string) error                      { return nil }

type fakeTxRunner struct {
	tierRepo repository.PriceTierRepository
}

func (tr *fakeTxRunner) RunTiers(_ context.Context, fn func(repository.PriceTierRepository) error) error {
	return fn(tr.tierRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const productID = "prod-1"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func tier(id, name string, min string, max *decimal.Decimal, price string) *entity.PriceTier {
	return &entity.PriceTier{
		ID:          id,
		ProductID:   productID,
		TierName:    name,
		MinQuantity: dec(min),
		MaxQuantity: max,
		Price:       dec(price),
		IsActive:    true,
	}
}

func buildUseCase(tierRepo *fakeTierRepo) *pricing.PriceTierUseCase {
	productRepo := &fakeProductRepo{products: map[string]*entity.Product{
		productID: {ID: productID, SKU: "SKU-1", Name: "Producto", BasePrice: dec("10000"), Currency: "IDR"},
	}}
	return pricing.NewPriceTierUseCase(&fakeTxRunner{tierRepo: tierRepo}, tierRepo, productRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ResolvePrice
// ──────────────────────────────────────────────────────────────────────────────

// Tiers [min 5, max 9] → P1 y [min 10, sin tope] → P2. Las fronteras son
// inclusivas en ambos extremos.
func TestResolvePrice_Fronteras(t *testing.T) {
	repo := newFakeTierRepo(
		tier("t1", "Mayorista chico", "5", decPtr("9"), "9000"),
		tier("t2", "Mayorista grande", "10", nil, "8000"),
	)
	uc := buildUseCase(repo)

	cases := []struct {
		qty      string
		price    string
		tierName string
	}{
		{"4", "10000", ""}, // por debajo de todo tier: precio base
		{"5", "9000", "Mayorista chico"},
		{"9", "9000", "Mayorista chico"}, // tope inclusivo
		{"10", "8000", "Mayorista grande"},
		{"15", "8000", "Mayorista grande"},
	}
	for _, tc := range cases {
		resp, err := uc.ResolvePrice(productID, dec(tc.qty))
		require.NoError(t, err, "qty %s", tc.qty)
		assert.True(t, resp.UnitPrice.Equal(dec(tc.price)), "qty %s: esperaba %s, obtuvo %s", tc.qty, tc.price, resp.UnitPrice)
		assert.Equal(t, tc.tierName, resp.TierName, "qty %s", tc.qty)
	}
}

// Un tier con tope puede dejar un "hueco": qty dentro del hueco cae al precio base.
func TestResolvePrice_HuecoEntreTiers_CaeAPrecioBase(t *testing.T) {
	repo := newFakeTierRepo(
		tier("t1", "Promo", "5", decPtr("9"), "9000"),
		tier("t2", "Mayorista", "20", nil, "8000"),
	)
	uc := buildUseCase(repo)

	// qty 12: el mejor candidato por min_quantity es t1 (min 5), pero su tope
	// (9) no admite 12; el resolutor cae al precio base.
	resp, err := uc.ResolvePrice(productID, dec("12"))
	require.NoError(t, err)
	assert.True(t, resp.UnitPrice.Equal(dec("10000")))
	assert.Empty(t, resp.TierName)
	assert.True(t, resp.Savings.IsZero())
}

func TestResolvePrice_SinTiers_PrecioBase(t *testing.T) {
	uc := buildUseCase(newFakeTierRepo())

	resp, err := uc.ResolvePrice(productID, dec("3"))
	require.NoError(t, err)
	assert.True(t, resp.UnitPrice.Equal(dec("10000")))
	assert.True(t, resp.OriginalPrice.Equal(dec("10000")))
	assert.True(t, resp.Savings.IsZero())
	assert.True(t, resp.SavingsPercent.IsZero())
	assert.NotEmpty(t, resp.Display)
}

func TestResolvePrice_CalculaAhorro(t *testing.T) {
	repo := newFakeTierRepo(tier("t1", "Mayorista", "10", nil, "7500"))
	uc := buildUseCase(repo)

	resp, err := uc.ResolvePrice(productID, dec("10"))
	require.NoError(t, err)
	assert.True(t, resp.Savings.Equal(dec("2500")))
	assert.True(t, resp.SavingsPercent.Equal(dec("25")))
}

// Un tier por encima del precio base (recargo) produce ahorro negativo, no error.
func TestResolvePrice_AhorroNegativo(t *testing.T) {
	repo := newFakeTierRepo(tier("t1", "Recargo", "1", nil, "11000"))
	uc := buildUseCase(repo)

	resp, err := uc.ResolvePrice(productID, dec("2"))
	require.NoError(t, err)
	assert.True(t, resp.Savings.Equal(dec("-1000")))
	assert.True(t, resp.Savings.IsNegative())
}

func TestResolvePrice_CantidadNegativa_Rechazada(t *testing.T) {
	uc := buildUseCase(newFakeTierRepo())

	_, err := uc.ResolvePrice(productID, dec("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResolvePrice_ProductoInexistente_Retorna404(t *testing.T) {
	uc := buildUseCase(newFakeTierRepo())

	_, err := uc.ResolvePrice("no-existe", dec("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Create / Update / BulkReplace
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_RangoInvertido_Rechazado(t *testing.T) {
	uc := buildUseCase(newFakeTierRepo())

	_, err := uc.Create(productID, dto.CreateTierRequest{
		TierName:    "Roto",
		MinQuantity: dec("10"),
		MaxQuantity: decPtr("5"),
		Price:       dec("9000"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_PrecioNegativo_Rechazado(t *testing.T) {
	uc := buildUseCase(newFakeTierRepo())

	_, err := uc.Create(productID, dto.CreateTierRequest{
		TierName:    "Roto",
		MinQuantity: dec("1"),
		Price:       dec("-100"),
	})
	assert.Error(t, err)
}

func TestUpdate_RevalidaElRangoCompleto(t *testing.T) {
	repo := newFakeTierRepo(tier("t1", "Mayorista", "5", decPtr("9"), "9000"))
	uc := buildUseCase(repo)

	// Subir min_quantity por encima del tope existente rompe el rango.
	_, err := uc.Update("t1", dto.UpdateTierRequest{MinQuantity: decPtr("20")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cambio consistente pasa.
	resp, err := uc.Update("t1", dto.UpdateTierRequest{Price: decPtr("8500")})
	require.NoError(t, err)
	assert.True(t, resp.Price.Equal(dec("8500")))
}

func TestBulkReplace_ReemplazaElSetCompleto(t *testing.T) {
	repo := newFakeTierRepo(
		tier("viejo1", "Viejo A", "5", nil, "9500"),
		tier("viejo2", "Viejo B", "10", nil, "9000"),
	)
	uc := buildUseCase(repo)

	out, err := uc.BulkReplace(context.Background(), productID, dto.BulkReplaceTiersRequest{
		Tiers: []dto.CreateTierRequest{
			{TierName: "Nuevo", MinQuantity: dec("3"), Price: dec("9800")},
		},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Nuevo", out[0].TierName)

	listed, err := uc.ListByProduct(productID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Nuevo", listed[0].TierName)
}

// Un array vacío deja al producto sin tiers (el reemplazo es literal).
func TestBulkReplace_SetVacio_EliminaTodo(t *testing.T) {
	repo := newFakeTierRepo(tier("t1", "Mayorista", "5", nil, "9000"))
	uc := buildUseCase(repo)

	out, err := uc.BulkReplace(context.Background(), productID, dto.BulkReplaceTiersRequest{})
	require.NoError(t, err)
	assert.Empty(t, out)

	listed, err := uc.ListByProduct(productID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

// Si algún tier del set es inválido no se toca nada: validación antes de BD.
func TestBulkReplace_SetInvalido_NoTocaNada(t *testing.T) {
	repo := newFakeTierRepo(tier("t1", "Vigente", "5", nil, "9000"))
	uc := buildUseCase(repo)

	_, err := uc.BulkReplace(context.Background(), productID, dto.BulkReplaceTiersRequest{
		Tiers: []dto.CreateTierRequest{
			{TierName: "OK", MinQuantity: dec("1"), Price: dec("9500")},
			{TierName: "Roto", MinQuantity: dec("10"), MaxQuantity: decPtr("2"), Price: dec("9000")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	listed, err := uc.ListByProduct(productID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Vigente", listed[0].TierName)
}
