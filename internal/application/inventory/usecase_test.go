package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilo-app/tilo-api/internal/application/dto"
	appinv "github.com/tilo-app/tilo-api/internal/application/inventory"
	"github.com/tilo-app/tilo-api/internal/domain"
	"github.com/tilo-app/tilo-api/internal/domain/entity"
	dominv "github.com/tilo-app/tilo-api/internal/domain/inventory"
	"github.com/tilo-app/tilo-api/internal/domain/repository"
	"github.com/tilo-app/tilo-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeBatchRepo struct {
	mu      sync.Mutex
	batches map[string]*entity.BatchLot
}

func newFakeBatchRepo(batches ...*entity.BatchLot) *fakeBatchRepo {
	r := &fakeBatchRepo{batches: make(map[string]*entity.BatchLot)}
	for _, b := range batches {
		r.batches[b.ID] = b
	}
	return r
}

func (r *fakeBatchRepo) Create(b *entity.BatchLot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[b.ID] = b
	return nil
}

func (r *fakeBatchRepo) GetByID(id string) (*entity.BatchLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches[id], nil
}

func (r *fakeBatchRepo) Update(b *entity.BatchLot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.batches[b.ID]; !ok {
		return domain.ErrNotFound
	}
	r.batches[b.ID] = b
	return nil
}

func (r *fakeBatchRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.batches[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.batches, id)
	return nil
}

func (r *fakeBatchRepo) ListByProduct(productID, outletID string) ([]*entity.BatchLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.BatchLot
	for _, b := range r.batches {
		if b.ProductID == productID && b.OutletID == outletID {
			out = append(out, b)
		}
	}
	dominv.SortFEFO(out)
	return out, nil
}

func (r *fakeBatchRepo) ListActive(productID, outletID string) ([]*entity.BatchLot, error) {
	all, _ := r.ListByProduct(productID, outletID)
	var out []*entity.BatchLot
	for _, b := range all {
		if b.Status == entity.BatchStatusActive && b.Quantity.GreaterThan(decimal.Zero) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) ListActiveForUpdate(productID, outletID string) ([]*entity.BatchLot, error) {
	return r.ListActive(productID, outletID)
}

func (r *fakeBatchRepo) ListExpiring(outletID string, now, until time.Time) ([]repository.ExpiringBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.ExpiringBatch
	for _, b := range r.batches {
		if b.OutletID != outletID || b.Status != entity.BatchStatusActive || !b.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		if b.ExpiresAt != nil && b.ExpiresAt.After(now) && !b.ExpiresAt.After(until) {
			out = append(out, repository.ExpiringBatch{Batch: *b, ProductName: "Producto", SKU: "SKU-1"})
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) ListExpiredActive(outletID string, now time.Time) ([]*entity.BatchLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.BatchLot
	for _, b := range r.batches {
		if b.OutletID == outletID && b.Status == entity.BatchStatusActive &&
			b.Quantity.GreaterThan(decimal.Zero) && b.IsExpired(now) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) MarkExpired(now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, b := range r.batches {
		if b.Status == entity.BatchStatusActive && b.IsExpired(now) {
			b.Status = entity.BatchStatusExpired
			count++
		}
	}
	return count, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProductRepo) Update(*entity.Product) error { return nil }
func (r *fakeProductRepo) List(int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) Delete(string) error { return nil }

type fakeOutletRepo struct {
	outlets map[string]*entity.Outlet
}

func (r *fakeOutletRepo) Create(o *entity.Outlet) error { r.outlets[o.ID] = o; return nil }
func (r *fakeOutletRepo) GetByID(id string) (*entity.Outlet, error) {
	return r.outlets[id], nil
}
func (r *fakeOutletRepo) Update(*entity.Outlet) error { return nil }
func (r *fakeOutletRepo) List(int, int) ([]*entity.Outlet, error) {
	return nil, nil
}
func (r *fakeOutletRepo) Delete(string) error { return nil }

// fakeTxRunner ejecuta el fn directamente contra el repo en memoria: los tests
// del caso de uso no necesitan una transacción real.
type fakeTxRunner struct {
	batchRepo repository.BatchLotRepository
}

func (tr *fakeTxRunner) Run(_ context.Context, fn func(repository.BatchLotRepository) error) error {
	return fn(tr.batchRepo)
}

// capturingPublisher acumula los eventos publicados.
type capturingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Key  string
	Type string
}

func (p *capturingPublisher) Publish(_ context.Context, key, eventType string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Key: key, Type: eventType})
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func (p *capturingPublisher) byType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	productID = "prod-1"
	outletID  = "out-1"
)

func activeBatch(id string, qty int64, expiresAt *time.Time, receivedAt time.Time) *entity.BatchLot {
	return &entity.BatchLot{
		ID:          id,
		ProductID:   productID,
		OutletID:    outletID,
		BatchNumber: "LOT-" + id,
		Quantity:    decimal.NewFromInt(qty),
		ExpiresAt:   expiresAt,
		ReceivedAt:  receivedAt,
		Status:      entity.BatchStatusActive,
	}
}

func days(n int) *time.Time {
	t := time.Now().AddDate(0, 0, n)
	return &t
}

func buildUseCase(batchRepo *fakeBatchRepo, pub *capturingPublisher) *appinv.BatchTrackingUseCase {
	productRepo := &fakeProductRepo{products: map[string]*entity.Product{
		productID: {ID: productID, SKU: "SKU-1", Name: "Producto", BasePrice: decimal.NewFromInt(10000), Currency: "IDR"},
	}}
	outletRepo := &fakeOutletRepo{outlets: map[string]*entity.Outlet{
		outletID: {ID: outletID, Name: "Sucursal Centro"},
	}}
	return appinv.NewBatchTrackingUseCase(
		&fakeTxRunner{batchRepo: batchRepo}, batchRepo, productRepo, outletRepo,
		pub, logger.Nop(), 7,
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Create / Update
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CantidadNegativa_Rechazada(t *testing.T) {
	uc := buildUseCase(newFakeBatchRepo(), &capturingPublisher{})

	_, err := uc.Create(dto.CreateBatchRequest{
		ProductID: productID,
		OutletID:  outletID,
		Quantity:  decimal.NewFromInt(-5),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ProductoInexistente_Retorna404(t *testing.T) {
	uc := buildUseCase(newFakeBatchRepo(), &capturingPublisher{})

	_, err := uc.Create(dto.CreateBatchRequest{
		ProductID: "no-existe",
		OutletID:  outletID,
		Quantity:  decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_LoteValido_QuedaActivo(t *testing.T) {
	repo := newFakeBatchRepo()
	uc := buildUseCase(repo, &capturingPublisher{})

	resp, err := uc.Create(dto.CreateBatchRequest{
		ProductID:   productID,
		OutletID:    outletID,
		BatchNumber: "LOT-001",
		Quantity:    decimal.NewFromInt(12),
		ExpiresAt:   days(30),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusActive, resp.Status)
	assert.True(t, resp.Quantity.Equal(decimal.NewFromInt(12)))
	assert.False(t, resp.ReceivedAt.IsZero())
}

func TestUpdate_ExpiresAtTresEstados(t *testing.T) {
	exp := days(10)
	repo := newFakeBatchRepo(activeBatch("b1", 5, exp, time.Now()))
	uc := buildUseCase(repo, &capturingPublisher{})

	// Omitido: el vencimiento no cambia.
	notes := "reconteo"
	resp, err := uc.Update("b1", dto.UpdateBatchRequest{Notes: &notes})
	require.NoError(t, err)
	require.NotNil(t, resp.ExpiresAt)

	// Fecha RFC3339: lo fija.
	newExp := time.Now().AddDate(0, 1, 0).UTC().Format(time.RFC3339)
	resp, err = uc.Update("b1", dto.UpdateBatchRequest{ExpiresAt: &newExp})
	require.NoError(t, err)
	require.NotNil(t, resp.ExpiresAt)

	// Cadena vacía: lo limpia.
	empty := ""
	resp, err = uc.Update("b1", dto.UpdateBatchRequest{ExpiresAt: &empty})
	require.NoError(t, err)
	assert.Nil(t, resp.ExpiresAt)
}

func TestUpdate_StatusInvalido_Rechazado(t *testing.T) {
	repo := newFakeBatchRepo(activeBatch("b1", 5, nil, time.Now()))
	uc := buildUseCase(repo, &capturingPublisher{})

	bad := "congelado"
	_, err := uc.Update("b1", dto.UpdateBatchRequest{Status: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests DeductFIFO
// ──────────────────────────────────────────────────────────────────────────────

// Tres lotes: vence primero B1 (qty 2), luego B2 (qty 3), B3 sin vencimiento
// (qty 10). Deducir 7 debe consumir 2 + 3 + 2 y dejar B3 con 8.
func TestDeductFIFO_ConsumeEnOrdenDeVencimiento(t *testing.T) {
	now := time.Now()
	repo := newFakeBatchRepo(
		activeBatch("b3", 10, nil, now.Add(-3*time.Hour)),
		activeBatch("b1", 2, days(1), now.Add(-1*time.Hour)),
		activeBatch("b2", 3, days(3), now.Add(-2*time.Hour)),
	)
	pub := &capturingPublisher{}
	uc := buildUseCase(repo, pub)

	resp, err := uc.DeductFIFO(context.Background(), productID, outletID, decimal.NewFromInt(7))
	require.NoError(t, err)

	assert.True(t, resp.Deducted.Equal(decimal.NewFromInt(7)))
	assert.True(t, resp.Shortfall.IsZero())
	require.Len(t, resp.Batches, 3)

	assert.Equal(t, "b1", resp.Batches[0].BatchID)
	assert.True(t, resp.Batches[0].Deducted.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "b2", resp.Batches[1].BatchID)
	assert.True(t, resp.Batches[1].Deducted.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, "b3", resp.Batches[2].BatchID)
	assert.True(t, resp.Batches[2].Deducted.Equal(decimal.NewFromInt(2)))
	assert.True(t, resp.Batches[2].Remaining.Equal(decimal.NewFromInt(8)))

	// B1 y B2 quedaron agotados; B3 sigue activo.
	b1, _ := repo.GetByID("b1")
	b2, _ := repo.GetByID("b2")
	b3, _ := repo.GetByID("b3")
	assert.Equal(t, entity.BatchStatusDepleted, b1.Status)
	assert.Equal(t, entity.BatchStatusDepleted, b2.Status)
	assert.Equal(t, entity.BatchStatusActive, b3.Status)

	// Eventos: un StockDeducted y dos BatchDepleted.
	assert.Len(t, pub.byType("inventory.stock_deducted"), 1)
	assert.Len(t, pub.byType("inventory.batch_depleted"), 2)
}

// El faltante no es un error: la respuesta reporta deducted < requested.
func TestDeductFIFO_StockInsuficiente_ReportaFaltante(t *testing.T) {
	repo := newFakeBatchRepo(activeBatch("b1", 4, days(2), time.Now()))
	uc := buildUseCase(repo, &capturingPublisher{})

	resp, err := uc.DeductFIFO(context.Background(), productID, outletID, decimal.NewFromInt(10))
	require.NoError(t, err)

	assert.True(t, resp.Requested.Equal(decimal.NewFromInt(10)))
	assert.True(t, resp.Deducted.Equal(decimal.NewFromInt(4)))
	assert.True(t, resp.Shortfall.Equal(decimal.NewFromInt(6)))
}

func TestDeductFIFO_CantidadInvalida_Rechazada(t *testing.T) {
	uc := buildUseCase(newFakeBatchRepo(), &capturingPublisher{})

	_, err := uc.DeductFIFO(context.Background(), productID, outletID, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.DeductFIFO(context.Background(), productID, outletID, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Cantidades fraccionarias (productos a granel).
func TestDeductFIFO_CantidadesFraccionarias(t *testing.T) {
	repo := newFakeBatchRepo(activeBatch("b1", 5, days(2), time.Now()))
	uc := buildUseCase(repo, &capturingPublisher{})

	resp, err := uc.DeductFIFO(context.Background(), productID, outletID, decimal.RequireFromString("2.5"))
	require.NoError(t, err)
	assert.True(t, resp.Deducted.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, resp.Batches[0].Remaining.Equal(decimal.RequireFromString("2.5")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests vencimientos y resumen
// ──────────────────────────────────────────────────────────────────────────────

func TestGetExpiringBatches_UsaVentanaConfigurada(t *testing.T) {
	repo := newFakeBatchRepo(
		activeBatch("pronto", 5, days(3), time.Now()),
		activeBatch("lejano", 5, days(30), time.Now()),
		activeBatch("sinVencimiento", 5, nil, time.Now()),
	)
	uc := buildUseCase(repo, &capturingPublisher{})

	// daysAhead <= 0 cae a la ventana configurada (7 días).
	rows, err := uc.GetExpiringBatches(outletID, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "pronto", rows[0].ID)
	assert.Equal(t, "Producto", rows[0].ProductName)

	// Ventana explícita más amplia.
	rows, err = uc.GetExpiringBatches(outletID, 60)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

// Un lote vencido que el barrido aún no marcó aparece en el listado de
// vencidos pero nunca en el de "por vencer": las dos vistas son disjuntas.
func TestGetExpiringBatches_ExcluyeLotesYaVencidos(t *testing.T) {
	repo := newFakeBatchRepo(
		activeBatch("pasado", 5, days(-1), time.Now().AddDate(0, 0, -10)),
		activeBatch("pronto", 5, days(3), time.Now()),
	)
	uc := buildUseCase(repo, &capturingPublisher{})

	expiring, err := uc.GetExpiringBatches(outletID, 7)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "pronto", expiring[0].ID)

	expired, err := uc.GetExpiredBatches(outletID)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "pasado", expired[0].ID)
}

func TestGetExpiredBatches_SoloVencidosActivos(t *testing.T) {
	repo := newFakeBatchRepo(
		activeBatch("vencido", 5, days(-1), time.Now().AddDate(0, 0, -10)),
		activeBatch("vigente", 5, days(5), time.Now()),
	)
	uc := buildUseCase(repo, &capturingPublisher{})

	rows, err := uc.GetExpiredBatches(outletID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "vencido", rows[0].ID)
}

func TestGetBatchSummary_Conteos(t *testing.T) {
	repo := newFakeBatchRepo(
		activeBatch("a", 10, days(3), time.Now()),
		activeBatch("b", 5, days(30), time.Now()),
		activeBatch("c", 2, days(-1), time.Now().AddDate(0, 0, -10)),
	)
	uc := buildUseCase(repo, &capturingPublisher{})

	s, err := uc.GetBatchSummary(productID, outletID)
	require.NoError(t, err)

	// El total suma lotes en estado active, incluido el vencido aún no barrido.
	assert.True(t, s.TotalQuantity.Equal(decimal.NewFromInt(17)))
	assert.Equal(t, 3, s.ActiveBatches)
	assert.Equal(t, 1, s.ExpiredBatches)
	assert.Equal(t, 1, s.ExpiringWithinDays)
	assert.Equal(t, 7, s.WindowDays)
	assert.Len(t, s.Batches, 3)
}
