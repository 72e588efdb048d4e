package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tilo-app/tilo-api/internal/domain"
	"github.com/tilo-app/tilo-api/internal/domain/entity"
	"github.com/tilo-app/tilo-api/internal/domain/repository"
)

var _ repository.BatchLotRepository = (*BatchLotRepo)(nil)

// Orden FEFO en SQL: vencimiento ascendente con nulos al final, recepción
// ascendente como desempate. Debe coincidir con inventory.Before.
const fefoOrder = "ORDER BY expires_at ASC NULLS LAST, received_at ASC"

const batchColumns = `id, product_id, outlet_id, batch_number, quantity, cost_price,
		manufactured_at, expires_at, received_at, notes, status, created_at, updated_at`

// BatchLotRepo implementación de BatchLotRepository sobre PostgreSQL (usable con pool o tx).
type BatchLotRepo struct {
	q Querier
}

// NewBatchLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchLotRepository(q Querier) *BatchLotRepo {
	return &BatchLotRepo{q: q}
}

// Create persiste un lote nuevo.
func (r *BatchLotRepo) Create(batch *entity.BatchLot) error {
	query := `
		INSERT INTO batch_lots (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.ProductID, batch.OutletID, batch.BatchNumber, batch.Quantity,
		batch.CostPrice, batch.ManufacturedAt, batch.ExpiresAt, batch.ReceivedAt,
		batch.Notes, batch.Status, batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert batch lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID; nil si no existe.
func (r *BatchLotRepo) GetByID(id string) (*entity.BatchLot, error) {
	query := `SELECT ` + batchColumns + ` FROM batch_lots WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch lot: %w", err)
	}
	return b, nil
}

// Update persiste todos los campos mutables del lote.
func (r *BatchLotRepo) Update(batch *entity.BatchLot) error {
	query := `
		UPDATE batch_lots
		SET batch_number = $2, quantity = $3, cost_price = $4, manufactured_at = $5,
		    expires_at = $6, notes = $7, status = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.BatchNumber, batch.Quantity, batch.CostPrice, batch.ManufacturedAt,
		batch.ExpiresAt, batch.Notes, batch.Status, batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update batch lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lote %s: %w", batch.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete elimina el lote (hard delete). Estricto: ErrNotFound si no afectó filas.
func (r *BatchLotRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM batch_lots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete batch lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lote %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListByProduct todos los lotes del par, orden FEFO, sin filtro de estado.
func (r *BatchLotRepo) ListByProduct(productID, outletID string) ([]*entity.BatchLot, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batch_lots
		WHERE product_id = $1 AND outlet_id = $2 ` + fefoOrder
	return r.list(query, productID, outletID)
}

// ListActive lotes consumibles del par, orden FEFO.
func (r *BatchLotRepo) ListActive(productID, outletID string) ([]*entity.BatchLot, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batch_lots
		WHERE product_id = $1 AND outlet_id = $2 AND status = 'active' AND quantity > 0 ` + fefoOrder
	return r.list(query, productID, outletID)
}

// ListActiveForUpdate igual que ListActive con bloqueo de fila (SELECT FOR UPDATE).
// Solo tiene sentido con un Querier transaccional: los locks viven hasta el commit.
func (r *BatchLotRepo) ListActiveForUpdate(productID, outletID string) ([]*entity.BatchLot, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batch_lots
		WHERE product_id = $1 AND outlet_id = $2 AND status = 'active' AND quantity > 0 ` + fefoOrder + `
		FOR UPDATE`
	return r.list(query, productID, outletID)
}

// ListExpiring lotes activos con stock y vencimiento en (now, until], con
// nombre y SKU del producto. La cota inferior excluye lo ya vencido: eso lo
// reporta ListExpiredActive.
func (r *BatchLotRepo) ListExpiring(outletID string, now, until time.Time) ([]repository.ExpiringBatch, error) {
	query := `
		SELECT b.id, b.product_id, b.outlet_id, b.batch_number, b.quantity, b.cost_price,
		       b.manufactured_at, b.expires_at, b.received_at, b.notes, b.status,
		       b.created_at, b.updated_at, p.name, p.sku
		FROM batch_lots b
		JOIN products p ON p.id = b.product_id
		WHERE b.outlet_id = $1 AND b.status = 'active' AND b.quantity > 0
		  AND b.expires_at IS NOT NULL AND b.expires_at > $2 AND b.expires_at <= $3
		ORDER BY b.expires_at ASC, b.received_at ASC`
	rows, err := r.q.Query(context.Background(), query, outletID, now, until)
	if err != nil {
		return nil, fmt.Errorf("list expiring batches: %w", err)
	}
	defer rows.Close()
	var list []repository.ExpiringBatch
	for rows.Next() {
		var b entity.BatchLot
		var item repository.ExpiringBatch
		if err := rows.Scan(
			&b.ID, &b.ProductID, &b.OutletID, &b.BatchNumber, &b.Quantity, &b.CostPrice,
			&b.ManufacturedAt, &b.ExpiresAt, &b.ReceivedAt, &b.Notes, &b.Status,
			&b.CreatedAt, &b.UpdatedAt, &item.ProductName, &item.SKU,
		); err != nil {
			return nil, fmt.Errorf("scan expiring batch: %w", err)
		}
		item.Batch = b
		list = append(list, item)
	}
	return list, rows.Err()
}

// ListExpiredActive lotes aún active con stock y vencimiento estrictamente pasado.
func (r *BatchLotRepo) ListExpiredActive(outletID string, now time.Time) ([]*entity.BatchLot, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batch_lots
		WHERE outlet_id = $1 AND status = 'active' AND quantity > 0
		  AND expires_at IS NOT NULL AND expires_at < $2
		ORDER BY expires_at ASC, received_at ASC`
	return r.list(query, outletID, now)
}

// MarkExpired transición masiva active+vencido -> expired. Un solo UPDATE:
// atómico a nivel de store e idempotente.
func (r *BatchLotRepo) MarkExpired(now time.Time) (int64, error) {
	query := `
		UPDATE batch_lots
		SET status = 'expired', updated_at = $1
		WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at < $1`
	tag, err := r.q.Exec(context.Background(), query, now)
	if err != nil {
		return 0, fmt.Errorf("mark expired batches: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *BatchLotRepo) list(query string, args ...any) ([]*entity.BatchLot, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batch lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.BatchLot
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch lot: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.BatchLot, error) {
	var b entity.BatchLot
	err := row.Scan(
		&b.ID, &b.ProductID, &b.OutletID, &b.BatchNumber, &b.Quantity, &b.CostPrice,
		&b.ManufacturedAt, &b.ExpiresAt, &b.ReceivedAt, &b.Notes, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
