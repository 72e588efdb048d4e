package repository

import (
	"time"

	"github.com/tilo-app/tilo-api/internal/domain/entity"
)

// ExpiringBatch resultado crudo del repositorio para el listado de lotes por
// vencer: lote + datos del producto para visualización.
type ExpiringBatch struct {
	Batch       entity.BatchLot
	ProductName string
	SKU         string
}

// BatchLotRepository define el puerto de persistencia para BatchLot (DIP).
// El orden FEFO (expires_at ASC NULLS LAST, received_at ASC) lo garantiza el
// adaptador en la consulta; Delete es estricto y devuelve ErrNotFound si no
// afectó filas.
type BatchLotRepository interface {
	Create(batch *entity.BatchLot) error
	GetByID(id string) (*entity.BatchLot, error)
	Update(batch *entity.BatchLot) error
	Delete(id string) error

	// ListByProduct devuelve todos los lotes del par en orden FEFO, sin filtrar por estado.
	ListByProduct(productID, outletID string) ([]*entity.BatchLot, error)
	// ListActive filtra a status = active y quantity > 0, mismo orden.
	ListActive(productID, outletID string) ([]*entity.BatchLot, error)
	// ListActiveForUpdate igual que ListActive pero bloquea las filas
	// (SELECT FOR UPDATE). Solo tiene sentido dentro de una transacción.
	ListActiveForUpdate(productID, outletID string) ([]*entity.BatchLot, error)

	// ListExpiring lotes activos con stock y vencimiento en (now, until], con
	// datos de producto. Un lote ya vencido no es "por vencer": pertenece a
	// ListExpiredActive.
	ListExpiring(outletID string, now, until time.Time) ([]ExpiringBatch, error)
	// ListExpiredActive lotes aún active con stock y vencimiento estrictamente pasado.
	ListExpiredActive(outletID string, now time.Time) ([]*entity.BatchLot, error)
	// MarkExpired transición masiva active+vencido -> expired en un solo UPDATE.
	// Idempotente: una segunda corrida sin nuevos vencimientos afecta 0 filas.
	MarkExpired(now time.Time) (int64, error)
}
