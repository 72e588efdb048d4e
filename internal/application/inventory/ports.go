package inventory

import (
	"context"

	"github.com/tilo-app/tilo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de lotes atado a esa tx. Garantiza atomicidad para el recorrido
// FEFO completo: las filas candidatas se bloquean (SELECT FOR UPDATE) dentro
// de la misma transacción, así dos deducciones concurrentes del mismo
// (producto, outlet) se serializan y no hay lost updates.
type TxRunner interface {
	Run(ctx context.Context, fn func(batchRepo repository.BatchLotRepository) error) error
}
