package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tilo-app/tilo-api/internal/application/inventory"
	"github.com/tilo-app/tilo-api/internal/application/pricing"
	"github.com/tilo-app/tilo-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and pricing.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ pricing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con el repo de lotes atado a la tx y
// hace Commit o Rollback. Los bloqueos FOR UPDATE que tome fn viven hasta el
// cierre de la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(batchRepo repository.BatchLotRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewBatchLotRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunTiers ejecuta fn con el repo de tiers atado a una transacción
// (reemplazo masivo delete + insert como unidad).
func (r *TxRunner) RunTiers(ctx context.Context, fn func(tierRepo repository.PriceTierRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewPriceTierRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
