package event

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento publicados tras confirmar una transición de estado.
// Los consumidores aguas abajo (KDS, fan-out WebSocket, notificaciones) se
// desacoplan vía mensajería: un fallo al publicar nunca revierte la mutación.
const (
	TypeStockDeducted  = "inventory.stock_deducted"
	TypeBatchDepleted  = "inventory.batch_depleted"
	TypeBatchesExpired = "inventory.batches_expired"
)

// BatchDeduction detalle por lote dentro de un StockDeducted.
type BatchDeduction struct {
	BatchID     string          `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	Deducted    decimal.Decimal `json:"deducted"`
	Remaining   decimal.Decimal `json:"remaining"`
}

// StockDeducted se emite al confirmar una deducción FEFO.
type StockDeducted struct {
	ProductID  string           `json:"product_id"`
	OutletID   string           `json:"outlet_id"`
	Requested  decimal.Decimal  `json:"requested"`
	Deducted   decimal.Decimal  `json:"deducted"`
	Batches    []BatchDeduction `json:"batches"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// BatchDepleted se emite por cada lote que llegó a cero en una deducción.
type BatchDepleted struct {
	BatchID     string    `json:"batch_id"`
	BatchNumber string    `json:"batch_number"`
	ProductID   string    `json:"product_id"`
	OutletID    string    `json:"outlet_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// BatchesExpired se emite tras cada corrida del barrido de vencimientos.
type BatchesExpired struct {
	Count      int64     `json:"count"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher puerto de publicación de eventos de dominio (post-commit).
type Publisher interface {
	Publish(ctx context.Context, key string, eventType string, payload any) error
	Close() error
}

// NoopPublisher descarta eventos. Se usa cuando no hay broker configurado
// (entornos de desarrollo y tests).
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, string, any) error { return nil }
func (NoopPublisher) Close() error                                       { return nil }
