package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote. Las transiciones automáticas son:
// active -> depleted (deducción llega a cero) y active -> expired (barrido diario).
// recalled es terminal y solo se asigna manualmente. No hay des-expiración automática.
const (
	BatchStatusActive   = "active"
	BatchStatusDepleted = "depleted"
	BatchStatusExpired  = "expired"
	BatchStatusRecalled = "recalled"
)

// BatchLot representa una recepción física de stock para un (producto, outlet),
// rastreable de forma independiente para consumo FEFO y control de vencimiento.
type BatchLot struct {
	ID             string
	ProductID      string
	OutletID       string
	BatchNumber    string // identificador legible del lote (etiqueta del proveedor)
	Quantity       decimal.Decimal
	CostPrice      *decimal.Decimal // costo unitario de recepción; opcional
	ManufacturedAt *time.Time
	ExpiresAt      *time.Time // nil = sin vencimiento (no perecedero)
	ReceivedAt     time.Time  // desempate FIFO cuando los vencimientos coinciden
	Notes          string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsExpired es true si el lote tiene vencimiento y ya quedó estrictamente en el pasado.
// Independiente del Status: modela la brecha entre "está vencido" y "fue marcado vencido".
func (b *BatchLot) IsExpired(now time.Time) bool {
	return b.ExpiresAt != nil && b.ExpiresAt.Before(now)
}

// ExpiresWithin es true si el lote vence dentro de los próximos days días
// (frontera inclusiva en el día N) y todavía no está vencido.
func (b *BatchLot) ExpiresWithin(now time.Time, days int) bool {
	if b.ExpiresAt == nil || b.IsExpired(now) {
		return false
	}
	return !b.ExpiresAt.After(now.AddDate(0, 0, days))
}

// Consumable es true si el lote puede participar en una deducción FEFO.
func (b *BatchLot) Consumable() bool {
	return b.Status == BatchStatusActive && b.Quantity.GreaterThan(decimal.Zero)
}
