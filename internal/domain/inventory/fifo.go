package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tilo-app/tilo-api/internal/domain/entity"
)

// Política FEFO (first-expired-first-out): el vencimiento manda sobre el orden
// de llegada, aproximando "consumir primero lo que se echa a perder antes".
// Lotes sin vencimiento van al final; a igual vencimiento desempata ReceivedAt.

// Before reporta si el lote a debe consumirse antes que b bajo FEFO.
func Before(a, b *entity.BatchLot) bool {
	switch {
	case a.ExpiresAt != nil && b.ExpiresAt == nil:
		return true
	case a.ExpiresAt == nil && b.ExpiresAt != nil:
		return false
	case a.ExpiresAt != nil && b.ExpiresAt != nil && !a.ExpiresAt.Equal(*b.ExpiresAt):
		return a.ExpiresAt.Before(*b.ExpiresAt)
	}
	return a.ReceivedAt.Before(b.ReceivedAt)
}

// SortFEFO ordena los lotes in-place según la política FEFO.
func SortFEFO(batches []*entity.BatchLot) {
	sort.SliceStable(batches, func(i, j int) bool {
		return Before(batches[i], batches[j])
	})
}

// Deduction entrada del plan: cuánto se consume de un lote y cuánto le queda.
type Deduction struct {
	BatchID     string
	BatchNumber string
	Deducted    decimal.Decimal
	Remaining   decimal.Decimal
	Depleted    bool // el lote quedó en cero y debe pasar a depleted
}

// Plan resultado del cálculo de deducción. Deducted < Requested indica
// faltante: condición de negocio esperada, no un error.
type Plan struct {
	Requested decimal.Decimal
	Deducted  decimal.Decimal
	Entries   []Deduction
}

// Shortfall devuelve cuánto quedó sin cubrir (cero si se cubrió todo).
func (p Plan) Shortfall() decimal.Decimal {
	return p.Requested.Sub(p.Deducted)
}

// BuildPlan recorre los lotes ya ordenados FEFO y calcula el plan de deducción:
// de cada lote toma min(cantidad del lote, restante) hasta cubrir requested o
// agotar los lotes. Puro: no muta los lotes recibidos.
func BuildPlan(batches []*entity.BatchLot, requested decimal.Decimal) Plan {
	plan := Plan{Requested: requested, Deducted: decimal.Zero}
	remaining := requested

	for _, b := range batches {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		if !b.Consumable() {
			continue
		}
		take := decimal.Min(b.Quantity, remaining)
		left := b.Quantity.Sub(take)
		plan.Entries = append(plan.Entries, Deduction{
			BatchID:     b.ID,
			BatchNumber: b.BatchNumber,
			Deducted:    take,
			Remaining:   left,
			Depleted:    !left.GreaterThan(decimal.Zero),
		})
		plan.Deducted = plan.Deducted.Add(take)
		remaining = remaining.Sub(take)
	}
	return plan
}

// Summary agregado de lotes de un (producto, outlet) para el tablero.
type Summary struct {
	TotalQuantity      decimal.Decimal
	ActiveBatches      int
	ExpiredBatches     int // aún en estado active pero con vencimiento pasado
	ExpiringWithinDays int
}

// Summarize calcula el roll-up sobre la lista completa de lotes.
// windowDays es la ventana de "por vencer" (misma constante que usa el listado).
func Summarize(batches []*entity.BatchLot, now time.Time, windowDays int) Summary {
	s := Summary{TotalQuantity: decimal.Zero}
	for _, b := range batches {
		if b.Status != entity.BatchStatusActive {
			continue
		}
		s.ActiveBatches++
		s.TotalQuantity = s.TotalQuantity.Add(b.Quantity)
		if b.IsExpired(now) {
			s.ExpiredBatches++
		} else if b.ExpiresWithin(now, windowDays) {
			s.ExpiringWithinDays++
		}
	}
	return s
}
