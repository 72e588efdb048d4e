package inventory

import (
	"github.com/shopspring/decimal"
	"github.com/tilo-app/tilo-api/internal/domain/entity"
)

// WeightedAverageCost calcula el costo unitario promedio ponderado del stock
// restante en los lotes activos (servicio de dominio):
// Costo = Σ(cantidad_i * costo_i) / Σ(cantidad_i), ignorando lotes sin costo.
// Devuelve cero si ningún lote activo tiene costo registrado.
func WeightedAverageCost(batches []*entity.BatchLot) decimal.Decimal {
	total := decimal.Zero
	weighted := decimal.Zero
	for _, b := range batches {
		if b.Status != entity.BatchStatusActive || b.CostPrice == nil {
			continue
		}
		total = total.Add(b.Quantity)
		weighted = weighted.Add(b.Quantity.Mul(*b.CostPrice))
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return weighted.Div(total)
}
