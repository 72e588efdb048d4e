package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo. BasePrice es el precio de
// venta por defecto (en Currency, normalmente IDR); los tiers por volumen lo
// pueden sobreescribir. El stock físico se rastrea por lotes en BatchLot.
type Product struct {
	ID          string
	SKU         string // código único del catálogo
	Name        string
	Description string
	BasePrice   decimal.Decimal
	Currency    string          // código ISO, por defecto IDR
	TaxRate     decimal.Decimal // PPN Indonesia: 0 u 11 (%)
	UnitMeasure string          // pcs, kg, lt...
	Perishable  bool            // si true, las recepciones deberían traer vencimiento
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
