package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTierRequest alta de un tier de precio por volumen.
type CreateTierRequest struct {
	TierName        string           `json:"tier_name"`
	MinQuantity     decimal.Decimal  `json:"min_quantity"`
	MaxQuantity     *decimal.Decimal `json:"max_quantity,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"` // omitido = true
}

// UpdateTierRequest actualización parcial de un tier.
type UpdateTierRequest struct {
	TierName        *string          `json:"tier_name,omitempty"`
	MinQuantity     *decimal.Decimal `json:"min_quantity,omitempty"`
	MaxQuantity     *decimal.Decimal `json:"max_quantity,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"`
}

// BulkReplaceTiersRequest reemplazo completo del set de tiers de un producto.
// Un array vacío deja al producto sin tiers.
type BulkReplaceTiersRequest struct {
	Tiers []CreateTierRequest `json:"tiers"`
}

// TierResponse representación de un tier en respuestas.
type TierResponse struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id"`
	TierName        string           `json:"tier_name"`
	MinQuantity     decimal.Decimal  `json:"min_quantity"`
	MaxQuantity     *decimal.Decimal `json:"max_quantity,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	IsActive        bool             `json:"is_active"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ResolvePriceResponse resultado de la resolución de precio por cantidad.
// Savings puede ser negativo si el tier está por encima del precio base.
type ResolvePriceResponse struct {
	ProductID      string          `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TierName       string          `json:"tier_name,omitempty"` // vacío = precio base
	OriginalPrice  decimal.Decimal `json:"original_price"`
	Savings        decimal.Decimal `json:"savings"`
	SavingsPercent decimal.Decimal `json:"savings_percent"`
	Display        string          `json:"display"` // precio unitario formateado (ej. "IDR 12.500")
}
