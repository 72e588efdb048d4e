package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchRequest alta de un lote (recepción de stock).
type CreateBatchRequest struct {
	ProductID      string           `json:"product_id"`
	OutletID       string           `json:"outlet_id"`
	BatchNumber    string           `json:"batch_number"`
	Quantity       decimal.Decimal  `json:"quantity"`
	CostPrice      *decimal.Decimal `json:"cost_price,omitempty"`
	ManufacturedAt *time.Time       `json:"manufactured_at,omitempty"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
	Notes          string           `json:"notes,omitempty"`
}

// UpdateBatchRequest actualización parcial: solo los campos presentes cambian.
// ExpiresAt distingue tres casos: omitido (nil) = sin cambio, "" = limpiar el
// vencimiento, fecha RFC3339 = fijarlo.
type UpdateBatchRequest struct {
	BatchNumber *string          `json:"batch_number,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	CostPrice   *decimal.Decimal `json:"cost_price,omitempty"`
	ExpiresAt   *string          `json:"expires_at,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
	Status      *string          `json:"status,omitempty"`
}

// BatchLotResponse representación de un lote en respuestas.
type BatchLotResponse struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"product_id"`
	OutletID       string           `json:"outlet_id"`
	BatchNumber    string           `json:"batch_number"`
	Quantity       decimal.Decimal  `json:"quantity"`
	CostPrice      *decimal.Decimal `json:"cost_price,omitempty"`
	ManufacturedAt *time.Time       `json:"manufactured_at,omitempty"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
	ReceivedAt     time.Time        `json:"received_at"`
	Notes          string           `json:"notes,omitempty"`
	Status         string           `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ExpiringBatchResponse lote por vencer con datos del producto para el tablero.
type ExpiringBatchResponse struct {
	BatchLotResponse
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
}

// DeductRequest cuerpo de POST /batches/deduct.
type DeductRequest struct {
	ProductID string          `json:"product_id"`
	OutletID  string          `json:"outlet_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// DeductionEntry detalle por lote del resultado de una deducción.
type DeductionEntry struct {
	BatchID     string          `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	Deducted    decimal.Decimal `json:"deducted"`
	Remaining   decimal.Decimal `json:"remaining"`
}

// DeductionResponse resultado de una deducción FEFO. Deducted < Requested
// señala faltante (respuesta 200 igualmente; el faltante no es un error).
type DeductionResponse struct {
	Requested decimal.Decimal  `json:"requested"`
	Deducted  decimal.Decimal  `json:"deducted"`
	Shortfall decimal.Decimal  `json:"shortfall"`
	Batches   []DeductionEntry `json:"batches"`
}

// BatchSummaryResponse roll-up de lotes de un (producto, outlet).
type BatchSummaryResponse struct {
	ProductID          string             `json:"product_id"`
	OutletID           string             `json:"outlet_id"`
	TotalQuantity      decimal.Decimal    `json:"total_quantity"`
	ActiveBatches      int                `json:"active_batches"`
	ExpiredBatches     int                `json:"expired_batches"`
	ExpiringWithinDays int                `json:"expiring_within_days"`
	WindowDays         int                `json:"window_days"`
	AverageCost        decimal.Decimal    `json:"average_cost"`
	Batches            []BatchLotResponse `json:"batches"`
}
