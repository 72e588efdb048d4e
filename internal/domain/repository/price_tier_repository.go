package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tilo-app/tilo-api/internal/domain/entity"
)

// PriceTierRepository define el puerto de persistencia para PriceTier (DIP).
type PriceTierRepository interface {
	Create(tier *entity.PriceTier) error
	GetByID(id string) (*entity.PriceTier, error)
	Update(tier *entity.PriceTier) error
	Delete(id string) error
	// DeleteByProduct elimina todos los tiers del producto (para el reemplazo masivo).
	DeleteByProduct(productID string) error

	// ListByProduct tiers activos ordenados por min_quantity ascendente.
	ListByProduct(productID string) ([]*entity.PriceTier, error)

	// FindBestTier devuelve el tier activo con mayor min_quantity <= qty
	// (desempate determinista por id ascendente), o nil si no hay candidato.
	// El llamador aún debe verificar el tope MaxQuantity.
	FindBestTier(productID string, qty decimal.Decimal) (*entity.PriceTier, error)
}
