package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tilo-app/tilo-api/internal/application/dto"
	"github.com/tilo-app/tilo-api/internal/domain"
	"github.com/tilo-app/tilo-api/internal/domain/entity"
	"github.com/tilo-app/tilo-api/internal/domain/repository"
	"github.com/tilo-app/tilo-api/internal/domain/valueobject"
)

// PriceTierUseCase gestiona los tiers de precio por volumen y resuelve el
// precio unitario aplicable a una cantidad.
type PriceTierUseCase struct {
	txRunner    TxRunner
	tierRepo    repository.PriceTierRepository
	productRepo repository.ProductRepository
}

// NewPriceTierUseCase construye el caso de uso.
func NewPriceTierUseCase(txRunner TxRunner, tierRepo repository.PriceTierRepository, productRepo repository.ProductRepository) *PriceTierUseCase {
	return &PriceTierUseCase{txRunner: txRunner, tierRepo: tierRepo, productRepo: productRepo}
}

// ListByProduct devuelve los tiers activos del producto, min_quantity ascendente.
func (uc *PriceTierUseCase) ListByProduct(productID string) ([]dto.TierResponse, error) {
	tiers, err := uc.tierRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TierResponse, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, toTierResponse(t))
	}
	return out, nil
}

// Create crea un tier validando precio no negativo y rango bien formado
// (min >= 0; max >= min cuando hay tope).
func (uc *PriceTierUseCase) Create(productID string, in dto.CreateTierRequest) (*dto.TierResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	tier, err := buildTier(productID, in)
	if err != nil {
		return nil, err
	}
	if err := uc.tierRepo.Create(tier); err != nil {
		return nil, err
	}
	resp := toTierResponse(tier)
	return &resp, nil
}

// Update actualización parcial; el rango resultante se revalida completo.
func (uc *PriceTierUseCase) Update(id string, in dto.UpdateTierRequest) (*dto.TierResponse, error) {
	tier, err := uc.tierRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tier == nil {
		return nil, fmt.Errorf("tier %s: %w", id, domain.ErrNotFound)
	}

	if in.TierName != nil {
		tier.TierName = *in.TierName
	}
	if in.MinQuantity != nil {
		tier.MinQuantity = *in.MinQuantity
	}
	if in.MaxQuantity != nil {
		tier.MaxQuantity = in.MaxQuantity
	}
	if in.Price != nil {
		if _, err := valueobject.NewMoney(*in.Price, ""); err != nil {
			return nil, err
		}
		tier.Price = *in.Price
	}
	if in.DiscountPercent != nil {
		tier.DiscountPercent = in.DiscountPercent
	}
	if in.IsActive != nil {
		tier.IsActive = *in.IsActive
	}
	if !tier.ValidRange() {
		return nil, fmt.Errorf("rango de cantidades mal formado: %w", domain.ErrInvalidInput)
	}
	tier.UpdatedAt = time.Now()

	if err := uc.tierRepo.Update(tier); err != nil {
		return nil, err
	}
	resp := toTierResponse(tier)
	return &resp, nil
}

// Delete elimina un tier (estricto: ErrNotFound si no existe).
func (uc *PriceTierUseCase) Delete(id string) error {
	return uc.tierRepo.Delete(id)
}

// BulkReplace reemplaza el set completo de tiers del producto en una sola
// transacción. Valida todos los tiers antes de tocar la BD; un array vacío
// deja al producto sin tiers.
func (uc *PriceTierUseCase) BulkReplace(ctx context.Context, productID string, in dto.BulkReplaceTiersRequest) ([]dto.TierResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}

	tiers := make([]*entity.PriceTier, 0, len(in.Tiers))
	for _, req := range in.Tiers {
		tier, err := buildTier(productID, req)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, tier)
	}

	err = uc.txRunner.RunTiers(ctx, func(tierRepo repository.PriceTierRepository) error {
		if err := tierRepo.DeleteByProduct(productID); err != nil {
			return err
		}
		for _, t := range tiers {
			if err := tierRepo.Create(t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.TierResponse, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, toTierResponse(t))
	}
	return out, nil
}

// ResolvePrice selecciona el mejor tier para la cantidad: el de mayor
// min_quantity <= qty (desempate por id) siempre que su tope lo admita;
// si no hay candidato válido cae al precio base con ahorro cero.
// Savings puede ser negativo si el tier está por encima del precio base.
func (uc *PriceTierUseCase) ResolvePrice(productID string, quantity decimal.Decimal) (*dto.ResolvePriceResponse, error) {
	if quantity.IsNegative() {
		return nil, fmt.Errorf("cantidad negativa: %w", domain.ErrInvalidInput)
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}

	resp := &dto.ResolvePriceResponse{
		ProductID:      productID,
		Quantity:       quantity,
		UnitPrice:      product.BasePrice,
		OriginalPrice:  product.BasePrice,
		Savings:        decimal.Zero,
		SavingsPercent: decimal.Zero,
	}

	candidate, err := uc.tierRepo.FindBestTier(productID, quantity)
	if err != nil {
		return nil, err
	}
	if candidate != nil && candidate.Matches(quantity) {
		resp.UnitPrice = candidate.Price
		resp.TierName = candidate.TierName
		resp.Savings = product.BasePrice.Sub(candidate.Price)
		if product.BasePrice.GreaterThan(decimal.Zero) {
			resp.SavingsPercent = resp.Savings.
				Div(product.BasePrice).
				Mul(decimal.NewFromInt(100)).
				Round(2)
		}
	}

	display, err := valueobject.NewMoney(resp.UnitPrice, product.Currency)
	if err != nil {
		return nil, err
	}
	resp.Display = display.Display()
	return resp, nil
}

func buildTier(productID string, in dto.CreateTierRequest) (*entity.PriceTier, error) {
	if _, err := valueobject.NewMoney(in.Price, ""); err != nil {
		return nil, err
	}
	now := time.Now()
	tier := &entity.PriceTier{
		ID:              uuid.New().String(),
		ProductID:       productID,
		TierName:        in.TierName,
		MinQuantity:     in.MinQuantity,
		MaxQuantity:     in.MaxQuantity,
		Price:           in.Price,
		DiscountPercent: in.DiscountPercent,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.IsActive != nil {
		tier.IsActive = *in.IsActive
	}
	if !tier.ValidRange() {
		return nil, fmt.Errorf("rango de cantidades mal formado: %w", domain.ErrInvalidInput)
	}
	return tier, nil
}

func toTierResponse(t *entity.PriceTier) dto.TierResponse {
	return dto.TierResponse{
		ID:              t.ID,
		ProductID:       t.ProductID,
		TierName:        t.TierName,
		MinQuantity:     t.MinQuantity,
		MaxQuantity:     t.MaxQuantity,
		Price:           t.Price,
		DiscountPercent: t.DiscountPercent,
		IsActive:        t.IsActive,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
