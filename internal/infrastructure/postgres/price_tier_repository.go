package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tilo-app/tilo-api/internal/domain"
	"github.com/tilo-app/tilo-api/internal/domain/entity"
	"github.com/tilo-app/tilo-api/internal/domain/repository"
)

var _ repository.PriceTierRepository = (*PriceTierRepo)(nil)

const tierColumns = `id, product_id, tier_name, min_quantity, max_quantity, price,
		discount_percent, is_active, created_at, updated_at`

// PriceTierRepo implementación de PriceTierRepository sobre PostgreSQL (usable con pool o tx).
type PriceTierRepo struct {
	q Querier
}

// NewPriceTierRepository construye el adaptador de tiers. Pasar pool o tx (Querier).
func NewPriceTierRepository(q Querier) *PriceTierRepo {
	return &PriceTierRepo{q: q}
}

// Create persiste un tier nuevo.
func (r *PriceTierRepo) Create(tier *entity.PriceTier) error {
	query := `
		INSERT INTO price_tiers (` + tierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		tier.ID, tier.ProductID, tier.TierName, tier.MinQuantity, tier.MaxQuantity,
		tier.Price, tier.DiscountPercent, tier.IsActive, tier.CreatedAt, tier.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert price tier: %w", err)
	}
	return nil
}

// GetByID obtiene un tier por ID; nil si no existe.
func (r *PriceTierRepo) GetByID(id string) (*entity.PriceTier, error) {
	query := `SELECT ` + tierColumns + ` FROM price_tiers WHERE id = $1`
	t, err := scanTier(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get price tier: %w", err)
	}
	return t, nil
}

// Update persiste los campos mutables del tier.
func (r *PriceTierRepo) Update(tier *entity.PriceTier) error {
	query := `
		UPDATE price_tiers
		SET tier_name = $2, min_quantity = $3, max_quantity = $4, price = $5,
		    discount_percent = $6, is_active = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		tier.ID, tier.TierName, tier.MinQuantity, tier.MaxQuantity, tier.Price,
		tier.DiscountPercent, tier.IsActive, tier.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update price tier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tier %s: %w", tier.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete elimina un tier. Estricto: ErrNotFound si no afectó filas.
func (r *PriceTierRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM price_tiers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete price tier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tier %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DeleteByProduct elimina todos los tiers del producto (paso 1 del reemplazo masivo).
// Cero filas afectadas no es error: el producto puede no tener tiers aún.
func (r *PriceTierRepo) DeleteByProduct(productID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM price_tiers WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete price tiers by product: %w", err)
	}
	return nil
}

// ListByProduct tiers activos del producto, min_quantity ascendente.
func (r *PriceTierRepo) ListByProduct(productID string) ([]*entity.PriceTier, error) {
	query := `
		SELECT ` + tierColumns + `
		FROM price_tiers
		WHERE product_id = $1 AND is_active = true
		ORDER BY min_quantity ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list price tiers: %w", err)
	}
	defer rows.Close()
	var list []*entity.PriceTier
	for rows.Next() {
		t, err := scanTier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price tier: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// FindBestTier tier activo con mayor min_quantity <= qty; desempate
// determinista por id ascendente. nil si no hay candidato.
func (r *PriceTierRepo) FindBestTier(productID string, qty decimal.Decimal) (*entity.PriceTier, error) {
	query := `
		SELECT ` + tierColumns + `
		FROM price_tiers
		WHERE product_id = $1 AND is_active = true AND min_quantity <= $2
		ORDER BY min_quantity DESC, id ASC
		LIMIT 1`
	t, err := scanTier(r.q.QueryRow(context.Background(), query, productID, qty))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find best tier: %w", err)
	}
	return t, nil
}

func scanTier(row pgx.Row) (*entity.PriceTier, error) {
	var t entity.PriceTier
	err := row.Scan(
		&t.ID, &t.ProductID, &t.TierName, &t.MinQuantity, &t.MaxQuantity, &t.Price,
		&t.DiscountPercent, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
