package pricing

import (
	"context"

	"github.com/tilo-app/tilo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con un
// repositorio de tiers atado a esa tx. El reemplazo masivo (delete + insert)
// corre completo dentro de una transacción: un fallo a mitad de camino deja el
// set anterior intacto en lugar de un producto sin tiers.
type TxRunner interface {
	RunTiers(ctx context.Context, fn func(tierRepo repository.PriceTierRepository) error) error
}
