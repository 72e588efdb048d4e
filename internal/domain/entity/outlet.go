package entity

import "time"

// Outlet representa una sucursal o punto de venta donde se mantiene inventario.
// Los lotes pertenecen al par (ProductID, OutletID); no se comparten entre outlets.
type Outlet struct {
	ID        string
	Name      string
	Address   string
	Timezone  string // IANA, ej. Asia/Jakarta
	CreatedAt time.Time
	UpdatedAt time.Time
}
