package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tilo-app/tilo-api/internal/domain"
	"github.com/tilo-app/tilo-api/internal/domain/entity"
	"github.com/tilo-app/tilo-api/internal/domain/repository"
)

var _ repository.OutletRepository = (*OutletRepo)(nil)

// OutletRepo implementación del puerto OutletRepository sobre PostgreSQL.
type OutletRepo struct {
	q Querier
}

// NewOutletRepository construye el adaptador de persistencia para sucursales.
func NewOutletRepository(q Querier) *OutletRepo {
	return &OutletRepo{q: q}
}

// Create persiste una nueva sucursal.
func (r *OutletRepo) Create(outlet *entity.Outlet) error {
	query := `
		INSERT INTO outlets (id, name, address, timezone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		outlet.ID, outlet.Name, outlet.Address, outlet.Timezone,
		outlet.CreatedAt, outlet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert outlet: %w", err)
	}
	return nil
}

// GetByID obtiene una sucursal por ID; nil si no existe.
func (r *OutletRepo) GetByID(id string) (*entity.Outlet, error) {
	query := `
		SELECT id, name, address, timezone, created_at, updated_at
		FROM outlets WHERE id = $1`
	var o entity.Outlet
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.Name, &o.Address, &o.Timezone, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outlet: %w", err)
	}
	return &o, nil
}

// Update actualiza una sucursal existente.
func (r *OutletRepo) Update(outlet *entity.Outlet) error {
	query := `
		UPDATE outlets SET name = $2, address = $3, timezone = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		outlet.ID, outlet.Name, outlet.Address, outlet.Timezone, outlet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update outlet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("outlet %s: %w", outlet.ID, domain.ErrNotFound)
	}
	return nil
}

// List lista las sucursales paginadas.
func (r *OutletRepo) List(limit, offset int) ([]*entity.Outlet, error) {
	query := `
		SELECT id, name, address, timezone, created_at, updated_at
		FROM outlets ORDER BY name ASC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list outlets: %w", err)
	}
	defer rows.Close()
	var list []*entity.Outlet
	for rows.Next() {
		var o entity.Outlet
		if err := rows.Scan(&o.ID, &o.Name, &o.Address, &o.Timezone, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan outlet: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// Delete elimina una sucursal. Estricto: ErrNotFound si no afectó filas.
func (r *OutletRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM outlets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete outlet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("outlet %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
