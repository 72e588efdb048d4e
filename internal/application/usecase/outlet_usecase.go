package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tilo-app/tilo-api/internal/application/dto"
	"github.com/tilo-app/tilo-api/internal/domain"
	"github.com/tilo-app/tilo-api/internal/domain/entity"
	"github.com/tilo-app/tilo-api/internal/domain/repository"
)

// OutletUseCase casos de uso CRUD para sucursales.
type OutletUseCase struct {
	repo repository.OutletRepository
}

// NewOutletUseCase construye el caso de uso.
func NewOutletUseCase(repo repository.OutletRepository) *OutletUseCase {
	return &OutletUseCase{repo: repo}
}

// Create crea una sucursal.
func (uc *OutletUseCase) Create(in dto.CreateOutletRequest) (*dto.OutletResponse, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name requerido: %w", domain.ErrInvalidInput)
	}
	tz := in.Timezone
	if tz == "" {
		tz = "Asia/Jakarta"
	}
	now := time.Now()
	outlet := &entity.Outlet{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Address:   in.Address,
		Timezone:  tz,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(outlet); err != nil {
		return nil, err
	}
	return toOutletResponse(outlet), nil
}

// GetByID obtiene una sucursal por ID.
func (uc *OutletUseCase) GetByID(id string) (*dto.OutletResponse, error) {
	outlet, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if outlet == nil {
		return nil, domain.ErrNotFound
	}
	return toOutletResponse(outlet), nil
}

// List lista las sucursales paginadas.
func (uc *OutletUseCase) List(page dto.PageRequest) ([]dto.OutletResponse, error) {
	page.DefaultPage()
	outlets, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OutletResponse, 0, len(outlets))
	for _, o := range outlets {
		out = append(out, *toOutletResponse(o))
	}
	return out, nil
}

func toOutletResponse(o *entity.Outlet) *dto.OutletResponse {
	return &dto.OutletResponse{
		ID:        o.ID,
		Name:      o.Name,
		Address:   o.Address,
		Timezone:  o.Timezone,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
