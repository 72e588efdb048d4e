package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tilo-app/tilo-api/internal/application/dto"
	"github.com/tilo-app/tilo-api/internal/domain"
	"github.com/tilo-app/tilo-api/internal/domain/entity"
	"github.com/tilo-app/tilo-api/internal/domain/event"
	dominv "github.com/tilo-app/tilo-api/internal/domain/inventory"
	"github.com/tilo-app/tilo-api/internal/domain/repository"
	"github.com/tilo-app/tilo-api/internal/domain/valueobject"
	"github.com/tilo-app/tilo-api/pkg/logger"
)

// BatchTrackingUseCase gestiona los lotes por (producto, outlet): CRUD,
// deducción FEFO transaccional, clasificación de vencimientos y resumen.
type BatchTrackingUseCase struct {
	txRunner    TxRunner
	batchRepo   repository.BatchLotRepository
	productRepo repository.ProductRepository
	outletRepo  repository.OutletRepository
	publisher   event.Publisher
	log         *logger.Logger
	windowDays  int // ventana "por vencer" compartida entre listado y resumen
}

// NewBatchTrackingUseCase construye el caso de uso.
func NewBatchTrackingUseCase(
	txRunner TxRunner,
	batchRepo repository.BatchLotRepository,
	productRepo repository.ProductRepository,
	outletRepo repository.OutletRepository,
	publisher event.Publisher,
	log *logger.Logger,
	windowDays int,
) *BatchTrackingUseCase {
	if windowDays <= 0 {
		windowDays = 7
	}
	return &BatchTrackingUseCase{
		txRunner:    txRunner,
		batchRepo:   batchRepo,
		productRepo: productRepo,
		outletRepo:  outletRepo,
		publisher:   publisher,
		log:         log,
		windowDays:  windowDays,
	}
}

// ListByProduct devuelve todos los lotes del par en orden FEFO, sin filtrar por estado.
func (uc *BatchTrackingUseCase) ListByProduct(productID, outletID string) ([]dto.BatchLotResponse, error) {
	batches, err := uc.batchRepo.ListByProduct(productID, outletID)
	if err != nil {
		return nil, err
	}
	return toBatchResponses(batches), nil
}

// ListActive devuelve los lotes consumibles (active y con stock), orden FEFO.
func (uc *BatchTrackingUseCase) ListActive(productID, outletID string) ([]dto.BatchLotResponse, error) {
	batches, err := uc.batchRepo.ListActive(productID, outletID)
	if err != nil {
		return nil, err
	}
	return toBatchResponses(batches), nil
}

// Create registra una recepción de stock como lote nuevo (status active).
// Valida cantidad no negativa y existencia de producto y outlet.
func (uc *BatchTrackingUseCase) Create(in dto.CreateBatchRequest) (*dto.BatchLotResponse, error) {
	if in.ProductID == "" || in.OutletID == "" {
		return nil, fmt.Errorf("product_id y outlet_id requeridos: %w", domain.ErrInvalidInput)
	}
	qty, err := valueobject.NewQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}
	if in.CostPrice != nil {
		if _, err := valueobject.NewMoney(*in.CostPrice, ""); err != nil {
			return nil, err
		}
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", in.ProductID, domain.ErrNotFound)
	}
	outlet, err := uc.outletRepo.GetByID(in.OutletID)
	if err != nil {
		return nil, err
	}
	if outlet == nil {
		return nil, fmt.Errorf("outlet %s: %w", in.OutletID, domain.ErrNotFound)
	}

	now := time.Now()
	batch := &entity.BatchLot{
		ID:             uuid.New().String(),
		ProductID:      in.ProductID,
		OutletID:       in.OutletID,
		BatchNumber:    in.BatchNumber,
		Quantity:       qty.Value(),
		CostPrice:      in.CostPrice,
		ManufacturedAt: in.ManufacturedAt,
		ExpiresAt:      in.ExpiresAt,
		ReceivedAt:     now,
		Notes:          in.Notes,
		Status:         entity.BatchStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.batchRepo.Create(batch); err != nil {
		return nil, err
	}
	resp := toBatchResponse(batch)
	return &resp, nil
}

// Update aplica una actualización parcial: solo los campos presentes cambian.
// ExpiresAt admite "" para limpiar el vencimiento (distinto de omitido).
func (uc *BatchTrackingUseCase) Update(id string, in dto.UpdateBatchRequest) (*dto.BatchLotResponse, error) {
	batch, err := uc.batchRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, fmt.Errorf("lote %s: %w", id, domain.ErrNotFound)
	}

	if in.BatchNumber != nil {
		batch.BatchNumber = *in.BatchNumber
	}
	if in.Quantity != nil {
		qty, err := valueobject.NewQuantity(*in.Quantity)
		if err != nil {
			return nil, err
		}
		batch.Quantity = qty.Value()
	}
	if in.CostPrice != nil {
		if _, err := valueobject.NewMoney(*in.CostPrice, ""); err != nil {
			return nil, err
		}
		batch.CostPrice = in.CostPrice
	}
	if in.ExpiresAt != nil {
		if *in.ExpiresAt == "" {
			batch.ExpiresAt = nil
		} else {
			exp, err := time.Parse(time.RFC3339, *in.ExpiresAt)
			if err != nil {
				return nil, fmt.Errorf("expires_at inválido %q: %w", *in.ExpiresAt, domain.ErrInvalidInput)
			}
			batch.ExpiresAt = &exp
		}
	}
	if in.Notes != nil {
		batch.Notes = *in.Notes
	}
	if in.Status != nil {
		if !validBatchStatus(*in.Status) {
			return nil, fmt.Errorf("status %q: %w", *in.Status, domain.ErrInvalidInput)
		}
		batch.Status = *in.Status
	}
	batch.UpdatedAt = time.Now()

	if err := uc.batchRepo.Update(batch); err != nil {
		return nil, err
	}
	resp := toBatchResponse(batch)
	return &resp, nil
}

// Delete elimina un lote (hard delete, estricto: ErrNotFound si no existe).
func (uc *BatchTrackingUseCase) Delete(id string) error {
	return uc.batchRepo.Delete(id)
}

// DeductFIFO consume stock según la política FEFO dentro de UNA transacción:
// las filas candidatas quedan bloqueadas (SELECT FOR UPDATE) durante todo el
// recorrido, cerrando la carrera read-modify-write entre deducciones
// concurrentes del mismo par. El faltante no es un error: el resultado reporta
// Deducted < Requested y se deja un warning en el log.
func (uc *BatchTrackingUseCase) DeductFIFO(ctx context.Context, productID, outletID string, quantity decimal.Decimal) (*dto.DeductionResponse, error) {
	if productID == "" || outletID == "" {
		return nil, fmt.Errorf("product_id y outlet_id requeridos: %w", domain.ErrInvalidInput)
	}
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("cantidad a deducir debe ser > 0: %w", domain.ErrInvalidInput)
	}

	var plan dominv.Plan
	err := uc.txRunner.Run(ctx, func(batchRepo repository.BatchLotRepository) error {
		batches, err := batchRepo.ListActiveForUpdate(productID, outletID)
		if err != nil {
			return err
		}
		plan = dominv.BuildPlan(batches, quantity)

		byID := make(map[string]*entity.BatchLot, len(batches))
		for _, b := range batches {
			byID[b.ID] = b
		}
		now := time.Now()
		for _, e := range plan.Entries {
			b := byID[e.BatchID]
			b.Quantity = e.Remaining
			if e.Depleted {
				b.Status = entity.BatchStatusDepleted
			}
			b.UpdatedAt = now
			if err := batchRepo.Update(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if plan.Deducted.LessThan(quantity) {
		uc.log.Warn().
			Str("product_id", productID).
			Str("outlet_id", outletID).
			Str("requested", quantity.String()).
			Str("deducted", plan.Deducted.String()).
			Msg("deducción FEFO con faltante: stock insuficiente en lotes activos")
	}

	uc.publishDeduction(ctx, productID, outletID, quantity, plan)

	resp := &dto.DeductionResponse{
		Requested: quantity,
		Deducted:  plan.Deducted,
		Shortfall: plan.Shortfall(),
		Batches:   make([]dto.DeductionEntry, 0, len(plan.Entries)),
	}
	for _, e := range plan.Entries {
		resp.Batches = append(resp.Batches, dto.DeductionEntry{
			BatchID:     e.BatchID,
			BatchNumber: e.BatchNumber,
			Deducted:    e.Deducted,
			Remaining:   e.Remaining,
		})
	}
	return resp, nil
}

// publishDeduction emite los eventos post-commit. Un fallo al publicar se
// registra y no afecta la mutación ya confirmada.
func (uc *BatchTrackingUseCase) publishDeduction(ctx context.Context, productID, outletID string, requested decimal.Decimal, plan dominv.Plan) {
	now := time.Now()
	ev := event.StockDeducted{
		ProductID:  productID,
		OutletID:   outletID,
		Requested:  requested,
		Deducted:   plan.Deducted,
		OccurredAt: now,
	}
	for _, e := range plan.Entries {
		ev.Batches = append(ev.Batches, event.BatchDeduction{
			BatchID:     e.BatchID,
			BatchNumber: e.BatchNumber,
			Deducted:    e.Deducted,
			Remaining:   e.Remaining,
		})
	}
	if err := uc.publisher.Publish(ctx, productID+":"+outletID, event.TypeStockDeducted, ev); err != nil {
		uc.log.Error().Err(err).Msg("publicar StockDeducted")
	}
	for _, e := range plan.Entries {
		if !e.Depleted {
			continue
		}
		dep := event.BatchDepleted{
			BatchID:     e.BatchID,
			BatchNumber: e.BatchNumber,
			ProductID:   productID,
			OutletID:    outletID,
			OccurredAt:  now,
		}
		if err := uc.publisher.Publish(ctx, e.BatchID, event.TypeBatchDepleted, dep); err != nil {
			uc.log.Error().Err(err).Msg("publicar BatchDepleted")
		}
	}
}

// GetExpiringBatches lotes activos con stock que vencen dentro de daysAhead
// días (frontera inclusiva). daysAhead <= 0 usa la ventana configurada.
func (uc *BatchTrackingUseCase) GetExpiringBatches(outletID string, daysAhead int) ([]dto.ExpiringBatchResponse, error) {
	if daysAhead <= 0 {
		daysAhead = uc.windowDays
	}
	now := time.Now()
	until := now.AddDate(0, 0, daysAhead)
	rows, err := uc.batchRepo.ListExpiring(outletID, now, until)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpiringBatchResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ExpiringBatchResponse{
			BatchLotResponse: toBatchResponse(&r.Batch),
			ProductName:      r.ProductName,
			SKU:              r.SKU,
		})
	}
	return out, nil
}

// GetExpiredBatches lotes con vencimiento estrictamente pasado pero todavía en
// estado active: la brecha entre "está vencido" y "fue marcado por el barrido".
func (uc *BatchTrackingUseCase) GetExpiredBatches(outletID string) ([]dto.BatchLotResponse, error) {
	batches, err := uc.batchRepo.ListExpiredActive(outletID, time.Now())
	if err != nil {
		return nil, err
	}
	return toBatchResponses(batches), nil
}

// GetBatchSummary agrega los lotes del par: stock total activo, conteos de
// vencidos/por vencer (misma ventana configurada que el listado), costo
// promedio ponderado y la lista cruda.
func (uc *BatchTrackingUseCase) GetBatchSummary(productID, outletID string) (*dto.BatchSummaryResponse, error) {
	batches, err := uc.batchRepo.ListByProduct(productID, outletID)
	if err != nil {
		return nil, err
	}
	s := dominv.Summarize(batches, time.Now(), uc.windowDays)
	return &dto.BatchSummaryResponse{
		ProductID:          productID,
		OutletID:           outletID,
		TotalQuantity:      s.TotalQuantity,
		ActiveBatches:      s.ActiveBatches,
		ExpiredBatches:     s.ExpiredBatches,
		ExpiringWithinDays: s.ExpiringWithinDays,
		WindowDays:         uc.windowDays,
		AverageCost:        dominv.WeightedAverageCost(batches),
		Batches:            toBatchResponses(batches),
	}, nil
}

func validBatchStatus(s string) bool {
	switch s {
	case entity.BatchStatusActive, entity.BatchStatusDepleted, entity.BatchStatusExpired, entity.BatchStatusRecalled:
		return true
	}
	return false
}

func toBatchResponse(b *entity.BatchLot) dto.BatchLotResponse {
	return dto.BatchLotResponse{
		ID:             b.ID,
		ProductID:      b.ProductID,
		OutletID:       b.OutletID,
		BatchNumber:    b.BatchNumber,
		Quantity:       b.Quantity,
		CostPrice:      b.CostPrice,
		ManufacturedAt: b.ManufacturedAt,
		ExpiresAt:      b.ExpiresAt,
		ReceivedAt:     b.ReceivedAt,
		Notes:          b.Notes,
		Status:         b.Status,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toBatchResponses(batches []*entity.BatchLot) []dto.BatchLotResponse {
	out := make([]dto.BatchLotResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, toBatchResponse(b))
	}
	return out
}
