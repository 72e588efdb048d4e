package inventory

import (
	"context"
	"time"

	"github.com/tilo-app/tilo-api/internal/domain/event"
	"github.com/tilo-app/tilo-api/internal/domain/repository"
	"github.com/tilo-app/tilo-api/pkg/logger"
)

// ExpirySweep es el barrido diario de vencimientos: transiciona en un solo
// UPDATE masivo todos los lotes active con vencimiento pasado a expired, en
// todos los outlets. Idempotente: una segunda corrida sin nuevos vencimientos
// afecta 0 filas. Corre como goroutine independiente de las peticiones.
type ExpirySweep struct {
	batchRepo repository.BatchLotRepository
	publisher event.Publisher
	log       *logger.Logger
	hour      int // hora local de la corrida (0-23)
}

// NewExpirySweep construye el barrido.
func NewExpirySweep(batchRepo repository.BatchLotRepository, publisher event.Publisher, log *logger.Logger, hour int) *ExpirySweep {
	return &ExpirySweep{batchRepo: batchRepo, publisher: publisher, log: log, hour: hour}
}

// Start bloquea hasta que ctx se cancele; dispara RunOnce una vez al día a la
// hora configurada.
func (s *ExpirySweep) Start(ctx context.Context) {
	s.log.Info().Int("hour", s.hour).Msg("barrido de vencimientos iniciado")
	for {
		wait := time.Until(s.nextRun(time.Now()))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info().Msg("barrido de vencimientos detenido")
			return
		case <-timer.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.log.Error().Err(err).Msg("corrida del barrido de vencimientos")
			}
		}
	}
}

// RunOnce ejecuta una corrida: un único UPDATE masivo (atómico a nivel de
// store, sin semántica de fallo parcial) y publica el conteo afectado.
func (s *ExpirySweep) RunOnce(ctx context.Context) (int64, error) {
	now := time.Now()
	count, err := s.batchRepo.MarkExpired(now)
	if err != nil {
		return 0, err
	}
	s.log.Info().Int64("expired", count).Msg("barrido de vencimientos completado")

	if count > 0 {
		ev := event.BatchesExpired{Count: count, OccurredAt: now}
		if err := s.publisher.Publish(ctx, "expiry-sweep", event.TypeBatchesExpired, ev); err != nil {
			s.log.Error().Err(err).Msg("publicar BatchesExpired")
		}
	}
	return count, nil
}

// nextRun devuelve la próxima ocurrencia de la hora configurada (hoy si aún no
// pasó, mañana si ya pasó).
func (s *ExpirySweep) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
