package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/flaghooks/internal/addon/domain"
	sharedQuery "github.com/davicafu/flaghooks/internal/shared/infra/platform/query"
)

const (
	defaultEventsPageSize = 50
	maxEventsPageSize     = 100
)

// IntegrationEventsService guarda el resultado de cada entrega (es el OutcomeSink de los proveedores).
type IntegrationEventsService struct {
	repo      domain.IntegrationEventRepository
	analytics domain.DeliveryAnalytics // opcional
	retention time.Duration
	log       *zap.Logger
}

var _ domain.OutcomeSink = (*IntegrationEventsService)(nil)

func NewIntegrationEventsService(repo domain.IntegrationEventRepository, analytics domain.DeliveryAnalytics, retention time.Duration, log *zap.Logger) *IntegrationEventsService {
	return &IntegrationEventsService{
		repo:      repo,
		analytics: analytics,
		retention: retention,
		log:       log,
	}
}

// RegisterEvent persiste el resultado y lo replica en analítica si está configurada.
// Un fallo de analítica solo se registra en el log.
func (s *IntegrationEventsService) RegisterEvent(ctx context.Context, o *domain.DeliveryOutcome) error {
	if err := s.repo.Insert(ctx, o); err != nil {
		return err
	}

	if s.analytics != nil {
		if err := s.analytics.LogBatch(ctx, []*domain.DeliveryOutcome{o}); err != nil {
			s.log.Warn("⚠️ Failed to log delivery analytics",
				zap.Int64("integration_id", o.IntegrationID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// GetPaginatedEvents devuelve los resultados de una integración, del más reciente al más antiguo.
func (s *IntegrationEventsService) GetPaginatedEvents(ctx context.Context, integrationID int64, p sharedQuery.OffsetPagination) ([]*domain.DeliveryOutcome, error) {
	p = p.Clamp(defaultEventsPageSize, maxEventsPageSize)
	return s.repo.GetPaginatedEvents(ctx, integrationID, p.Limit, p.Offset)
}

// CleanUp borra los resultados fuera de la ventana de retención, conservando el último de cada integración.
func (s *IntegrationEventsService) CleanUp(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.retention)
	removed, err := s.repo.CleanUpEvents(ctx, cutoff)
	if err != nil {
		s.log.Error("Failed to clean up integration events", zap.Error(err))
		return 0, err
	}
	if removed > 0 {
		s.log.Info("🧹 Integration events cleaned up", zap.Int64("removed", removed), zap.Time("cutoff", cutoff))
	}
	return removed, nil
}
