package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
	sharedDomain "github.com/davicafu/flaghooks/internal/shared/domain"
	sharedQuery "github.com/davicafu/flaghooks/internal/shared/infra/platform/query"
)

const (
	defaultEventsLimit = 50
	maxEventsLimit     = 100
)

// EventService guarda los eventos de dominio. Cada evento viaja al bus a través
// de la tabla outbox, nunca directamente.
type EventService struct {
	repo eventDomain.EventRepository
	log  *zap.Logger
}

func NewEventService(repo eventDomain.EventRepository, log *zap.Logger) *EventService {
	return &EventService{repo: repo, log: log}
}

// StoreEvent valida, fecha y persiste el evento junto a su entrada de outbox.
func (s *EventService) StoreEvent(ctx context.Context, e *eventDomain.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.Data == nil {
		e.Data = map[string]interface{}{}
	}

	outboxEvent := sharedDomain.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: eventDomain.AggregateType,
		EventType:     e.Type,
		Payload:       e, // el repositorio lo serializa después de asignar el ID
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Store(ctx, e, outboxEvent); err != nil {
		s.log.Error("Failed to store event", zap.String("event_type", e.Type), zap.Error(err))
		return err
	}

	s.log.Debug("Event stored", zap.Int64("event_id", e.ID), zap.String("event_type", e.Type))
	return nil
}

func (s *EventService) GetEvent(ctx context.Context, id int64) (*eventDomain.Event, error) {
	return s.repo.GetByID(ctx, id)
}

// GetEvents lista eventos filtrados, los más recientes primero.
func (s *EventService) GetEvents(ctx context.Context, filter eventDomain.EventFilter) ([]*eventDomain.Event, error) {
	p := sharedQuery.OffsetPagination{Limit: filter.Limit, Offset: filter.Offset}.Clamp(defaultEventsLimit, maxEventsLimit)
	filter.Limit, filter.Offset = p.Limit, p.Offset
	return s.repo.List(ctx, filter)
}
