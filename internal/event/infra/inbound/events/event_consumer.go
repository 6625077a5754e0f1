package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
	sharedUtils "github.com/davicafu/flaghooks/internal/shared/infra/utils"
)

// EventHandler es lo que el consumidor necesita del servicio de integraciones.
type EventHandler interface {
	HandleEvent(ctx context.Context, e *eventDomain.Event) error
}

// DomainEventConsumer decodifica los eventos del topic y los reparte a las integraciones.
type DomainEventConsumer struct {
	handler EventHandler
	timeout time.Duration
	log     *zap.Logger
}

func NewDomainEventConsumer(handler EventHandler, timeout time.Duration, logger *zap.Logger) *DomainEventConsumer {
	return &DomainEventConsumer{
		handler: handler,
		timeout: timeout,
		log:     logger,
	}
}

// HandleMessage es el punto de entrada para un nuevo mensaje/evento.
func (c *DomainEventConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	sharedUtils.UnmarshalAndHandle[eventDomain.Event](c.log, json.RawMessage(payload), func(evt eventDomain.Event) {
		if evt.Type == "" {
			c.log.Warn("Event without type ignored", zap.String("key", key))
			return
		}
		if !eventDomain.IsKnownType(evt.Type) {
			c.log.Debug("Unknown event type, delivering anyway", zap.String("type", evt.Type))
		}

		ctxEvt, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		if err := c.handler.HandleEvent(ctxEvt, &evt); err != nil {
			c.log.Warn("Failed to deliver event to addons",
				zap.Int64("event_id", evt.ID),
				zap.String("event_type", evt.Type),
				zap.Error(err),
			)
			return
		}
		c.log.Info("📨 Event delivered to addons",
			zap.Int64("event_id", evt.ID),
			zap.String("event_type", evt.Type),
		)
	})
}
