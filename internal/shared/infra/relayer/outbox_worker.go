package relayer

import (
	"context"
	"encoding/json"
	"reflect"
	"time"

	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/flaghooks/internal/shared/domain"
	sharedEvents "github.com/davicafu/flaghooks/internal/shared/domain/events"
	sharedBus "github.com/davicafu/flaghooks/internal/shared/infra/platform/bus"
)

// Worker publica en el bus los eventos pendientes de la tabla outbox.
type Worker struct {
	repo          sharedDomain.OutboxRepository
	publisher     sharedBus.EventBus
	eventRegistry sharedEvents.Registry
	interval      time.Duration
	batchSize     int
	log           *zap.Logger
}

func NewOutboxWorker(
	repo sharedDomain.OutboxRepository,
	publisher sharedBus.EventBus,
	registry sharedEvents.Registry,
	interval time.Duration,
	batchSize int,
	log *zap.Logger,
) *Worker {
	return &Worker{
		repo:          repo,
		publisher:     publisher,
		eventRegistry: registry,
		interval:      interval,
		batchSize:     batchSize,
		log:           log,
	}
}

// Start bloquea hasta que ctx se cancela; lanzarlo en su propia goroutine.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("🚀 Outbox worker iniciado", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("🛑 Outbox worker detenido.")
			return
		case <-ticker.C:
			w.ProcessBatch(ctx)
		}
	}
}

func (w *Worker) ProcessBatch(ctx context.Context) {
	events, err := w.repo.FetchPendingOutbox(ctx, w.batchSize)
	if err != nil {
		w.log.Warn("⚠️ Error al obtener eventos pendientes", zap.Error(err))
		return
	}
	if len(events) > 0 {
		w.log.Debug("📬 eventos pendientes en outbox", zap.Int("count", len(events)))
	}

	for _, evt := range events {
		w.publishAndMark(ctx, evt)
	}
}

func (w *Worker) publishAndMark(ctx context.Context, evt sharedDomain.OutboxEvent) {
	metadata, ok := w.eventRegistry[evt.EventType]
	if !ok {
		// Se deja pendiente: un despliegue posterior puede registrar el tipo.
		w.log.Error("Tipo de evento desconocido en registro", zap.String("event_type", evt.EventType))
		return
	}

	payload := reflect.New(metadata.Type).Interface()
	raw, err := json.Marshal(evt.Payload)
	if err == nil {
		err = json.Unmarshal(raw, payload)
	}
	if err != nil {
		w.log.Error("Error al decodificar payload del evento", zap.String("outbox_id", evt.ID.String()), zap.Error(err))
		return
	}

	if err := w.publisher.Publish(ctx, payload); err != nil {
		w.log.Warn("⚠️ No se pudo publicar evento",
			zap.String("outbox_id", evt.ID.String()),
			zap.Error(err),
		)
		return // sigue pendiente, se reintenta en el siguiente tick
	}

	if err := w.repo.MarkOutboxProcessed(ctx, evt.ID); err != nil {
		w.log.Warn("⚠️ No se pudo marcar evento como procesado",
			zap.String("outbox_id", evt.ID.String()),
			zap.Error(err),
		)
		return
	}
	w.log.Info("✅ Evento publicado y marcado",
		zap.String("outbox_id", evt.ID.String()),
		zap.String("event_type", evt.EventType),
	)
}
