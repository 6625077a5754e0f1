package relayer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
	sharedDomain "github.com/davicafu/flaghooks/internal/shared/domain"
	sharedEvents "github.com/davicafu/flaghooks/internal/shared/domain/events"
	infraEvents "github.com/davicafu/flaghooks/internal/shared/infra/events"
	sharedBus "github.com/davicafu/flaghooks/internal/shared/infra/platform/bus"
	"github.com/davicafu/flaghooks/tests/mocks"
)

func TestOutboxWorker_ProcessBatch_Success(t *testing.T) {
	// ARRANGE
	repo := new(mocks.MockOutboxRepository)
	publisher := new(mocks.MockPublisher)

	outboxID := uuid.New()
	pending := sharedDomain.OutboxEvent{
		ID:        outboxID,
		EventType: eventDomain.FeatureCreated,
		Payload: map[string]interface{}{
			"id":          float64(7),
			"type":        eventDomain.FeatureCreated,
			"createdBy":   "admin",
			"featureName": "my-flag",
			"data":        map[string]interface{}{"name": "my-flag"},
		},
	}

	repo.On("FetchPendingOutbox", mock.Anything, 10).Return([]sharedDomain.OutboxEvent{pending}, nil).Once()
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e *eventDomain.Event) bool {
		return e.ID == 7 && e.FeatureName == "my-flag" && e.Data["name"] == "my-flag"
	})).Return(nil).Once()
	repo.On("MarkOutboxProcessed", mock.Anything, outboxID).Return(nil).Once()

	worker := NewOutboxWorker(repo, publisher, eventDomain.NewEventRegistry(), 0, 10, zap.NewNop())

	// ACT
	worker.ProcessBatch(context.Background())

	// ASSERT
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOutboxWorker_ProcessBatch_PublisherFails(t *testing.T) {
	// ARRANGE
	repo := new(mocks.MockOutboxRepository)
	publisher := new(mocks.MockPublisher)

	pending := sharedDomain.OutboxEvent{ID: uuid.New(), EventType: eventDomain.FeatureCreated, Payload: map[string]interface{}{}}

	repo.On("FetchPendingOutbox", mock.Anything, 10).Return([]sharedDomain.OutboxEvent{pending}, nil).Once()
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("kafka is down")).Once()

	worker := NewOutboxWorker(repo, publisher, eventDomain.NewEventRegistry(), 0, 10, zap.NewNop())

	// ACT
	worker.ProcessBatch(context.Background())

	// ASSERT
	publisher.AssertCalled(t, "Publish", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkOutboxProcessed", mock.Anything, mock.Anything)
}

func TestOutboxWorker_ProcessBatch_UnknownEventType(t *testing.T) {
	// ARRANGE
	repo := new(mocks.MockOutboxRepository)
	publisher := new(mocks.MockPublisher)

	pending := sharedDomain.OutboxEvent{ID: uuid.New(), EventType: "unregistered.event", Payload: map[string]interface{}{}}
	repo.On("FetchPendingOutbox", mock.Anything, 10).Return([]sharedDomain.OutboxEvent{pending}, nil).Once()

	worker := NewOutboxWorker(repo, publisher, sharedEvents.Registry{}, 0, 10, zap.NewNop())

	// ACT
	worker.ProcessBatch(context.Background())

	// ASSERT
	repo.AssertExpectations(t)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkOutboxProcessed", mock.Anything, mock.Anything)
}

func TestOutboxWorker_ProcessBatch_FetchError(t *testing.T) {
	repo := new(mocks.MockOutboxRepository)
	publisher := new(mocks.MockPublisher)
	repo.On("FetchPendingOutbox", mock.Anything, 5).Return([]sharedDomain.OutboxEvent(nil), errors.New("db locked")).Once()

	worker := NewOutboxWorker(repo, publisher, eventDomain.NewEventRegistry(), 0, 5, zap.NewNop())
	worker.ProcessBatch(context.Background())

	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	assert.True(t, repo.AssertExpectations(t))
}

// Verificación estática de que los mocks cumplen las interfaces.
var _ sharedDomain.OutboxRepository = (*mocks.MockOutboxRepository)(nil)
var _ sharedBus.EventBus = (*mocks.MockPublisher)(nil)

func TestOutboxWorker_ProcessBatch_FullInMemoryBusLeavesEventPending(t *testing.T) {
	// ARRANGE
	repo := new(mocks.MockOutboxRepository)
	bus := infraEvents.NewInMemoryEventBus(eventDomain.DomainEventTopic)
	ch := bus.Subscribe(1)

	first := sharedDomain.OutboxEvent{ID: uuid.New(), EventType: eventDomain.FeatureCreated, Payload: map[string]interface{}{"featureName": "a"}}
	second := sharedDomain.OutboxEvent{ID: uuid.New(), EventType: eventDomain.FeatureCreated, Payload: map[string]interface{}{"featureName": "b"}}

	repo.On("FetchPendingOutbox", mock.Anything, 10).Return([]sharedDomain.OutboxEvent{first, second}, nil).Once()
	repo.On("MarkOutboxProcessed", mock.Anything, first.ID).Return(nil).Once()

	worker := NewOutboxWorker(repo, bus, eventDomain.NewEventRegistry(), 0, 10, zap.NewNop())

	// ACT
	worker.ProcessBatch(context.Background())

	// ASSERT
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "MarkOutboxProcessed", mock.Anything, second.ID)
	assert.Len(t, ch, 1)

	// El siguiente tick, con el buffer libre, publica el pendiente
	<-ch
	repo.On("FetchPendingOutbox", mock.Anything, 10).Return([]sharedDomain.OutboxEvent{second}, nil).Once()
	repo.On("MarkOutboxProcessed", mock.Anything, second.ID).Return(nil).Once()

	worker.ProcessBatch(context.Background())

	repo.AssertExpectations(t)
	assert.Len(t, ch, 1)
}
