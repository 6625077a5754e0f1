package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
	sharedEvents "github.com/davicafu/flaghooks/internal/shared/infra/events"
)

type mockHandler struct {
	mock.Mock
}

func (m *mockHandler) HandleEvent(ctx context.Context, e *eventDomain.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func TestHandleMessage_DecodesAndDelivers(t *testing.T) {
	// ARRANGE
	h := new(mockHandler)
	h.On("HandleEvent", mock.Anything, mock.MatchedBy(func(e *eventDomain.Event) bool {
		return e.ID == 3 && e.Type == eventDomain.FeatureCreated && e.Data["name"] == "flag"
	})).Return(nil).Once()
	c := NewDomainEventConsumer(h, time.Second, zap.NewNop())

	// ACT
	c.HandleMessage(context.Background(), "flag",
		[]byte(`{"id":3,"type":"feature-created","createdBy":"admin","featureName":"flag","data":{"name":"flag"}}`))

	// ASSERT
	h.AssertExpectations(t)
}

func TestHandleMessage_AppliesTimeout(t *testing.T) {
	h := new(mockHandler)
	h.On("HandleEvent", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.Anything).Return(errors.New("boom")).Once()
	c := NewDomainEventConsumer(h, time.Second, zap.NewNop())

	c.HandleMessage(context.Background(), "", []byte(`{"type":"feature-created","createdBy":"x"}`))

	h.AssertExpectations(t)
}

func TestHandleMessage_IgnoresGarbage(t *testing.T) {
	h := new(mockHandler)
	c := NewDomainEventConsumer(h, time.Second, zap.NewNop())

	c.HandleMessage(context.Background(), "", []byte(`not json`))
	c.HandleMessage(context.Background(), "", []byte(`{"createdBy":"x"}`))

	h.AssertNotCalled(t, "HandleEvent", mock.Anything, mock.Anything)
}

func TestHandleMessage_ThroughInMemoryBus(t *testing.T) {
	// ARRANGE
	delivered := make(chan *eventDomain.Event, 1)
	h := new(mockHandler)
	h.On("HandleEvent", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		delivered <- args.Get(1).(*eventDomain.Event)
	}).Return(nil)

	bus := sharedEvents.NewInMemoryEventBus(eventDomain.DomainEventTopic)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sharedEvents.BackgroundConsumerChan(ctx, bus.Subscribe(4), NewDomainEventConsumer(h, time.Second, zap.NewNop()), zap.NewNop())

	// ACT
	err := bus.Publish(ctx, &eventDomain.Event{ID: 9, Type: eventDomain.FeatureArchived, CreatedBy: "admin"})
	require.NoError(t, err)

	// ASSERT
	select {
	case e := <-delivered:
		assert.Equal(t, int64(9), e.ID)
		assert.Equal(t, eventDomain.FeatureArchived, e.Type)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}
