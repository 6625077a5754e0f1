package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
	"github.com/davicafu/flaghooks/tests/mocks"
)

func TestStoreEvent_WritesEventAndOutbox(t *testing.T) {
	// ARRANGE
	repo := mocks.NewInMemoryEventRepo()
	svc := NewEventService(repo, zap.NewNop())
	e := &eventDomain.Event{
		Type:        eventDomain.FeatureCreated,
		CreatedBy:   "admin",
		FeatureName: "flag",
	}

	// ACT
	err := svc.StoreEvent(context.Background(), e)

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.ID)
	assert.False(t, e.CreatedAt.IsZero())
	assert.NotNil(t, e.Data)

	require.Len(t, repo.Outbox, 1)
	ob := repo.Outbox[0]
	assert.Equal(t, eventDomain.AggregateType, ob.AggregateType)
	assert.Equal(t, "1", ob.AggregateID)
	assert.Equal(t, eventDomain.FeatureCreated, ob.EventType)
	assert.Same(t, e, ob.Payload)
}

func TestStoreEvent_InvalidEvent(t *testing.T) {
	repo := mocks.NewInMemoryEventRepo()
	svc := NewEventService(repo, zap.NewNop())

	err := svc.StoreEvent(context.Background(), &eventDomain.Event{Type: eventDomain.FeatureCreated})

	assert.ErrorIs(t, err, eventDomain.ErrInvalidEvent)
	assert.Empty(t, repo.Outbox)
}

func TestStoreEvent_RepositoryError(t *testing.T) {
	repo := mocks.NewInMemoryEventRepo()
	repo.Err = errors.New("tx aborted")
	svc := NewEventService(repo, zap.NewNop())

	err := svc.StoreEvent(context.Background(), &eventDomain.Event{Type: eventDomain.FeatureCreated, CreatedBy: "x"})

	assert.EqualError(t, err, "tx aborted")
}

func TestGetEvents_FiltersAndClampsLimit(t *testing.T) {
	// ARRANGE
	repo := mocks.NewInMemoryEventRepo()
	svc := NewEventService(repo, zap.NewNop())
	ctx := context.Background()
	for i := 0; i < 105; i++ {
		require.NoError(t, svc.StoreEvent(ctx, &eventDomain.Event{Type: eventDomain.FeatureUpdated, CreatedBy: "x", FeatureName: "a"}))
	}
	require.NoError(t, svc.StoreEvent(ctx, &eventDomain.Event{Type: eventDomain.FeatureCreated, CreatedBy: "x", FeatureName: "b"}))

	// ACT
	all, err := svc.GetEvents(ctx, eventDomain.EventFilter{Limit: 500})
	require.NoError(t, err)
	onlyB, err := svc.GetEvents(ctx, eventDomain.EventFilter{FeatureName: "b"})
	require.NoError(t, err)

	// ASSERT
	assert.Len(t, all, 100)
	assert.Equal(t, int64(106), all[0].ID)
	require.Len(t, onlyB, 1)
	assert.Equal(t, eventDomain.FeatureCreated, onlyB[0].Type)

	got, err := svc.GetEvent(ctx, 106)
	require.NoError(t, err)
	assert.Equal(t, "b", got.FeatureName)

	_, err = svc.GetEvent(ctx, 999)
	assert.ErrorIs(t, err, eventDomain.ErrEventNotFound)
}
