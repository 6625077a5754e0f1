package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davicafu/flaghooks/internal/shared/domain"
)

func TestOutboxRepoSQLite_FetchAndMark(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, InitOutboxSchema(ctx, db))

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	first := domain.OutboxEvent{ID: uuid.New(), AggregateType: "event", AggregateID: "1", EventType: "feature-created",
		Payload: map[string]interface{}{"id": 1}, CreatedAt: base}
	second := domain.OutboxEvent{ID: uuid.New(), AggregateType: "event", AggregateID: "2", EventType: "feature-archived",
		Payload: map[string]interface{}{"id": 2}, CreatedAt: base.Add(time.Second)}

	for _, evt := range []domain.OutboxEvent{second, first} {
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		require.NoError(t, InsertOutboxTx(ctx, tx, evt))
		require.NoError(t, tx.Commit())
	}
	repo := NewOutboxRepoSQLite(db)

	// ACT
	pending, err := repo.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)

	// ASSERT
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, base, pending[0].CreatedAt)
	assert.Equal(t, float64(1), pending[0].Payload.(map[string]interface{})["id"])

	require.NoError(t, repo.MarkOutboxProcessed(ctx, first.ID))
	pending, err = repo.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	assert.Error(t, repo.MarkOutboxProcessed(ctx, uuid.New()))
}
