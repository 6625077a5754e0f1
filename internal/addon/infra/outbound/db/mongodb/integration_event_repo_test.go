package mongodb

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/davicafu/flaghooks/internal/addon/domain"
)

func TestToDomainOutcome(t *testing.T) {
	doc := mongoOutcome{
		ID:            4,
		IntegrationID: 2,
		State:         "successWithErrors",
		StateDetails:  "Could not parse the JSON in the customHeaders parameter.",
		Event:         `{"type":"feature-created"}`,
		Details:       mongoDeliveryDetails{URL: "http://hooks.test", ContentType: "application/json", Body: `{"id":1}`},
		CreatedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	o, err := toDomainOutcome(doc)

	require.NoError(t, err)
	assert.Equal(t, domain.StateSuccessWithErrors, o.State)
	assert.Equal(t, map[string]interface{}{"id": float64(1)}, o.Details.Body)
	assert.JSONEq(t, doc.Event, string(o.Event))
}

func TestToDomainOutcome_UnknownState(t *testing.T) {
	_, err := toDomainOutcome(mongoOutcome{State: "exploded"})
	assert.Error(t, err)
}

// Requiere MongoDB: MONGO_URI=mongodb://localhost:27017 go test ./...
func TestIntegrationEventRepoMongoDB(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	dbName := "flaghooks_test_" + uuid.NewString()[:8]
	defer func() {
		_ = client.Database(dbName).Drop(ctx)
		_ = client.Disconnect(ctx)
	}()

	repo, err := NewIntegrationEventRepoMongoDB(ctx, client, dbName)
	require.NoError(t, err)
	require.NoError(t, repo.EnsureIndexes(ctx))
	repo.now = func() time.Time { return time.Now().UTC().Add(-48 * time.Hour) }

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Insert(ctx, &domain.DeliveryOutcome{
			IntegrationID: 1,
			State:         domain.StateSuccess,
			Event:         json.RawMessage(`{"type":"feature-created"}`),
			Details:       domain.DeliveryDetails{Body: "hi"},
		}))
	}

	page, err := repo.GetPaginatedEvents(ctx, 1, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(3), page[0].ID)
	assert.Equal(t, "hi", page[0].Details.Body)

	removed, err := repo.CleanUpEvents(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
}
