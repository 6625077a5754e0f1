package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_Validate(t *testing.T) {
	assert.NoError(t, (&Event{Type: FeatureCreated, CreatedBy: "admin"}).Validate())
	assert.ErrorIs(t, (&Event{Type: FeatureCreated}).Validate(), ErrInvalidEvent)
	assert.ErrorIs(t, (&Event{CreatedBy: "admin"}).Validate(), ErrInvalidEvent)
}

func TestEvent_PartitionKey(t *testing.T) {
	assert.Equal(t, "my-flag", Event{ID: 7, FeatureName: "my-flag"}.PartitionKey())
	assert.Equal(t, "7", Event{ID: 7, Type: ProjectCreated}.PartitionKey())
	assert.Equal(t, ProjectCreated, Event{Type: ProjectCreated}.PartitionKey())
}

func TestEvent_JSONFieldNames(t *testing.T) {
	e := Event{
		ID:          1,
		CreatedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Type:        FeatureCreated,
		CreatedBy:   "some@email.com",
		FeatureName: "some-toggle",
		Data:        map[string]interface{}{"name": "some-toggle"},
	}

	raw, err := json.Marshal(e)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "feature-created", m["type"])
	assert.Equal(t, "some-toggle", m["featureName"])
	assert.Equal(t, "2024-01-02T03:04:05Z", m["createdAt"])
	assert.NotContains(t, m, "preData")
	assert.NotContains(t, m, "project")
}

func TestRegistry_CoversAllTypes(t *testing.T) {
	reg := NewEventRegistry()

	assert.Len(t, reg, len(AllTypes()))
	assert.Equal(t, DomainEventTopic, reg[FeatureStrategyUpdate].Topic)
	assert.True(t, IsKnownType(AddonConfigCreated))
	assert.False(t, IsKnownType("unregistered.event"))
}
