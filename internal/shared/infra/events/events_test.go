package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type keyedEvent struct {
	Name string `json:"name"`
}

func (e keyedEvent) PartitionKey() string { return e.Name }

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

type recordingHandler struct {
	mu       sync.Mutex
	payloads [][]byte
	done     chan struct{}
}

func (h *recordingHandler) HandleMessage(ctx context.Context, key string, payload []byte) {
	h.mu.Lock()
	h.payloads = append(h.payloads, payload)
	h.mu.Unlock()
	h.done <- struct{}{}
}

func TestInMemoryEventBus_DeliversSerializedPayload(t *testing.T) {
	// ARRANGE
	bus := NewInMemoryEventBus("domain-events")
	ch := bus.Subscribe(1)

	// ACT
	err := bus.Publish(context.Background(), keyedEvent{Name: "my-flag"})

	// ASSERT
	require.NoError(t, err)
	select {
	case msg := <-ch:
		assert.JSONEq(t, `{"name":"my-flag"}`, string(msg.([]byte)))
	case <-time.After(time.Second):
		t.Fatal("el suscriptor no recibió el evento")
	}
}

func TestInMemoryEventBus_FullBufferReturnsError(t *testing.T) {
	bus := NewInMemoryEventBus("domain-events")
	ch := bus.Subscribe(1)

	require.NoError(t, bus.Publish(context.Background(), keyedEvent{Name: "a"}))
	assert.ErrorIs(t, bus.Publish(context.Background(), keyedEvent{Name: "b"}), ErrSubscriberFull)
	assert.Len(t, ch, 1)

	// Al vaciarse el buffer el mismo evento entra
	<-ch
	assert.NoError(t, bus.Publish(context.Background(), keyedEvent{Name: "b"}))
}

func TestBackgroundConsumerChan_ForwardsBytes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewInMemoryEventBus("domain-events")
	handler := &recordingHandler{done: make(chan struct{}, 1)}
	BackgroundConsumerChan(ctx, bus.Subscribe(1), handler, zap.NewNop())

	require.NoError(t, bus.Publish(ctx, keyedEvent{Name: "x"}))

	select {
	case <-handler.done:
	case <-time.After(time.Second):
		t.Fatal("el handler no fue invocado")
	}
	var got keyedEvent
	require.NoError(t, json.Unmarshal(handler.payloads[0], &got))
	assert.Equal(t, "x", got.Name)
}

func TestKafkaPublisher_UsesPartitionKey(t *testing.T) {
	writer := &fakeWriter{}
	pub := NewKafkaPublisher(writer, zap.NewNop())

	err := pub.Publish(context.Background(), keyedEvent{Name: "flag-a"})

	require.NoError(t, err)
	require.Len(t, writer.msgs, 1)
	assert.Equal(t, "flag-a", string(writer.msgs[0].Key))
	assert.JSONEq(t, `{"name":"flag-a"}`, string(writer.msgs[0].Value))
}

func TestKafkaPublisher_PropagatesWriterError(t *testing.T) {
	writer := &fakeWriter{err: errors.New("kafka is down")}
	pub := NewKafkaPublisher(writer, zap.NewNop())

	err := pub.Publish(context.Background(), keyedEvent{Name: "flag-a"})

	assert.EqualError(t, err, "kafka is down")
}
