package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	sharedBus "github.com/davicafu/flaghooks/internal/shared/infra/platform/bus"
)

// InMemoryEventBus reparte los eventos de un único topic entre sus suscriptores
// usando canales. Los mensajes se entregan ya serializados ([]byte), igual que Kafka.
type InMemoryEventBus struct {
	subscribers []chan interface{}
	mu          sync.RWMutex
	topic       string
}

var _ sharedBus.EventBus = (*InMemoryEventBus)(nil)

// ErrSubscriberFull indica que algún suscriptor no tenía hueco; el evento debe reintentarse.
var ErrSubscriberFull = errors.New("in-memory bus: subscriber buffer full")

func NewInMemoryEventBus(topic string) *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers: make([]chan interface{}, 0),
		topic:       topic,
	}
}

func (b *InMemoryEventBus) Topic() string { return b.topic }

// Publish nunca bloquea. Si el buffer de algún suscriptor está lleno devuelve
// ErrSubscriberFull para que el outbox deje el evento pendiente; los suscriptores
// que sí lo recibieron pueden verlo de nuevo en el reintento.
func (b *InMemoryEventBus) Publish(ctx context.Context, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	b.mu.RLock()
	subs := append([]chan interface{}(nil), b.subscribers...)
	b.mu.RUnlock()

	full := 0
	for _, ch := range subs {
		select {
		case ch <- payload:
		default:
			full++
		}
	}
	if full > 0 {
		return ErrSubscriberFull
	}
	return nil
}

// Subscribe registra un nuevo oyente con el buffer indicado.
func (b *InMemoryEventBus) Subscribe(bufferSize int) <-chan interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan interface{}, bufferSize)
	b.subscribers = append(b.subscribers, ch)
	return ch
}
