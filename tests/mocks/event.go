package mocks

import (
	"context"
	"sort"
	"strconv"
	"sync"

	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
	sharedDomain "github.com/davicafu/flaghooks/internal/shared/domain"
)

// InMemoryEventRepo guarda eventos y outbox en memoria.
type InMemoryEventRepo struct {
	mu     sync.Mutex
	events []*eventDomain.Event
	Outbox []sharedDomain.OutboxEvent
	nextID int64
	Err    error
}

var _ eventDomain.EventRepository = (*InMemoryEventRepo)(nil)

func NewInMemoryEventRepo() *InMemoryEventRepo {
	return &InMemoryEventRepo{}
}

func (r *InMemoryEventRepo) Store(ctx context.Context, e *eventDomain.Event, outbox sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.nextID++
	e.ID = r.nextID
	outbox.AggregateID = strconv.FormatInt(e.ID, 10)
	c := *e
	r.events = append(r.events, &c)
	r.Outbox = append(r.Outbox, outbox)
	return nil
}

func (r *InMemoryEventRepo) GetByID(ctx context.Context, id int64) (*eventDomain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID == id {
			c := *e
			return &c, nil
		}
	}
	return nil, eventDomain.ErrEventNotFound
}

func (r *InMemoryEventRepo) List(ctx context.Context, f eventDomain.EventFilter) ([]*eventDomain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*eventDomain.Event
	for _, e := range r.events {
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.FeatureName != "" && e.FeatureName != f.FeatureName {
			continue
		}
		if f.Project != "" && e.Project != f.Project {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	if f.Offset >= len(out) {
		return []*eventDomain.Event{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}
