package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/flaghooks/internal/shared/domain/events"
)

const (
	DomainEventTopic = "domain-events"
	AggregateType    = "event"
)

// NewEventRegistry registra todos los tipos de evento con el mismo payload (Event).
func NewEventRegistry() sharedEvents.Registry {
	reg := make(sharedEvents.Registry, len(allTypes))
	for _, t := range allTypes {
		reg[t] = sharedEvents.EventMetadata{
			Type:  reflect.TypeOf(Event{}),
			Topic: DomainEventTopic,
		}
	}
	return reg
}
