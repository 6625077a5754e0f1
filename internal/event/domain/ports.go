package domain

import (
	"context"

	sharedDomain "github.com/davicafu/flaghooks/internal/shared/domain"
)

// EventRepository persiste eventos junto a su entrada de outbox en la misma transacción.
type EventRepository interface {
	// Store asigna ID al evento.
	Store(ctx context.Context, e *Event, outbox sharedDomain.OutboxEvent) error

	// Debe devolver ErrEventNotFound si no existe.
	GetByID(ctx context.Context, id int64) (*Event, error)

	// List devuelve los eventos más recientes primero.
	List(ctx context.Context, filter EventFilter) ([]*Event, error)
}

// EventFilter agrupa los criterios de búsqueda de EventRepository.List.
type EventFilter struct {
	Type        string
	FeatureName string
	Project     string
	Limit       int
	Offset      int
}
