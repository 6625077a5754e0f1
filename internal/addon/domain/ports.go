package domain

import (
	"context"
	"time"

	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
)

// ---------- Persistencia ----------

type AddonRepository interface {
	// Insert asigna ID y CreatedAt.
	Insert(ctx context.Context, a *AddonConfig) error

	// Debe devolver ErrAddonNotFound si no existe.
	Update(ctx context.Context, a *AddonConfig) error

	// Debe devolver ErrAddonNotFound si no existe.
	Delete(ctx context.Context, id int64) error

	// Debe devolver ErrAddonNotFound si no existe.
	Get(ctx context.Context, id int64) (*AddonConfig, error)

	GetAll(ctx context.Context, f AddonFilter) ([]*AddonConfig, error)
}

type IntegrationEventRepository interface {
	// Insert asigna ID y CreatedAt.
	Insert(ctx context.Context, o *DeliveryOutcome) error

	// GetPaginatedEvents devuelve los registros de una integración, el más reciente primero.
	GetPaginatedEvents(ctx context.Context, integrationID int64, limit, offset int) ([]*DeliveryOutcome, error)

	// CleanUpEvents borra los anteriores a olderThan salvo el último de cada integración.
	CleanUpEvents(ctx context.Context, olderThan time.Time) (int64, error)
}

// DeliveryAnalytics recibe copias de los resultados para análisis (ClickHouse).
type DeliveryAnalytics interface {
	LogBatch(ctx context.Context, outcomes []*DeliveryOutcome) error
}

// ---------- Colaboradores de la entrega ----------

// OutcomeSink registra el resultado de cada entrega.
type OutcomeSink interface {
	RegisterEvent(ctx context.Context, o *DeliveryOutcome) error
}

type Formatter interface {
	Format(e *eventDomain.Event) FormattedEvent
}

// TemplateRenderer sustituye {{...}} contra data.
type TemplateRenderer interface {
	Render(tmpl string, data interface{}) (string, error)
}

// HTTPPoster hace un POST lógico (los reintentos son cosa de la implementación).
// Solo devuelve error ante fallos de transporte; un status no 2xx es una respuesta normal.
type HTTPPoster interface {
	Post(ctx context.Context, url string, headers map[string]string, body string) (*HTTPResponse, error)
}

type FlagResolver interface {
	IsEnabled(name string) bool
}

// ---------- Proveedores ----------

// Provider es un tipo de integración capaz de entregar eventos.
type Provider interface {
	Definition() Definition
	HandleEvent(ctx context.Context, e *eventDomain.Event, parameters map[string]string, integrationID int64) error
}

// EventStore guarda los eventos de auditoría addon-config-*.
type EventStore interface {
	StoreEvent(ctx context.Context, e *eventDomain.Event) error
}

// ---------- Helpers ----------

const AddonConfigsCacheKey = "addons:enabled"
