package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	addonDomain "github.com/davicafu/flaghooks/internal/addon/domain"
	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
)

// ------------------- HTTP -------------------

// PostedRequest es una petición capturada por RecordingPoster.
type PostedRequest struct {
	URL     string
	Headers map[string]string
	Body    string
}

// RecordingPoster simula el cliente HTTP con reintentos y guarda cada POST.
// StatusByURL permite respuestas distintas por destino; por defecto responde 200.
type RecordingPoster struct {
	mu          sync.Mutex
	Requests    []PostedRequest
	StatusByURL map[string]int
	Err         error
}

func (p *RecordingPoster) Post(ctx context.Context, url string, headers map[string]string, body string) (*addonDomain.HTTPResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}

	copied := make(map[string]string, len(headers))
	for k, v := range headers {
		copied[k] = v
	}
	p.Requests = append(p.Requests, PostedRequest{URL: url, Headers: copied, Body: body})

	status := 200
	if s, ok := p.StatusByURL[url]; ok {
		status = s
	}
	return &addonDomain.HTTPResponse{Status: status, OK: status >= 200 && status < 300}, nil
}

func (p *RecordingPoster) Snapshot() []PostedRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PostedRequest(nil), p.Requests...)
}

// ------------------- Sink -------------------

// InMemorySink guarda los DeliveryOutcome registrados.
type InMemorySink struct {
	mu       sync.Mutex
	Outcomes []*addonDomain.DeliveryOutcome
	Err      error
}

func (s *InMemorySink) RegisterEvent(ctx context.Context, o *addonDomain.DeliveryOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Outcomes = append(s.Outcomes, o)
	return s.Err
}

func (s *InMemorySink) Snapshot() []*addonDomain.DeliveryOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*addonDomain.DeliveryOutcome(nil), s.Outcomes...)
}

// MockOutcomeSink es la versión testify para verificar llamadas.
type MockOutcomeSink struct {
	mock.Mock
}

func (m *MockOutcomeSink) RegisterEvent(ctx context.Context, o *addonDomain.DeliveryOutcome) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// ------------------- Flags -------------------

type StaticFlags map[string]bool

func (f StaticFlags) IsEnabled(name string) bool { return f[name] }

// ------------------- Provider -------------------

// MockProvider simula un proveedor de integraciones.
type MockProvider struct {
	mock.Mock
	Def addonDomain.Definition
}

func (m *MockProvider) Definition() addonDomain.Definition { return m.Def }

func (m *MockProvider) HandleEvent(ctx context.Context, e *eventDomain.Event, parameters map[string]string, integrationID int64) error {
	args := m.Called(ctx, e, parameters, integrationID)
	return args.Error(0)
}

// ------------------- Event store -------------------

// RecordingEventStore captura los eventos de auditoría que guarda AddonService.
type RecordingEventStore struct {
	mu     sync.Mutex
	Events []*eventDomain.Event
	Err    error
}

func (s *RecordingEventStore) StoreEvent(ctx context.Context, e *eventDomain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Events = append(s.Events, e)
	return nil
}
