package integration

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	addonApp "github.com/davicafu/flaghooks/internal/addon/application"
	addonDomain "github.com/davicafu/flaghooks/internal/addon/domain"
	addonSQLite "github.com/davicafu/flaghooks/internal/addon/infra/outbound/db/sqlite"
	"github.com/davicafu/flaghooks/internal/addon/infra/outbound/flags"
	"github.com/davicafu/flaghooks/internal/addon/infra/outbound/formatter"
	"github.com/davicafu/flaghooks/internal/addon/infra/outbound/httpclient"
	"github.com/davicafu/flaghooks/internal/addon/infra/outbound/template"
	eventApp "github.com/davicafu/flaghooks/internal/event/application"
	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
	eventConsumer "github.com/davicafu/flaghooks/internal/event/infra/inbound/events"
	eventSQLite "github.com/davicafu/flaghooks/internal/event/infra/outbound/db/sqlite"
	infraEvents "github.com/davicafu/flaghooks/internal/shared/infra/events"
	sharedSQLite "github.com/davicafu/flaghooks/internal/shared/infra/platform/db/sqlite"
	"github.com/davicafu/flaghooks/internal/shared/infra/platform/query"
	"github.com/davicafu/flaghooks/internal/shared/infra/relayer"
	"github.com/davicafu/flaghooks/tests/mocks"
)

type receivedRequest struct {
	body          string
	contentType   string
	authorization string
}

type webhookTarget struct {
	mu       sync.Mutex
	requests []receivedRequest
}

func (t *webhookTarget) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	t.mu.Lock()
	t.requests = append(t.requests, receivedRequest{
		body:          string(body),
		contentType:   r.Header.Get("Content-Type"),
		authorization: r.Header.Get("Authorization"),
	})
	t.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (t *webhookTarget) received() []receivedRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]receivedRequest(nil), t.requests...)
}

func setupTestDB(t *testing.T) *sql.DB {
	ctx := context.Background()
	db, err := sharedSQLite.Open(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, eventSQLite.InitEventSchema(ctx, db))
	require.NoError(t, addonSQLite.InitAddonSchema(ctx, db))
	t.Cleanup(func() { db.Close() })
	return db
}

// Recorre el camino completo: evento -> outbox -> bus -> integraciones -> webhook -> historial.
func TestWebhookDelivery_FromStoredEventToIntegrationHistory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log := zap.NewNop()
	db := setupTestDB(t)

	target := &webhookTarget{}
	srv := httptest.NewServer(target)
	defer srv.Close()

	integrationEvents := addonApp.NewIntegrationEventsService(addonSQLite.NewIntegrationEventRepoSQLite(db), nil, time.Hour, log)
	webhook := addonApp.NewWebhookAddon(
		httpclient.NewRetryClientWithHTTP(srv.Client(), httpclient.DefaultOptions(), log),
		template.NewMustacheRenderer(),
		formatter.NewMarkdownFormatter("http://flags.local", formatter.LinkStyleMarkdown, log),
		flags.NewStaticResolver(nil),
		integrationEvents,
		log,
	)
	eventService := eventApp.NewEventService(eventSQLite.NewEventRepoSQLite(db), log)
	addonService := addonApp.NewAddonService(
		addonSQLite.NewAddonRepoSQLite(db),
		mocks.NewDummyCache(),
		eventService,
		[]addonDomain.Provider{webhook},
		log,
	)

	addon, err := addonService.CreateAddon(ctx, &addonDomain.AddonConfig{
		Provider: addonDomain.WebhookProviderName,
		Enabled:  true,
		Parameters: map[string]string{
			addonDomain.ParamURL:           srv.URL,
			addonDomain.ParamBodyTemplate:  `{"flag":"{{event.featureName}}","by":"{{event.createdBy}}"}`,
			addonDomain.ParamAuthorization: "Bearer s3cret",
		},
		Events:   []string{eventDomain.FeatureCreated},
		Projects: []string{"default"},
	}, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, addonDomain.MaskedValue, addon.Parameters[addonDomain.ParamAuthorization])

	bus := infraEvents.NewInMemoryEventBus(eventDomain.DomainEventTopic)
	consumer := eventConsumer.NewDomainEventConsumer(addonService, 5*time.Second, log)
	infraEvents.BackgroundConsumerChan(ctx, bus.Subscribe(10), consumer, log)

	require.NoError(t, eventService.StoreEvent(ctx, &eventDomain.Event{
		Type:        eventDomain.FeatureCreated,
		CreatedBy:   "alice@example.com",
		FeatureName: "new-checkout",
		Project:     "default",
		Data:        map[string]interface{}{"name": "new-checkout"},
	}))

	// El addon-config-created también pasa por el outbox, pero ninguna integración lo escucha.
	worker := relayer.NewOutboxWorker(sharedSQLite.NewOutboxRepoSQLite(db), bus, eventDomain.NewEventRegistry(), time.Hour, 10, log)
	worker.ProcessBatch(ctx)

	assert.Eventually(t, func() bool {
		outcomes, err := integrationEvents.GetPaginatedEvents(ctx, addon.ID, query.OffsetPagination{})
		return err == nil && len(outcomes) == 1
	}, 2*time.Second, 20*time.Millisecond)

	reqs := target.received()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"flag":"new-checkout","by":"alice@example.com"}`, reqs[0].body)
	assert.Equal(t, addonDomain.DefaultContentType, reqs[0].contentType)
	assert.Equal(t, "Bearer s3cret", reqs[0].authorization)

	outcomes, err := integrationEvents.GetPaginatedEvents(ctx, addon.ID, query.OffsetPagination{})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, addonDomain.StateSuccess, outcomes[0].State)
	assert.Equal(t, "Webhook request was successful with status code: 200.", outcomes[0].StateDetails)
	assert.Equal(t, srv.URL, outcomes[0].Details.URL)

	// Un segundo lote no vuelve a publicar lo ya marcado.
	worker.ProcessBatch(ctx)
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, target.received(), 1)
}

func TestWebhookDelivery_EventOutsideScopeIsNotDelivered(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()
	db := setupTestDB(t)

	target := &webhookTarget{}
	srv := httptest.NewServer(target)
	defer srv.Close()

	integrationEvents := addonApp.NewIntegrationEventsService(addonSQLite.NewIntegrationEventRepoSQLite(db), nil, time.Hour, log)
	webhook := addonApp.NewWebhookAddon(
		httpclient.NewRetryClientWithHTTP(srv.Client(), httpclient.DefaultOptions(), log),
		template.NewMustacheRenderer(),
		formatter.NewMarkdownFormatter("http://flags.local", formatter.LinkStyleMarkdown, log),
		flags.NewStaticResolver(nil),
		integrationEvents,
		log,
	)
	eventService := eventApp.NewEventService(eventSQLite.NewEventRepoSQLite(db), log)
	addonService := addonApp.NewAddonService(addonSQLite.NewAddonRepoSQLite(db), mocks.NewDummyCache(), eventService, []addonDomain.Provider{webhook}, log)

	_, err := addonService.CreateAddon(ctx, &addonDomain.AddonConfig{
		Provider:     addonDomain.WebhookProviderName,
		Enabled:      true,
		Parameters:   map[string]string{addonDomain.ParamURL: srv.URL},
		Events:       []string{eventDomain.FeatureCreated},
		Environments: []string{"production"},
	}, "admin@example.com")
	require.NoError(t, err)

	err = addonService.HandleEvent(ctx, &eventDomain.Event{
		ID:          1,
		Type:        eventDomain.FeatureCreated,
		CreatedBy:   "alice@example.com",
		FeatureName: "new-checkout",
		Environment: "development",
		Data:        map[string]interface{}{},
	})
	require.NoError(t, err)
	assert.Empty(t, target.received())
}
