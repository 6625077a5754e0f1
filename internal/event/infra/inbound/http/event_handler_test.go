package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/flaghooks/internal/event/application"
	"github.com/davicafu/flaghooks/tests/mocks"
)

func newTestRouter() (*gin.Engine, *mocks.InMemoryEventRepo) {
	gin.SetMode(gin.TestMode)
	repo := mocks.NewInMemoryEventRepo()
	r := gin.New()
	RegisterEventRoutes(r, NewEventHandler(application.NewEventService(repo, zap.NewNop())))
	return r, repo
}

func TestCreateEvent_StoresWithOutbox(t *testing.T) {
	// ARRANGE
	r, repo := newTestRouter()
	body := `{"type":"feature-created","featureName":"flag","project":"default","data":{"name":"flag"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Email", "dev@example.com")
	rec := httptest.NewRecorder()

	// ACT
	r.ServeHTTP(rec, req)

	// ASSERT
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Data struct {
			ID        int64  `json:"id"`
			CreatedBy string `json:"createdBy"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Data.ID)
	assert.Equal(t, "dev@example.com", resp.Data.CreatedBy)
	assert.Len(t, repo.Outbox, 1)
}

func TestCreateEvent_RejectsUnknownType(t *testing.T) {
	r, repo := newTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/events", strings.NewReader(`{"type":"made-up"}`))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.Outbox)
}

func TestCreateEvent_RejectsMissingType(t *testing.T) {
	r, _ := newTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/events", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEvent(t *testing.T) {
	r, _ := newTestRouter()
	create := httptest.NewRequest(http.MethodPost, "/api/admin/events", strings.NewReader(`{"type":"feature-archived","createdBy":"a"}`))
	r.ServeHTTP(httptest.NewRecorder(), create)

	found := httptest.NewRecorder()
	r.ServeHTTP(found, httptest.NewRequest(http.MethodGet, "/api/admin/events/1", nil))
	missing := httptest.NewRecorder()
	r.ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/api/admin/events/42", nil))
	bad := httptest.NewRecorder()
	r.ServeHTTP(bad, httptest.NewRequest(http.MethodGet, "/api/admin/events/abc", nil))

	assert.Equal(t, http.StatusOK, found.Code)
	assert.Contains(t, found.Body.String(), `"feature-archived"`)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestListEvents_FiltersByType(t *testing.T) {
	r, _ := newTestRouter()
	for _, typ := range []string{"feature-created", "feature-archived", "feature-created"} {
		r.ServeHTTP(httptest.NewRecorder(),
			httptest.NewRequest(http.MethodPost, "/api/admin/events", strings.NewReader(`{"type":"`+typ+`","createdBy":"a"}`)))
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/events?type=feature-created", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}
