package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/flaghooks/internal/event/application"
	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
	"github.com/davicafu/flaghooks/pkg/utils"
)

// EventHandler expone la ingesta y consulta de eventos de dominio.
type EventHandler struct {
	service *application.EventService
}

func NewEventHandler(service *application.EventService) *EventHandler {
	return &EventHandler{service: service}
}

type createEventRequest struct {
	Type            string                 `json:"type" binding:"required"`
	CreatedBy       string                 `json:"createdBy"`
	CreatedByUserID int64                  `json:"createdByUserId"`
	FeatureName     string                 `json:"featureName"`
	Project         string                 `json:"project"`
	Environment     string                 `json:"environment"`
	Data            map[string]interface{} `json:"data"`
	PreData         map[string]interface{} `json:"preData"`
	Tags            []eventDomain.Tag      `json:"tags"`
}

// CreateEvent endpoint POST /api/admin/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	if !eventDomain.IsKnownType(req.Type) {
		utils.SendBadRequest(c, "unknown event type: "+req.Type)
		return
	}

	e := &eventDomain.Event{
		Type:            req.Type,
		CreatedBy:       req.CreatedBy,
		CreatedByUserID: req.CreatedByUserID,
		FeatureName:     req.FeatureName,
		Project:         req.Project,
		Environment:     req.Environment,
		Data:            req.Data,
		PreData:         req.PreData,
		Tags:            req.Tags,
	}
	if e.CreatedBy == "" {
		e.CreatedBy = utils.Actor(c)
	}

	if err := h.service.StoreEvent(c.Request.Context(), e); err != nil {
		if errors.Is(err, eventDomain.ErrInvalidEvent) {
			utils.SendBadRequest(c, err.Error())
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusCreated, e)
}

// GetEvent endpoint GET /api/admin/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.SendBadRequest(c, "invalid event id")
		return
	}

	e, err := h.service.GetEvent(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, eventDomain.ErrEventNotFound) {
			utils.SendNotFound(c, "event not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, e)
}

// ListEvents endpoint GET /api/admin/events?type=&feature=&project=&limit=&offset=
func (h *EventHandler) ListEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	events, err := h.service.GetEvents(c.Request.Context(), eventDomain.EventFilter{
		Type:        c.Query("type"),
		FeatureName: c.Query("feature"),
		Project:     c.Query("project"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, events)
}
