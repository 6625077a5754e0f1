package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/flaghooks/internal/addon/application"
	"github.com/davicafu/flaghooks/internal/addon/domain"
	sharedQuery "github.com/davicafu/flaghooks/internal/shared/infra/platform/query"
	"github.com/davicafu/flaghooks/pkg/utils"
)

// AddonHandler encapsula los endpoints HTTP de integraciones.
type AddonHandler struct {
	addons *application.AddonService
	events *application.IntegrationEventsService
}

func NewAddonHandler(addons *application.AddonService, events *application.IntegrationEventsService) *AddonHandler {
	return &AddonHandler{addons: addons, events: events}
}

type addonRequest struct {
	Provider     string            `json:"provider" binding:"required"`
	Description  string            `json:"description"`
	Enabled      *bool             `json:"enabled"`
	Parameters   map[string]string `json:"parameters"`
	Events       []string          `json:"events"`
	Projects     []string          `json:"projects"`
	Environments []string          `json:"environments"`
}

func (r addonRequest) toConfig() *domain.AddonConfig {
	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}
	return &domain.AddonConfig{
		Provider:     r.Provider,
		Description:  r.Description,
		Enabled:      enabled,
		Parameters:   r.Parameters,
		Events:       r.Events,
		Projects:     r.Projects,
		Environments: r.Environments,
	}
}

// ListAddons endpoint GET /api/admin/addons
func (h *AddonHandler) ListAddons(c *gin.Context) {
	addons, err := h.addons.GetAddons(c.Request.Context())
	if err != nil {
		sendAddonError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, gin.H{
		"addons":    addons,
		"providers": h.addons.GetProviderDefinitions(),
	})
}

// ListProviders endpoint GET /api/admin/addons/providers
func (h *AddonHandler) ListProviders(c *gin.Context) {
	utils.SendSuccess(c, http.StatusOK, h.addons.GetProviderDefinitions())
}

// CreateAddon endpoint POST /api/admin/addons
func (h *AddonHandler) CreateAddon(c *gin.Context) {
	var req addonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	created, err := h.addons.CreateAddon(c.Request.Context(), req.toConfig(), utils.Actor(c))
	if err != nil {
		sendAddonError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, created)
}

// GetAddon endpoint GET /api/admin/addons/:id
func (h *AddonHandler) GetAddon(c *gin.Context) {
	id, ok := addonID(c)
	if !ok {
		return
	}
	a, err := h.addons.GetAddon(c.Request.Context(), id)
	if err != nil {
		sendAddonError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, a)
}

// UpdateAddon endpoint PUT /api/admin/addons/:id
func (h *AddonHandler) UpdateAddon(c *gin.Context) {
	id, ok := addonID(c)
	if !ok {
		return
	}
	var req addonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	updated, err := h.addons.UpdateAddon(c.Request.Context(), id, req.toConfig(), utils.Actor(c))
	if err != nil {
		sendAddonError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, updated)
}

// DeleteAddon endpoint DELETE /api/admin/addons/:id
func (h *AddonHandler) DeleteAddon(c *gin.Context) {
	id, ok := addonID(c)
	if !ok {
		return
	}
	if err := h.addons.RemoveAddon(c.Request.Context(), id, utils.Actor(c)); err != nil {
		sendAddonError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ListIntegrationEvents endpoint GET /api/admin/addons/:id/events?limit=&offset=
func (h *AddonHandler) ListIntegrationEvents(c *gin.Context) {
	id, ok := addonID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	outcomes, err := h.events.GetPaginatedEvents(c.Request.Context(), id, sharedQuery.OffsetPagination{Limit: limit, Offset: offset})
	if err != nil {
		sendAddonError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, outcomes)
}

func addonID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.SendBadRequest(c, "invalid addon id")
		return 0, false
	}
	return id, true
}

// sendAddonError traduce errores de dominio a códigos HTTP.
func sendAddonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrAddonNotFound):
		utils.SendNotFound(c, err.Error())
	case errors.Is(err, domain.ErrUnknownProvider),
		errors.Is(err, domain.ErrMissingParameters),
		errors.Is(err, domain.ErrInvalidAddon):
		utils.SendBadRequest(c, err.Error())
	default:
		utils.SendInternalServerError(c, err.Error())
	}
}
