package domain

import (
	"errors"
	"fmt"
	"time"

	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
)

// ---------- Errores de dominio ----------
var (
	ErrAddonNotFound     = errors.New("addon not found")
	ErrUnknownProvider   = errors.New("unknown addon provider")
	ErrMissingParameters = errors.New("missing required parameters")
	ErrInvalidAddon      = errors.New("invalid addon")
)

const (
	// MaskedValue sustituye a los parámetros sensibles en las lecturas.
	MaskedValue    = "*****"
	WildcardOption = "*"
)

// AddonConfig es la configuración de una integración (un destino de webhook, por ejemplo).
type AddonConfig struct {
	ID           int64             `json:"id"`
	Provider     string            `json:"provider"`
	Description  string            `json:"description"`
	Enabled      bool              `json:"enabled"`
	Parameters   map[string]string `json:"parameters"`
	Events       []string          `json:"events"`
	Projects     []string          `json:"projects"`
	Environments []string          `json:"environments"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// Validate comprueba la forma; el proveedor y sus parámetros los valida el servicio.
func (a *AddonConfig) Validate() error {
	if a.Provider == "" {
		return fmt.Errorf("%w: no addon provider supplied", ErrInvalidAddon)
	}
	if len(a.Events) == 0 {
		return fmt.Errorf("%w: at least one event is required", ErrInvalidAddon)
	}
	return nil
}

// Matches decide si el evento debe entregarse a esta integración.
// Un proyecto o entorno vacío en el evento, una lista vacía o el comodín "*" dejan pasar.
func (a *AddonConfig) Matches(e *eventDomain.Event) bool {
	if !contains(a.Events, e.Type) {
		return false
	}
	return scopeAllows(a.Projects, e.Project) && scopeAllows(a.Environments, e.Environment)
}

// AuditData es la representación sin parámetros que se guarda en los eventos addon-config-*.
func (a *AddonConfig) AuditData() map[string]interface{} {
	return map[string]interface{}{
		"id":           a.ID,
		"provider":     a.Provider,
		"description":  a.Description,
		"enabled":      a.Enabled,
		"events":       a.Events,
		"projects":     a.Projects,
		"environments": a.Environments,
		"createdAt":    a.CreatedAt,
	}
}

func scopeAllows(scope []string, value string) bool {
	if value == "" || len(scope) == 0 || scope[0] == WildcardOption {
		return true
	}
	return contains(scope, value)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// AddonFilter se usa en AddonRepository.GetAll; nil significa sin filtro.
type AddonFilter struct {
	Enabled *bool
}
