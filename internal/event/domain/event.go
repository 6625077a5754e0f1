package domain

import (
	"errors"
	"strconv"
	"time"
)

var (
	ErrInvalidEvent  = errors.New("invalid event")
	ErrEventNotFound = errors.New("event not found")
)

// Tag es una etiqueta tipo:valor asociada a un evento.
type Tag struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Event es un cambio ocurrido en el sistema de flags. Una vez almacenado no se modifica:
// los consumidores lo reciben por puntero y solo lo leen.
type Event struct {
	ID              int64                  `json:"id"`
	CreatedAt       time.Time              `json:"createdAt"`
	Type            string                 `json:"type"`
	CreatedBy       string                 `json:"createdBy"`
	CreatedByUserID int64                  `json:"createdByUserId"`
	FeatureName     string                 `json:"featureName,omitempty"`
	Project         string                 `json:"project,omitempty"`
	Environment     string                 `json:"environment,omitempty"`
	Data            map[string]interface{} `json:"data"`
	PreData         map[string]interface{} `json:"preData,omitempty"`
	Tags            []Tag                  `json:"tags,omitempty"`
}

// Validate comprueba los campos mínimos antes de persistir.
func (e *Event) Validate() error {
	if e.Type == "" || e.CreatedBy == "" {
		return ErrInvalidEvent
	}
	return nil
}

// PartitionKey agrupa en Kafka los eventos del mismo flag (o del mismo tipo si no hay flag).
func (e Event) PartitionKey() string {
	if e.FeatureName != "" {
		return e.FeatureName
	}
	if e.ID != 0 {
		return strconv.FormatInt(e.ID, 10)
	}
	return e.Type
}
