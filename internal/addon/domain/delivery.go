package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	ParamURL           = "url"
	ParamBodyTemplate  = "bodyTemplate"
	ParamContentType   = "contentType"
	ParamAuthorization = "authorization"
	ParamCustomHeaders = "customHeaders"

	DefaultContentType = "application/json"
)

// DeliveryParameters son los parámetros de un destino webhook para una entrega concreta.
type DeliveryParameters struct {
	URL           string
	BodyTemplate  string
	ContentType   string
	Authorization string
	CustomHeaders string // objeto JSON codificado
}

// ParseDeliveryParameters extrae los parámetros de la configuración de la integración.
func ParseDeliveryParameters(params map[string]string) (DeliveryParameters, error) {
	p := DeliveryParameters{
		URL:           params[ParamURL],
		BodyTemplate:  params[ParamBodyTemplate],
		ContentType:   params[ParamContentType],
		Authorization: params[ParamAuthorization],
		CustomHeaders: params[ParamCustomHeaders],
	}
	if p.URL == "" {
		return p, fmt.Errorf("%w: %s", ErrMissingParameters, ParamURL)
	}
	return p, nil
}

// DeliveryState solo puede empeorar dentro de una entrega: success < successWithErrors < failed.
type DeliveryState int

const (
	StateSuccess DeliveryState = iota
	StateSuccessWithErrors
	StateFailed
)

var stateNames = map[DeliveryState]string{
	StateSuccess:           "success",
	StateSuccessWithErrors: "successWithErrors",
	StateFailed:            "failed",
}

func (s DeliveryState) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("DeliveryState(%d)", int(s))
}

// Degrade devuelve el peor de los dos estados.
func (s DeliveryState) Degrade(to DeliveryState) DeliveryState {
	if to > s {
		return to
	}
	return s
}

func ParseDeliveryState(v string) (DeliveryState, error) {
	for s, n := range stateNames {
		if n == v {
			return s, nil
		}
	}
	return StateSuccess, fmt.Errorf("unknown delivery state %q", v)
}

func (s DeliveryState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *DeliveryState) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseDeliveryState(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// DeliveryDetails resume la petición enviada. Body es el evento estructurado cuando
// se envió el evento en crudo, o el texto renderizado cuando se usó una plantilla.
type DeliveryDetails struct {
	URL         string      `json:"url"`
	ContentType string      `json:"contentType"`
	Body        interface{} `json:"body"`
}

// DeliveryOutcome es el registro de una entrega; se crea uno por llamada.
type DeliveryOutcome struct {
	ID            int64           `json:"id"`
	IntegrationID int64           `json:"integrationId"`
	State         DeliveryState   `json:"state"`
	StateDetails  string          `json:"stateDetails"`
	Event         json.RawMessage `json:"event"`
	Details       DeliveryDetails `json:"details"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// HTTPResponse es lo único que interesa de la respuesta del destino.
type HTTPResponse struct {
	Status int
	OK     bool
}

// FormattedEvent es el resumen legible de un evento.
type FormattedEvent struct {
	Text string
	URL  string
}
