package domain

import (
	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
)

// ParameterDefinition describe un parámetro configurable de un proveedor.
type ParameterDefinition struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required"`
	Sensitive   bool   `json:"sensitive"`
}

// Definition es la ficha pública de un proveedor de integraciones.
type Definition struct {
	Name             string                `json:"name"`
	DisplayName      string                `json:"displayName"`
	Description      string                `json:"description"`
	DocumentationURL string                `json:"documentationUrl,omitempty"`
	Parameters       []ParameterDefinition `json:"parameters"`
	Events           []string              `json:"events"`
}

func (d Definition) SensitiveParameters() []string {
	var out []string
	for _, p := range d.Parameters {
		if p.Sensitive {
			out = append(out, p.Name)
		}
	}
	return out
}

// MissingParameters devuelve los parámetros requeridos ausentes o vacíos.
func (d Definition) MissingParameters(params map[string]string) []string {
	var missing []string
	for _, p := range d.Parameters {
		if p.Required && params[p.Name] == "" {
			missing = append(missing, p.Name)
		}
	}
	return missing
}

const WebhookProviderName = "webhook"

// WebhookDefinition describe el proveedor de webhooks genéricos.
var WebhookDefinition = Definition{
	Name:        WebhookProviderName,
	DisplayName: "Webhook",
	Description: "A Webhook is a generic way to post event messages to third party services.",
	Parameters: []ParameterDefinition{
		{
			Name:        ParamURL,
			DisplayName: "Webhook URL",
			Type:        "url",
			Description: "The webhook URL that will receive the event payload.",
			Placeholder: "https://example.com/webhook",
			Required:    true,
		},
		{
			Name:        ParamContentType,
			DisplayName: "Content-Type",
			Type:        "text",
			Description: "(Optional) The Content-Type header to use. Defaults to \"application/json\".",
			Placeholder: DefaultContentType,
		},
		{
			Name:        ParamAuthorization,
			DisplayName: "Authorization",
			Type:        "text",
			Description: "(Optional) The Authorization header to use. Not used if left blank.",
			Sensitive:   true,
		},
		{
			Name:        ParamBodyTemplate,
			DisplayName: "Body template",
			Type:        "textfield",
			Description: "(Optional) You may format the body using a mustache template. If you don't specify anything, the format will be similar to the events format.",
			Placeholder: `{"event": "{{event.type}}", "createdBy": "{{event.createdBy}}"}`,
		},
		{
			Name:        ParamCustomHeaders,
			DisplayName: "Extra HTTP Headers",
			Type:        "textfield",
			Description: "(Optional) Used to add extra HTTP Headers to the request the plugin fires off. This must be a valid json object of key-value pairs where both the key and the value are strings.",
			Placeholder: `{"ISTIO_USER_KEY": "hunter2", "SOME_OTHER_CUSTOM_HTTP_HEADER": "SOMEVALUE"}`,
			Sensitive:   true,
		},
	},
	Events: eventDomain.AllTypes(),
}
