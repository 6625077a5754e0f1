package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/davicafu/flaghooks/internal/addon/domain"
	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
	sharedUtils "github.com/davicafu/flaghooks/internal/shared/infra/utils"
)

const (
	WebhookDomainLoggingFlag = "webhookDomainLogging"

	customHeadersParseError = "Could not parse the JSON in the customHeaders parameter."
)

// WebhookAddon entrega un evento a un destino HTTP y registra el resultado.
// No guarda estado entre llamadas: puede atender entregas concurrentes.
type WebhookAddon struct {
	client    domain.HTTPPoster
	renderer  domain.TemplateRenderer
	formatter domain.Formatter
	flags     domain.FlagResolver
	sink      domain.OutcomeSink
	log       *zap.Logger
}

var _ domain.Provider = (*WebhookAddon)(nil)

func NewWebhookAddon(
	client domain.HTTPPoster,
	renderer domain.TemplateRenderer,
	formatter domain.Formatter,
	flags domain.FlagResolver,
	sink domain.OutcomeSink,
	log *zap.Logger,
) *WebhookAddon {
	return &WebhookAddon{
		client:    client,
		renderer:  renderer,
		formatter: formatter,
		flags:     flags,
		sink:      sink,
		log:       log,
	}
}

func (w *WebhookAddon) Definition() domain.Definition {
	return domain.WebhookDefinition
}

// HandleEvent hace exactamente un POST lógico y registra un único DeliveryOutcome.
// Los errores de transporte y de plantilla se devuelven sin registrar nada.
func (w *WebhookAddon) HandleEvent(ctx context.Context, event *eventDomain.Event, parameters map[string]string, integrationID int64) error {
	params, err := domain.ParseDeliveryParameters(parameters)
	if err != nil {
		return err
	}

	state := domain.StateSuccess
	var stateDetails []string

	eventJSON, err := sharedUtils.MarshalJSON(event)
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	// 1. Body
	var body string
	sendingEvent := false
	if len(params.BodyTemplate) > 1 {
		data, err := w.templateContext(event, eventJSON)
		if err != nil {
			return err
		}
		body, err = w.renderer.Render(params.BodyTemplate, data)
		if err != nil {
			return fmt.Errorf("render body template: %w", err)
		}
	} else {
		body = string(eventJSON)
		sendingEvent = true
	}

	// 2. Headers
	contentType := sharedUtils.Ternary(params.ContentType != "", params.ContentType, domain.DefaultContentType)
	headers := map[string]string{"Content-Type": contentType}
	if params.Authorization != "" {
		headers["Authorization"] = params.Authorization
	}
	if len(params.CustomHeaders) > 1 {
		custom, err := parseCustomHeaders(params.CustomHeaders)
		if err != nil {
			state = state.Degrade(domain.StateSuccessWithErrors)
			stateDetails = append(stateDetails, customHeadersParseError)
			w.log.Warn("Could not parse the JSON in the customHeaders parameter",
				zap.Int64("integration_id", integrationID),
				zap.Error(err),
			)
		} else {
			for k, v := range custom {
				headers[k] = v
			}
		}
	}

	// 3. Transporte
	res, err := w.client.Post(ctx, params.URL, headers, body)
	if err != nil {
		return err
	}

	// 4. Resultado
	if res.OK {
		stateDetails = append(stateDetails, fmt.Sprintf("Webhook request was successful with status code: %d.", res.Status))
	} else {
		state = state.Degrade(domain.StateFailed)
		stateDetails = append(stateDetails, fmt.Sprintf("Webhook request failed with status code: %d.", res.Status))
		w.log.Warn("Webhook request failed",
			zap.Int64("integration_id", integrationID),
			zap.Int("status", res.Status),
			zap.String("event_type", event.Type),
		)
	}

	if w.flags != nil && w.flags.IsEnabled(WebhookDomainLoggingFlag) {
		if u, err := url.Parse(params.URL); err == nil {
			w.log.Info("Webhook delivered", zap.String("domain", u.Hostname()))
		}
	}

	// 5. Registro
	outcome := &domain.DeliveryOutcome{
		IntegrationID: integrationID,
		State:         state,
		StateDetails:  strings.Join(stateDetails, "\n"),
		Event:         json.RawMessage(eventJSON),
		Details: domain.DeliveryDetails{
			URL:         params.URL,
			ContentType: contentType,
			Body:        body,
		},
	}
	if sendingEvent {
		outcome.Details.Body = event
	}

	if err := w.sink.RegisterEvent(ctx, outcome); err != nil {
		w.log.Error("Failed to register integration event",
			zap.Int64("integration_id", integrationID),
			zap.Error(err),
		)
	}
	return nil
}

// templateContext expone event (objeto JSON), eventJson (doblemente codificado) y eventMarkdown.
func (w *WebhookAddon) templateContext(event *eventDomain.Event, eventJSON []byte) (map[string]interface{}, error) {
	asMap, err := sharedUtils.DecodeGeneric(eventJSON)
	if err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	doubleEncoded, err := sharedUtils.MarshalJSON(string(eventJSON))
	if err != nil {
		return nil, fmt.Errorf("encode eventJson: %w", err)
	}

	return map[string]interface{}{
		"event":         asMap,
		"eventJson":     string(doubleEncoded),
		"eventMarkdown": w.formatter.Format(event).Text,
	}, nil
}

// parseCustomHeaders acepta solo un objeto JSON; los valores no string se serializan.
func parseCustomHeaders(raw string) (map[string]string, error) {
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, err
	}
	headers := make(map[string]string, len(decoded))
	for k, v := range decoded {
		switch val := v.(type) {
		case string:
			headers[k] = val
		case nil:
		default:
			b, err := sharedUtils.MarshalJSON(val)
			if err != nil {
				return nil, err
			}
			headers[k] = string(b)
		}
	}
	return headers, nil
}
