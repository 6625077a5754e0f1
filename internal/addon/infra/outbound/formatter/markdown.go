package formatter

import (
	"fmt"
	"strings"

	"github.com/cbroglie/mustache"
	"go.uber.org/zap"

	"github.com/davicafu/flaghooks/internal/addon/domain"
	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
	sharedUtils "github.com/davicafu/flaghooks/internal/shared/infra/utils"
)

// LinkStyle decide cómo se escriben los enlaces en el texto generado.
type LinkStyle int

const (
	LinkStyleMarkdown LinkStyle = iota // [texto](url)
	LinkStyleSlack                     // <url|texto>
)

// MarkdownFormatter convierte un evento en una frase legible con enlaces a la consola.
type MarkdownFormatter struct {
	baseURL   string
	linkStyle LinkStyle
	log       *zap.Logger
}

var _ domain.Formatter = (*MarkdownFormatter)(nil)

func NewMarkdownFormatter(baseURL string, linkStyle LinkStyle, log *zap.Logger) *MarkdownFormatter {
	return &MarkdownFormatter{
		baseURL:   strings.TrimRight(baseURL, "/"),
		linkStyle: linkStyle,
		log:       log,
	}
}

func (f *MarkdownFormatter) Format(e *eventDomain.Event) domain.FormattedEvent {
	tpl, ok := eventTemplates[e.Type]
	if !ok {
		return domain.FormattedEvent{Text: fmt.Sprintf("triggered *%s*", e.Type)}
	}

	eventMap, err := sharedUtils.RoundTrip(e)
	if err != nil {
		f.log.Warn("Could not convert event for formatting", zap.Int64("event_id", e.ID), zap.Error(err))
		return domain.FormattedEvent{Text: fmt.Sprintf("triggered *%s*", e.Type)}
	}

	data := map[string]interface{}{
		"user":               e.CreatedBy,
		"event":              eventMap,
		"strategyTitle":      strategyTitle(e),
		"strategyChangeText": f.strategyChangeText(e),
		"changeRequest":      f.changeRequestLink(e),
		"feature":            f.featureMarkdownLink(e),
		"project":            f.projectMarkdownLink(e),
	}

	text, err := mustache.RenderRaw(tpl.action, true, data)
	if err != nil {
		f.log.Warn("Could not render event text", zap.String("event_type", e.Type), zap.Error(err))
		return domain.FormattedEvent{Text: fmt.Sprintf("triggered *%s*", e.Type)}
	}

	out := domain.FormattedEvent{Text: text}
	if tpl.path != "" {
		path, err := mustache.RenderRaw(tpl.path, true, data)
		if err == nil {
			out.URL = f.baseURL + path
		}
	}
	return out
}

func (f *MarkdownFormatter) link(text, url string) string {
	if f.linkStyle == LinkStyleSlack {
		return "<" + url + "|" + text + ">"
	}
	return "[" + text + "](" + url + ")"
}

// featureURL apunta al flag, o al archivo del proyecto si el flag se archivó.
func (f *MarkdownFormatter) featureURL(e *eventDomain.Event) string {
	if e.Type == eventDomain.FeatureArchived {
		if e.Project != "" {
			return f.baseURL + "/projects/" + e.Project + "/archive"
		}
		return f.baseURL + "/archive"
	}
	if e.FeatureName != "" {
		return f.baseURL + "/projects/" + e.Project + "/features/" + e.FeatureName
	}
	return ""
}

func (f *MarkdownFormatter) featureMarkdownLink(e *eventDomain.Event) string {
	if e.FeatureName == "" {
		return ""
	}
	return f.link(e.FeatureName, f.featureURL(e))
}

func (f *MarkdownFormatter) projectMarkdownLink(e *eventDomain.Event) string {
	if e.Project == "" {
		return ""
	}
	return f.link(e.Project, f.baseURL+"/projects/"+e.Project)
}

func (f *MarkdownFormatter) changeRequestLink(e *eventDomain.Event) string {
	id := firstTruthy(e.Data["changeRequestId"], e.PreData["changeRequestId"])
	if e.Project == "" || id == "" {
		return ""
	}

	url := f.baseURL + "/projects/" + e.Project + "/change-requests/" + id
	text := "#" + id

	var b strings.Builder
	if f.linkStyle == LinkStyleSlack {
		b.WriteString("*<" + url + "|" + text + ">*")
	} else {
		b.WriteString("*[" + text + "](" + url + ")*")
	}
	if feature := f.featureMarkdownLink(e); feature != "" {
		b.WriteString(" for feature flag *" + feature + "*")
	}
	if e.Environment != "" {
		b.WriteString(" in the *" + e.Environment + "* environment")
	}
	b.WriteString(" in project *" + f.projectMarkdownLink(e) + "*")
	return b.String()
}
