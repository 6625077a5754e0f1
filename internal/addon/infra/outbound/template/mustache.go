package template

import (
	"github.com/cbroglie/mustache"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/davicafu/flaghooks/internal/addon/domain"
)

// DefaultParsedTemplates acota cuántas plantillas parseadas se guardan en memoria.
const DefaultParsedTemplates = 256

// MustacheRenderer renderiza plantillas de body escapando HTML en {{var}};
// {{{var}}} inserta el valor sin escapar. Las plantillas parseadas se reutilizan
// en una LRU, así las de integraciones editadas o borradas acaban saliendo.
type MustacheRenderer struct {
	parsed *lru.Cache[string, *mustache.Template]
}

var _ domain.TemplateRenderer = (*MustacheRenderer)(nil)

func NewMustacheRenderer() *MustacheRenderer {
	return NewMustacheRendererWithSize(DefaultParsedTemplates)
}

func NewMustacheRendererWithSize(size int) *MustacheRenderer {
	if size <= 0 {
		size = DefaultParsedTemplates
	}
	cache, _ := lru.New[string, *mustache.Template](size) // solo falla con size <= 0
	return &MustacheRenderer{parsed: cache}
}

func (r *MustacheRenderer) Render(tmpl string, data interface{}) (string, error) {
	if cached, ok := r.parsed.Get(tmpl); ok {
		return cached.Render(data)
	}

	t, err := mustache.ParseString(tmpl)
	if err != nil {
		return "", err
	}
	r.parsed.Add(tmpl, t)
	return t.Render(data)
}

// Cached devuelve cuántas plantillas parseadas hay en memoria.
func (r *MustacheRenderer) Cached() int {
	return r.parsed.Len()
}
