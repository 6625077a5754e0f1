package flags

import (
	"strings"

	"github.com/davicafu/flaghooks/internal/addon/domain"
)

// StaticResolver resuelve flags a partir de la lista fijada en configuración (FLAGS_ENABLED).
type StaticResolver struct {
	enabled map[string]bool
}

var _ domain.FlagResolver = (*StaticResolver)(nil)

func NewStaticResolver(names []string) *StaticResolver {
	enabled := make(map[string]bool, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			enabled[n] = true
		}
	}
	return &StaticResolver{enabled: enabled}
}

func (r *StaticResolver) IsEnabled(name string) bool {
	return r.enabled[name]
}
