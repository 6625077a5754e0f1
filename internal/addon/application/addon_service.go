package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/davicafu/flaghooks/internal/addon/domain"
	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
	sharedCache "github.com/davicafu/flaghooks/internal/shared/infra/platform/cache"
	sharedUtils "github.com/davicafu/flaghooks/internal/shared/infra/utils"
)

// addonConfigsTTL es el tiempo (en segundos) que se cachean las integraciones activas.
const addonConfigsTTL = 60

// AddonService define los casos de uso de las integraciones: CRUD y reparto de eventos.
type AddonService struct {
	repo      domain.AddonRepository
	cache     sharedCache.Cache
	events    domain.EventStore
	providers map[string]domain.Provider
	log       *zap.Logger
}

func NewAddonService(
	repo domain.AddonRepository,
	cache sharedCache.Cache,
	events domain.EventStore,
	providers []domain.Provider,
	log *zap.Logger,
) *AddonService {
	byName := make(map[string]domain.Provider, len(providers))
	for _, p := range providers {
		byName[p.Definition().Name] = p
	}
	return &AddonService{
		repo:      repo,
		cache:     cache,
		events:    events,
		providers: byName,
		log:       log,
	}
}

// GetProviderDefinitions devuelve las fichas de los proveedores registrados, ordenadas por nombre.
func (s *AddonService) GetProviderDefinitions() []domain.Definition {
	defs := make([]domain.Definition, 0, len(s.providers))
	for _, p := range s.providers {
		defs = append(defs, p.Definition())
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// GetAddons lista todas las integraciones con los parámetros sensibles enmascarados.
func (s *AddonService) GetAddons(ctx context.Context) ([]*domain.AddonConfig, error) {
	addons, err := s.repo.GetAll(ctx, domain.AddonFilter{})
	if err != nil {
		s.log.Error("Failed to list addons", zap.Error(err))
		return nil, err
	}
	masked := make([]*domain.AddonConfig, 0, len(addons))
	for _, a := range addons {
		masked = append(masked, s.mask(a))
	}
	return masked, nil
}

func (s *AddonService) GetAddon(ctx context.Context, id int64) (*domain.AddonConfig, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.mask(a), nil
}

// CreateAddon valida, guarda la integración y registra el evento addon-config-created.
func (s *AddonService) CreateAddon(ctx context.Context, a *domain.AddonConfig, createdBy string) (*domain.AddonConfig, error) {
	if err := s.validate(a); err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, a); err != nil {
		s.log.Error("Failed to create addon", zap.String("provider", a.Provider), zap.Error(err))
		return nil, err
	}
	s.log.Info("➕ Addon created", zap.Int64("addon_id", a.ID), zap.String("provider", a.Provider))

	if err := s.audit(ctx, eventDomain.AddonConfigCreated, createdBy, a.AuditData(), nil); err != nil {
		return nil, err
	}
	sharedCache.AsyncCacheDelete(s.cache, domain.AddonConfigsCacheKey, s.log)

	return s.mask(a), nil
}

// UpdateAddon reemplaza la integración id. Un parámetro sensible que llega
// enmascarado conserva el valor guardado.
func (s *AddonService) UpdateAddon(ctx context.Context, id int64, a *domain.AddonConfig, updatedBy string) (*domain.AddonConfig, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	a.ID = id
	a.CreatedAt = existing.CreatedAt
	a.Parameters = keepMaskedParameters(a.Parameters, existing.Parameters)

	if err := s.validate(a); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, a); err != nil {
		s.log.Error("Failed to update addon", zap.Int64("addon_id", id), zap.Error(err))
		return nil, err
	}
	s.log.Info("✏️ Addon updated", zap.Int64("addon_id", id))

	if err := s.audit(ctx, eventDomain.AddonConfigUpdated, updatedBy, a.AuditData(), existing.AuditData()); err != nil {
		return nil, err
	}
	sharedCache.AsyncCacheDelete(s.cache, domain.AddonConfigsCacheKey, s.log)

	return s.mask(a), nil
}

// RemoveAddon borra la integración id. Si no existe no hay nada que borrar y no se audita.
func (s *AddonService) RemoveAddon(ctx context.Context, id int64, removedBy string) error {
	existing, err := s.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrAddonNotFound) {
		s.log.Debug("Addon already removed", zap.Int64("addon_id", id))
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete addon", zap.Int64("addon_id", id), zap.Error(err))
		return err
	}
	s.log.Info("🗑️ Addon deleted", zap.Int64("addon_id", id))

	if err := s.audit(ctx, eventDomain.AddonConfigDeleted, removedBy, nil, existing.AuditData()); err != nil {
		return err
	}
	sharedCache.AsyncCacheDelete(s.cache, domain.AddonConfigsCacheKey, s.log)

	return nil
}

// HandleEvent entrega el evento a todas las integraciones activas que lo aceptan.
// Las entregas corren en paralelo; se devuelve el primer error cuando todas terminan.
func (s *AddonService) HandleEvent(ctx context.Context, e *eventDomain.Event) error {
	configs, err := s.enabledAddons(ctx)
	if err != nil {
		return err
	}

	var g errgroup.Group
	for _, cfg := range configs {
		if !cfg.Matches(e) {
			continue
		}
		provider, ok := s.providers[cfg.Provider]
		if !ok {
			s.log.Warn("No provider registered for addon",
				zap.Int64("addon_id", cfg.ID),
				zap.String("provider", cfg.Provider),
			)
			continue
		}

		cfg := cfg
		g.Go(func() error {
			if err := provider.HandleEvent(ctx, e, cfg.Parameters, cfg.ID); err != nil {
				s.log.Error("❌ Addon failed to handle event",
					zap.Int64("addon_id", cfg.ID),
					zap.String("event_type", e.Type),
					zap.Error(err),
				)
				return fmt.Errorf("addon %d: %w", cfg.ID, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// enabledAddons aplica cache-aside sobre las integraciones activas.
func (s *AddonService) enabledAddons(ctx context.Context) ([]*domain.AddonConfig, error) {
	// 1. Caché
	if s.cache != nil {
		var cached []*domain.AddonConfig
		if hit, err := s.cache.Get(ctx, domain.AddonConfigsCacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	// 2. Repositorio con reintentos
	enabled := true
	var configs []*domain.AddonConfig
	err := sharedUtils.Retry(ctx, 3, 100*time.Millisecond, func() error {
		var errRetry error
		configs, errRetry = s.repo.GetAll(ctx, domain.AddonFilter{Enabled: &enabled})
		return errRetry
	})
	if err != nil {
		s.log.Error("Failed to fetch enabled addons", zap.Error(err))
		return nil, err
	}

	// 3. Rellenar caché en segundo plano
	sharedCache.AsyncCacheSet(s.cache, domain.AddonConfigsCacheKey, configs, addonConfigsTTL, s.log)

	return configs, nil
}

func (s *AddonService) validate(a *domain.AddonConfig) error {
	if err := a.Validate(); err != nil {
		return err
	}
	provider, ok := s.providers[a.Provider]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownProvider, a.Provider)
	}
	if missing := provider.Definition().MissingParameters(a.Parameters); len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrMissingParameters, strings.Join(missing, ", "))
	}
	return nil
}

func (s *AddonService) audit(ctx context.Context, eventType, createdBy string, data, preData map[string]interface{}) error {
	e := &eventDomain.Event{
		Type:      eventType,
		CreatedBy: createdBy,
		Data:      data,
		PreData:   preData,
	}
	if err := s.events.StoreEvent(ctx, e); err != nil {
		s.log.Error("Failed to store addon audit event", zap.String("event_type", eventType), zap.Error(err))
		if errors.Is(err, eventDomain.ErrInvalidEvent) {
			return fmt.Errorf("%w: %v", domain.ErrInvalidAddon, err)
		}
		return err
	}
	return nil
}

// mask devuelve una copia con los parámetros sensibles sustituidos por "*****".
func (s *AddonService) mask(a *domain.AddonConfig) *domain.AddonConfig {
	out := *a
	provider, ok := s.providers[a.Provider]
	if !ok || len(a.Parameters) == 0 {
		return &out
	}

	out.Parameters = make(map[string]string, len(a.Parameters))
	for k, v := range a.Parameters {
		out.Parameters[k] = v
	}
	for _, name := range provider.Definition().SensitiveParameters() {
		if out.Parameters[name] != "" {
			out.Parameters[name] = domain.MaskedValue
		}
	}
	return &out
}

func keepMaskedParameters(incoming, stored map[string]string) map[string]string {
	merged := make(map[string]string, len(incoming))
	for k, v := range incoming {
		if v == domain.MaskedValue {
			if prev, ok := stored[k]; ok {
				v = prev
			}
		}
		merged[k] = v
	}
	return merged
}
