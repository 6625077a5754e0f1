package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	addonDomain "github.com/davicafu/flaghooks/internal/addon/domain"
)

// ------------------- Addons -------------------

// InMemoryAddonRepo guarda copias para que los tests no compartan punteros con el servicio.
type InMemoryAddonRepo struct {
	mu     sync.Mutex
	data   map[int64]addonDomain.AddonConfig
	nextID int64

	GetAllCalls int
	Err         error
}

var _ addonDomain.AddonRepository = (*InMemoryAddonRepo)(nil)

func NewInMemoryAddonRepo() *InMemoryAddonRepo {
	return &InMemoryAddonRepo{data: make(map[int64]addonDomain.AddonConfig)}
}

func (r *InMemoryAddonRepo) Insert(ctx context.Context, a *addonDomain.AddonConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = time.Now().UTC()
	r.data[a.ID] = copyAddon(a)
	return nil
}

func (r *InMemoryAddonRepo) Update(ctx context.Context, a *addonDomain.AddonConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[a.ID]; !ok {
		return addonDomain.ErrAddonNotFound
	}
	r.data[a.ID] = copyAddon(a)
	return nil
}

func (r *InMemoryAddonRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return addonDomain.ErrAddonNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *InMemoryAddonRepo) Get(ctx context.Context, id int64) (*addonDomain.AddonConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok {
		return nil, addonDomain.ErrAddonNotFound
	}
	c := copyAddon(&a)
	return &c, nil
}

func (r *InMemoryAddonRepo) GetAll(ctx context.Context, f addonDomain.AddonFilter) ([]*addonDomain.AddonConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.GetAllCalls++
	if r.Err != nil {
		return nil, r.Err
	}

	var out []*addonDomain.AddonConfig
	for _, a := range r.data {
		if f.Enabled != nil && a.Enabled != *f.Enabled {
			continue
		}
		c := copyAddon(&a)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func copyAddon(a *addonDomain.AddonConfig) addonDomain.AddonConfig {
	c := *a
	c.Parameters = make(map[string]string, len(a.Parameters))
	for k, v := range a.Parameters {
		c.Parameters[k] = v
	}
	c.Events = append([]string(nil), a.Events...)
	c.Projects = append([]string(nil), a.Projects...)
	c.Environments = append([]string(nil), a.Environments...)
	return c
}

// ------------------- Integration events -------------------

type InMemoryIntegrationEventRepo struct {
	mu     sync.Mutex
	data   []*addonDomain.DeliveryOutcome
	nextID int64

	// Now permite fijar CreatedAt en los tests de limpieza.
	Now func() time.Time
	Err error
}

var _ addonDomain.IntegrationEventRepository = (*InMemoryIntegrationEventRepo)(nil)

func NewInMemoryIntegrationEventRepo() *InMemoryIntegrationEventRepo {
	return &InMemoryIntegrationEventRepo{Now: func() time.Time { return time.Now().UTC() }}
}

func (r *InMemoryIntegrationEventRepo) Insert(ctx context.Context, o *addonDomain.DeliveryOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.nextID++
	o.ID = r.nextID
	o.CreatedAt = r.Now()
	c := *o
	r.data = append(r.data, &c)
	return nil
}

func (r *InMemoryIntegrationEventRepo) GetPaginatedEvents(ctx context.Context, integrationID int64, limit, offset int) ([]*addonDomain.DeliveryOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matching []*addonDomain.DeliveryOutcome
	for i := len(r.data) - 1; i >= 0; i-- {
		if r.data[i].IntegrationID == integrationID {
			matching = append(matching, r.data[i])
		}
	}
	if offset >= len(matching) {
		return []*addonDomain.DeliveryOutcome{}, nil
	}
	end := offset + limit
	if end > len(matching) {
		end = len(matching)
	}
	return matching[offset:end], nil
}

func (r *InMemoryIntegrationEventRepo) CleanUpEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	latest := map[int64]int64{}
	for _, o := range r.data {
		if o.ID > latest[o.IntegrationID] {
			latest[o.IntegrationID] = o.ID
		}
	}

	var kept []*addonDomain.DeliveryOutcome
	var removed int64
	for _, o := range r.data {
		if o.CreatedAt.Before(olderThan) && latest[o.IntegrationID] != o.ID {
			removed++
			continue
		}
		kept = append(kept, o)
	}
	r.data = kept
	return removed, nil
}

func (r *InMemoryIntegrationEventRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data)
}
