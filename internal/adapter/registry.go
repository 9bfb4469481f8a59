package adapter

import (
	"fmt"
	"sort"

	"github.com/roach88/aisync/internal/model"
)

// Factory builds an adapter on first use.
type Factory func() Adapter

// Registry resolves system IDs to adapters. Each Registry memoizes its own
// instances; nothing is shared between registries.
type Registry struct {
	factories map[model.SystemID]Factory
	instances map[model.SystemID]Adapter
}

// NewRegistry returns a registry with the built-in systems registered.
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[model.SystemID]Factory),
		instances: make(map[model.SystemID]Adapter),
	}
	for _, l := range BuiltinLayouts() {
		layout := l
		r.factories[layout.ID] = func() Adapter { return NewFileAdapter(layout) }
	}
	return r
}

// Register adds or replaces the factory for id, dropping any memoized instance.
func (r *Registry) Register(id model.SystemID, f Factory) {
	r.factories[id] = f
	delete(r.instances, id)
}

// Use installs a ready adapter under its own system ID.
func (r *Registry) Use(a Adapter) {
	r.factories[a.SystemID()] = func() Adapter { return a }
	r.instances[a.SystemID()] = a
}

// Get returns the adapter for id, building it on first call.
func (r *Registry) Get(id model.SystemID) (Adapter, error) {
	if a, ok := r.instances[id]; ok {
		return a, nil
	}
	f, ok := r.factories[id]
	if !ok {
		return nil, fmt.Errorf("unknown system %q", id)
	}
	a := f()
	r.instances[id] = a
	return a, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id model.SystemID) bool {
	_, ok := r.factories[id]
	return ok
}

// IDs lists registered system IDs, sorted.
func (r *Registry) IDs() []model.SystemID {
	ids := make([]model.SystemID, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
