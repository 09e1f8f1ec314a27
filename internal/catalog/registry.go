package catalog

import (
	"github.com/rotisserie/eris"

	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

// Registry maps platforms to their primary adapter and its fallback.
// Adapters are selected by lookup, not inheritance; registration order is
// preserved so orchestrator fan-out is deterministic.
type Registry struct {
	primary  map[model.Platform]SourceAdapter
	fallback map[model.Platform]SourceAdapter
	order    []model.Platform
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		primary:  make(map[model.Platform]SourceAdapter),
		fallback: make(map[model.Platform]SourceAdapter),
	}
}

// Register adds a primary adapter and its fallback for one platform.
// The fallback may be nil for platforms with no degraded mode.
func (r *Registry) Register(primary SourceAdapter, fallback SourceAdapter) {
	p := primary.Platform()
	if _, exists := r.primary[p]; !exists {
		r.order = append(r.order, p)
	}
	r.primary[p] = primary
	if fallback != nil {
		r.fallback[p] = fallback
	}
}

// Get returns the primary adapter for a platform.
func (r *Registry) Get(p model.Platform) (SourceAdapter, error) {
	a, ok := r.primary[p]
	if !ok {
		return nil, eris.Errorf("catalog: no adapter registered for platform %q", p)
	}
	return a, nil
}

// Fallback returns the fallback adapter for a platform, or nil.
func (r *Registry) Fallback(p model.Platform) SourceAdapter {
	return r.fallback[p]
}

// All returns primary adapters in registration order.
func (r *Registry) All() []SourceAdapter {
	out := make([]SourceAdapter, 0, len(r.order))
	for _, p := range r.order {
		out = append(out, r.primary[p])
	}
	return out
}

// Platforms returns registered platforms in registration order.
func (r *Registry) Platforms() []model.Platform {
	return append([]model.Platform(nil), r.order...)
}
