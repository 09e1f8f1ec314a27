package catalog

import (
	"github.com/gurlaesthetic/sourcing-cli/internal/fetcher"
	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

// NewDefaultRegistry wires the standard platform set. With live sources
// disabled the synthetic adapters run as primaries, which keeps the whole
// pipeline exercisable in development and CI without touching external
// catalogs; the synthetic adapters always back the live ones as
// fallbacks.
func NewDefaultRegistry(f fetcher.Fetcher, live bool) *Registry {
	r := NewRegistry()

	builders := map[model.Platform]func(fetcher.Fetcher) SourceAdapter{
		model.PlatformAlibaba: NewAlibabaAdapter,
		model.PlatformTemu:    NewTemuAdapter,
		model.PlatformShein:   NewSheinAdapter,
	}

	for _, p := range model.Platforms() {
		synthetic := NewSyntheticAdapter(p)
		if live {
			r.Register(builders[p](f), synthetic)
		} else {
			r.Register(synthetic, synthetic)
		}
	}
	return r
}
