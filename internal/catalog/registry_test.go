package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

func TestRegistry(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	temu := NewSyntheticAdapter(model.PlatformTemu)
	temuFallback := NewSyntheticAdapter(model.PlatformTemu)
	shein := NewSyntheticAdapter(model.PlatformShein)

	r.Register(temu, temuFallback)
	r.Register(shein, nil)

	got, err := r.Get(model.PlatformTemu)
	require.NoError(t, err)
	assert.Same(t, temu, got)

	assert.Same(t, temuFallback, r.Fallback(model.PlatformTemu))
	assert.Nil(t, r.Fallback(model.PlatformShein))

	_, err = r.Get(model.PlatformAlibaba)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no adapter registered")
}

func TestRegistry_PreservesOrder(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	r.Register(NewSyntheticAdapter(model.PlatformShein), nil)
	r.Register(NewSyntheticAdapter(model.PlatformAlibaba), nil)
	r.Register(NewSyntheticAdapter(model.PlatformTemu), nil)

	assert.Equal(t, []model.Platform{model.PlatformShein, model.PlatformAlibaba, model.PlatformTemu}, r.Platforms())

	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, model.PlatformShein, all[0].Platform())
	assert.Equal(t, model.PlatformTemu, all[2].Platform())
}

func TestRegistry_ReRegisterReplacesAdapter(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	first := NewSyntheticAdapter(model.PlatformTemu)
	second := NewSyntheticAdapter(model.PlatformTemu)
	r.Register(first, nil)
	r.Register(second, nil)

	got, err := r.Get(model.PlatformTemu)
	require.NoError(t, err)
	assert.Same(t, second, got)
	// No duplicate order entry for the replaced platform.
	assert.Len(t, r.Platforms(), 1)
}

func TestNewDefaultRegistry(t *testing.T) {
	t.Parallel()

	r := NewDefaultRegistry(nil, false)
	assert.Equal(t, model.Platforms(), r.Platforms())

	for _, p := range r.Platforms() {
		a, err := r.Get(p)
		require.NoError(t, err)
		// Offline mode runs synthetics as primaries.
		_, ok := a.(*SyntheticAdapter)
		assert.True(t, ok)
		assert.NotNil(t, r.Fallback(p))
	}
}
