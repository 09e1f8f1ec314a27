package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

func TestGenerateSynthetic_Deterministic(t *testing.T) {
	t.Parallel()

	a := GenerateSynthetic(model.PlatformTemu, "nail art", 4)
	b := GenerateSynthetic(model.PlatformTemu, "nail art", 4)
	require.Len(t, a, 4)
	assert.Equal(t, a, b)

	// A different platform or keyword produces different products.
	c := GenerateSynthetic(model.PlatformShein, "nail art", 4)
	assert.NotEqual(t, a[0].ExternalID, c[0].ExternalID)
	d := GenerateSynthetic(model.PlatformTemu, "rhinestone", 4)
	assert.NotEqual(t, a[0].Name, d[0].Name)
}

func TestGenerateSynthetic_Fields(t *testing.T) {
	t.Parallel()

	products := GenerateSynthetic(model.PlatformAlibaba, "gel polish", 4)
	require.Len(t, products, 4)

	for _, p := range products {
		assert.Equal(t, model.PlatformAlibaba, p.Platform)
		assert.True(t, p.Synthetic)
		assert.Contains(t, p.Name, "gel polish")
		assert.Contains(t, p.ExternalID, "ALIBABA_SYN_GEL_POLISH_")
		assert.Greater(t, p.Price, 0.0)
		assert.GreaterOrEqual(t, p.Rating, 3.2)
		assert.LessOrEqual(t, p.Rating, 4.8)
		// Alibaba substitutes get wholesale lot sizes.
		assert.GreaterOrEqual(t, p.MOQ, 10)
		assert.Equal(t, "USD", p.Currency)
		assert.NotEmpty(t, p.Category)
	}
}

func TestSyntheticAdapter_Source(t *testing.T) {
	t.Parallel()

	a := NewSyntheticAdapter(model.PlatformShein)
	assert.Equal(t, model.PlatformShein, a.Platform())

	res, err := a.Source(context.Background(), []string{"nail art", "rhinestone"})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, model.PlatformShein, res.Platform)
	assert.Equal(t, len(res.Products), res.Found)
	assert.NotEmpty(t, res.Products)
}

func TestSyntheticAdapter_KeywordCap(t *testing.T) {
	t.Parallel()

	a := NewSyntheticAdapter(model.PlatformTemu)
	keywords := []string{"a1", "b2", "c3", "d4", "e5", "f6", "g7"}

	res, err := a.Source(context.Background(), keywords)
	require.NoError(t, err)
	// Capped at 5 keywords, up to 4 substitutes each.
	assert.LessOrEqual(t, res.Found, 20)
}

func TestSyntheticAdapter_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewSyntheticAdapter(model.PlatformTemu)
	res, err := a.Source(ctx, []string{"nail art"})
	require.NoError(t, err)
	assert.Empty(t, res.Products)
}
