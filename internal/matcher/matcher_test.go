package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

func refSeller() model.BestSeller {
	return model.BestSeller{
		ProductID:   "p1",
		Name:        "Pink Gel Polish",
		Description: "long lasting gel polish",
		Price:       25,
		Cost:        8,
		Category:    "nail-polish",
	}
}

func TestMatch_OrdersByConfidence(t *testing.T) {
	t.Parallel()
	m := New()

	candidates := []model.SupplierProduct{
		{
			Platform:   model.PlatformShein,
			ExternalID: "s1",
			Name:       "Glitter Gel Polish",
			Price:      6,
			Category:   "nail-polish",
			MOQ:        100,
		},
		{
			Platform:   model.PlatformAlibaba,
			ExternalID: "a1",
			Name:       "Pink Gel Polish Set",
			Price:      7.50,
			Rating:     4.8,
			Category:   "nail-polish",
			MOQ:        5,
		},
	}

	matches := m.Match(refSeller(), candidates)
	require.Len(t, matches, 2)
	assert.Equal(t, "a1", matches[0].Product.ExternalID)
	assert.Greater(t, matches[0].Confidence, matches[1].Confidence)
}

func TestMatch_FiltersBelowFloor(t *testing.T) {
	t.Parallel()
	m := New()

	candidates := []model.SupplierProduct{
		{Platform: model.PlatformTemu, ExternalID: "t1", Name: "Garden Hose Reel", Price: 45, Category: "other"},
	}
	matches := m.Match(refSeller(), candidates)
	assert.Empty(t, matches)
}

func TestSimilarity_Bounds(t *testing.T) {
	t.Parallel()
	m := New()

	ref := refSeller()
	candidates := []model.SupplierProduct{
		{Name: "Pink Gel Polish", Description: "long lasting gel polish", Price: 8, Category: "nail-polish", Tags: []string{"gel", "polish", "nail"}},
		{Name: "Unrelated Widget", Price: 999},
		{},
	}
	for _, cand := range candidates {
		score, _ := m.similarity(ref, cand)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestSimilarity_IdenticalProductScoresHigh(t *testing.T) {
	t.Parallel()
	m := New()

	ref := refSeller()
	twin := model.SupplierProduct{
		Name:        ref.Name,
		Description: ref.Description,
		Price:       ref.Cost,
		Category:    ref.Category,
		Tags:        []string{"gel", "polish", "nail"},
	}
	score, factors := m.similarity(ref, twin)
	assert.Greater(t, score, 0.85)
	assert.Contains(t, factors, "similar name (100%)")
	assert.Contains(t, factors, "same category")
	assert.Contains(t, factors, "similar price range")
}

func TestSimilarity_FactorStrings(t *testing.T) {
	t.Parallel()
	m := New()

	cand := model.SupplierProduct{
		Name:     "Pink Gel Polish Kit",
		Price:    8.50,
		Category: "nail-polish",
	}
	_, factors := m.similarity(refSeller(), cand)
	assert.Contains(t, factors, "same category")
	assert.Contains(t, factors, "similar price range")

	found := false
	for _, f := range factors {
		if len(f) > 13 && f[:13] == "similar name " {
			found = true
		}
	}
	assert.True(t, found, "expected a similar name factor, got %v", factors)
}

func TestConfidence(t *testing.T) {
	t.Parallel()
	m := New()

	rated := model.SupplierProduct{Platform: model.PlatformAlibaba, Rating: 5, MOQ: 5}
	// 0.8*0.6 + 1.0*0.2 + 0.8*0.1 + 1.0*0.1
	assert.InDelta(t, 0.84, m.confidence(0.8, rated), 0.001)

	// Missing rating counts as neutral 0.5, not zero.
	unrated := model.SupplierProduct{Platform: model.PlatformAlibaba, MOQ: 5}
	assert.InDelta(t, 0.74, m.confidence(0.8, unrated), 0.001)

	// Clamped to 1.
	assert.LessOrEqual(t, m.confidence(1.0, rated), 1.0)
}

func TestMoqPreference(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, moqPreference(0))
	assert.Equal(t, 1.0, moqPreference(10))
	assert.Equal(t, 0.7, moqPreference(50))
	assert.Equal(t, 0.3, moqPreference(500))
}

func TestNameSimilarity(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, nameSimilarity("Gel Polish", "gel polish!"), 0.001)
	assert.Equal(t, 0.0, nameSimilarity("", "gel polish"))

	partial := nameSimilarity("Pink Gel Polish", "Gel Polish Set")
	assert.Greater(t, partial, 0.3)
	assert.Less(t, partial, 1.0)
}

func TestCategorySimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ref  model.BestSeller
		cand model.SupplierProduct
		want float64
	}{
		{
			"exact match",
			model.BestSeller{Category: "nail-polish"},
			model.SupplierProduct{Category: "nail-polish"},
			1.0,
		},
		{
			"hierarchy adjacent",
			model.BestSeller{Category: "nail-tools"},
			model.SupplierProduct{Category: "nail-accessories"},
			0.7,
		},
		{
			"shared nail root",
			model.BestSeller{Category: "nail-polish"},
			model.SupplierProduct{Category: "nail-equipment"},
			0.5,
		},
		{
			"shared beauty root",
			model.BestSeller{Category: "beauty-products"},
			model.SupplierProduct{Category: "beauty-equipment"},
			0.3,
		},
		{
			"unrelated",
			model.BestSeller{Category: "nail-polish"},
			model.SupplierProduct{Category: "other"},
			0.0,
		},
		{
			"inferred from name when missing",
			model.BestSeller{Name: "UV Lamp 48W"},
			model.SupplierProduct{Name: "LED Nail Lamp"},
			1.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, categorySimilarity(tt.ref, tt.cand), 0.001)
		})
	}
}

func TestPriceSimilarity(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, priceSimilarity(8, 8), 0.001)
	assert.InDelta(t, 0.5, priceSimilarity(4, 8), 0.001)
	assert.Equal(t, 0.0, priceSimilarity(0, 8))
	assert.Equal(t, 0.0, priceSimilarity(8, 0))
}

func TestKeywordSet(t *testing.T) {
	t.Parallel()

	set := keywordSet("Pink Gel Polish for Nail Art", "with 500 rhinestones")
	assert.Contains(t, set, "pink")
	assert.Contains(t, set, "rhinestones")
	// Composite phrases survive as single tokens.
	assert.Contains(t, set, "gel-polish")
	assert.Contains(t, set, "nail-art")
	// Stop words, short tokens, and bare numbers do not.
	assert.NotContains(t, set, "for")
	assert.NotContains(t, set, "with")
	assert.NotContains(t, set, "500")
}

func TestJaccard(t *testing.T) {
	t.Parallel()

	a := toSet([]string{"gel", "polish", "pink"})
	b := toSet([]string{"gel", "polish", "set"})
	assert.InDelta(t, 0.5, jaccard(a, b), 0.001) // 2 shared / 4 union

	assert.Equal(t, 0.0, jaccard(a, toSet(nil)))
}
