package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"drops stop words and short tokens", "The Gel for a Pro", []string{"gel", "pro"}},
		{"drops bare numbers", "500 Nail Tips 12mm", []string{"nail", "tips", "12mm"}},
		{"strips punctuation", "Nail-Art: Rhinestones!", []string{"nail", "art", "rhinestones"}},
		{"keeps composite phrase intact", "Pink Gel Polish Set", []string{"pink", "gel", "polish", "set", "gel polish"}},
		{"dedupes repeated tokens", "nail nail nail", []string{"nail"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenize(tt.input))
		})
	}
}

func TestExtractKeywords_WeightsByPerformance(t *testing.T) {
	t.Parallel()
	a := New(nil, testAnalyzerConfig())

	sellers := []model.BestSeller{
		{Name: "Glitter Topcoat", PerformanceScore: 0.9, Category: "nail-polish"},
		{Name: "Glitter Dust", PerformanceScore: 0.3, Category: "nail-accessories"},
		{Name: "Chrome Powder", PerformanceScore: 0.2, Category: "nail-accessories"},
	}
	keywords := a.ExtractKeywords(sellers)
	require.NotEmpty(t, keywords)

	// "glitter" carries weight from both products (1.2) and outranks
	// every other token.
	assert.Equal(t, "glitter", keywords[0])
	assert.Contains(t, keywords, "topcoat")
}

func TestExtractKeywords_CategoryAtHalfWeight(t *testing.T) {
	t.Parallel()
	a := New(nil, testAnalyzerConfig())

	sellers := []model.BestSeller{
		{Name: "Chunky Glitter", PerformanceScore: 1.0, Category: "nail-tools"},
	}
	keywords := a.ExtractKeywords(sellers)

	nameIdx, catIdx := -1, -1
	for i, kw := range keywords {
		if kw == "glitter" {
			nameIdx = i
		}
		if kw == "brush" {
			catIdx = i
		}
	}
	require.NotEqual(t, -1, nameIdx)
	require.NotEqual(t, -1, catIdx)
	assert.Less(t, nameIdx, catIdx, "name tokens outrank category seasoning")
}

func TestExtractKeywords_DeterministicTieBreak(t *testing.T) {
	t.Parallel()
	a := New(nil, testAnalyzerConfig())

	sellers := []model.BestSeller{
		{Name: "zebra yarn xylophone", PerformanceScore: 0.5, Category: "unknown"},
	}
	first := a.ExtractKeywords(sellers)
	second := a.ExtractKeywords(sellers)
	assert.Equal(t, first, second)

	// Equal weights sort alphabetically.
	assert.Equal(t, []string{"xylophone", "yarn", "zebra"}, first[:3])
}

func TestExtractKeywords_CapsAtMax(t *testing.T) {
	t.Parallel()

	cfg := testAnalyzerConfig()
	cfg.MaxKeywords = 3
	a := New(nil, cfg)

	sellers := []model.BestSeller{
		{Name: "one alpha bravo charlie delta echo foxtrot", PerformanceScore: 0.5, Category: "nail-polish"},
	}
	keywords := a.ExtractKeywords(sellers)
	assert.Len(t, keywords, 3)
}

func TestExtractKeywords_Empty(t *testing.T) {
	t.Parallel()
	a := New(nil, testAnalyzerConfig())
	assert.Empty(t, a.ExtractKeywords(nil))
}
