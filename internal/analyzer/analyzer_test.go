package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurlaesthetic/sourcing-cli/internal/config"
	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

type fakeSalesSource struct {
	summaries []model.SalesSummary
	err       error
}

func (f *fakeSalesSource) SalesSummaries(ctx context.Context, windowDays, limit int) ([]model.SalesSummary, error) {
	return f.summaries, f.err
}

func testAnalyzerConfig() config.AnalyzerConfig {
	return config.AnalyzerConfig{
		WindowDays:       30,
		VolumeNormalizer: 100,
		MaxKeywords:      15,
		MaxBestSellers:   20,
	}
}

func TestBestSellers(t *testing.T) {
	t.Parallel()

	now := time.Now()
	source := &fakeSalesSource{summaries: []model.SalesSummary{
		{ProductID: "p1", Name: "Pink Gel Polish", Price: 25, Cost: 8, UnitsSold: 50, Revenue: 1250, Profit: 850, LastSoldAt: now},
		{ProductID: "p2", Name: "Crystal Rhinestone Mix", Price: 12, Cost: 3, UnitsSold: 10, Revenue: 120, Profit: 90, LastSoldAt: now},
	}}
	a := New(source, testAnalyzerConfig())

	sellers, err := a.BestSellers(context.Background())
	require.NoError(t, err)
	require.Len(t, sellers, 2)

	first := sellers[0]
	assert.Equal(t, "p1", first.ProductID)
	assert.Equal(t, "nail-polish", first.Category)
	// 0.4*(50/100) + 0.4*(850/1250) + 0.2 recency
	assert.InDelta(t, 0.672, first.PerformanceScore, 0.001)

	assert.Equal(t, "nail-accessories", sellers[1].Category)
}

func TestBestSellers_SourceError(t *testing.T) {
	t.Parallel()

	a := New(&fakeSalesSource{err: errors.New("connection refused")}, testAnalyzerConfig())
	_, err := a.BestSellers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load sales summaries")
}

func TestPerformanceScore(t *testing.T) {
	t.Parallel()
	a := New(nil, testAnalyzerConfig())

	tests := []struct {
		name    string
		summary model.SalesSummary
		want    float64
	}{
		{"volume capped at normalizer", model.SalesSummary{UnitsSold: 500, Revenue: 100, Profit: 50}, 0.4 + 0.2 + 0.2},
		{"zero revenue contributes no margin", model.SalesSummary{UnitsSold: 10}, 0.04 + 0.2},
		{"full margin", model.SalesSummary{UnitsSold: 100, Revenue: 100, Profit: 100}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.performanceScore(tt.summary)
			assert.InDelta(t, tt.want, got, 0.001)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestInferCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"Crystal Rhinestone Mix", "nail-accessories"},
		{"Dotting Brush Set", "nail-tools"},
		{"48W UV Lamp", "nail-equipment"},
		{"Soak Off Gel Polish", "nail-polish"},
		{"Coffin Tips", "nail-extensions"},
		{"Mystery Sampler", "nail-accessories"},
		// More specific markers win over later generic ones.
		{"Rhinestone Picker Tool", "nail-accessories"},
		{"Gel Brush", "nail-tools"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inferCategory(tt.name))
		})
	}
}
