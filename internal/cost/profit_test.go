package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gurlaesthetic/sourcing-cli/internal/config"
)

func testProfitConfig() config.ProfitConfig {
	return config.ProfitConfig{
		DefaultMarkup:   2.5,
		OverheadRate:    0.15,
		FixedHandling:   5.00,
		UndercutFactor:  0.9,
		MinMarkupFactor: 1.4,
	}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()
	engine := NewProfitEngine(testProfitConfig())

	pa := engine.Analyze(60, 150, 10, 0)

	assert.InDelta(t, 90, pa.ProfitPerUnit, 0.001)
	assert.InDelta(t, 60, pa.MarginPercent, 0.001)
	assert.InDelta(t, 900, pa.EstimatedPeriodProfit, 0.001)
	// Net profit after overhead is 90 - (60*0.15 + 5) = 76, covers the
	// landed cost with the first unit.
	assert.Equal(t, 1, pa.BreakEvenQuantity)
	assert.InDelta(t, 150.50, pa.RecommendedPrice, 0.001)
}

func TestAnalyze_ThinMargin(t *testing.T) {
	t.Parallel()
	engine := NewProfitEngine(testProfitConfig())

	// Selling at 120 against a 100 landed cost: 20 gross per unit but
	// overhead eats it all, so break-even collapses to one unit by rule.
	pa := engine.Analyze(100, 120, 10, 0)

	assert.InDelta(t, 20, pa.ProfitPerUnit, 0.001)
	assert.InDelta(t, 16.667, pa.MarginPercent, 0.01)
	assert.Equal(t, 1, pa.BreakEvenQuantity)
}

func TestAnalyze_BreakEvenVolume(t *testing.T) {
	t.Parallel()
	engine := NewProfitEngine(testProfitConfig())

	// Net profit per unit: 40 - (100*0.15 + 5) = 20 → ceil(100/20) = 5.
	pa := engine.Analyze(100, 140, 10, 0)
	assert.Equal(t, 5, pa.BreakEvenQuantity)
}

func TestAnalyze_Defaults(t *testing.T) {
	t.Parallel()
	engine := NewProfitEngine(testProfitConfig())

	// No reference or competitor price: default markup stands in, which
	// pins the margin at 60% for a 2.5x markup.
	pa := engine.Analyze(40, 0, 0, 0)
	assert.InDelta(t, 60, pa.ProfitPerUnit, 0.001)
	assert.InDelta(t, 60, pa.MarginPercent, 0.001)
	// Default volume of 10.
	assert.InDelta(t, 600, pa.EstimatedPeriodProfit, 0.001)
}

func TestAnalyze_CompetitorAsReference(t *testing.T) {
	t.Parallel()
	engine := NewProfitEngine(testProfitConfig())

	pa := engine.Analyze(40, 0, 10, 90)
	assert.InDelta(t, 50, pa.ProfitPerUnit, 0.001)
}

func TestOptimalPrice(t *testing.T) {
	t.Parallel()
	engine := NewProfitEngine(testProfitConfig())

	tests := []struct {
		name       string
		landed     float64
		competitor float64
		want       float64
	}{
		{"markup only", 60, 0, 150.50},
		{"markup with high fraction rounds to .99", 10.3, 0, 25.99},
		{"undercut competitor", 10, 30, 27.50},
		{"undercut below floor keeps markup", 10, 15, 25.50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, engine.optimalPrice(tt.landed, tt.competitor), 0.001)
		})
	}
}
