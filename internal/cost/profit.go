package cost

import (
	"math"

	"github.com/gurlaesthetic/sourcing-cli/internal/config"
	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

// ProfitEngine models per-unit resale economics for a landed cost.
type ProfitEngine struct {
	cfg config.ProfitConfig
}

// NewProfitEngine creates a profit engine with the given markup policy.
func NewProfitEngine(cfg config.ProfitConfig) *ProfitEngine {
	return &ProfitEngine{cfg: cfg}
}

// Analyze computes profit, margin, break-even volume, and an optimal
// retail price for one candidate. referencePrice is the price the store
// already charges for the comparable item; when zero, the default markup
// over landed cost stands in. competitorPrice feeds the undercut logic
// in the recommended price and may also be zero.
func (e *ProfitEngine) Analyze(landedCost, referencePrice float64, expectedVolume int, competitorPrice float64) model.ProfitAnalysis {
	if referencePrice <= 0 {
		if competitorPrice > 0 {
			referencePrice = competitorPrice
		} else {
			referencePrice = landedCost * e.cfg.DefaultMarkup
		}
	}
	if expectedVolume <= 0 {
		expectedVolume = 10
	}

	profitPerUnit := referencePrice - landedCost

	var marginPercent float64
	if referencePrice > 0 {
		marginPercent = profitPerUnit / referencePrice * 100
	}

	overhead := landedCost*e.cfg.OverheadRate + e.cfg.FixedHandling
	netProfit := profitPerUnit - overhead

	breakEven := 1
	if netProfit > 0 {
		breakEven = int(math.Max(1, math.Ceil(landedCost/netProfit)))
	}

	return model.ProfitAnalysis{
		ProfitPerUnit:         profitPerUnit,
		MarginPercent:         marginPercent,
		EstimatedPeriodProfit: profitPerUnit * float64(expectedVolume),
		BreakEvenQuantity:     breakEven,
		RecommendedPrice:      e.optimalPrice(landedCost, competitorPrice),
	}
}

// optimalPrice starts from the default markup and undercuts the
// competitor when doing so still clears the minimum markup floor, then
// rounds to a .99 or .50 ending.
func (e *ProfitEngine) optimalPrice(landedCost, competitorPrice float64) float64 {
	price := landedCost * e.cfg.DefaultMarkup

	if competitorPrice > 0 {
		undercut := competitorPrice * e.cfg.UndercutFactor
		floor := landedCost * e.cfg.MinMarkupFactor
		if undercut > floor {
			price = undercut
		}
	}

	whole := math.Floor(price)
	if price-whole > 0.5 {
		return whole + 0.99
	}
	return whole + 0.50
}
