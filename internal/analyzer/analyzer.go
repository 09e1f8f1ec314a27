// Package analyzer ranks the store's own sales history and distills it
// into the weighted keyword sets that drive sourcing.
package analyzer

import (
	"context"
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gurlaesthetic/sourcing-cli/internal/config"
	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

// SalesSource provides read access to aggregated order history.
type SalesSource interface {
	SalesSummaries(ctx context.Context, windowDays, limit int) ([]model.SalesSummary, error)
}

// Analyzer derives best-seller rankings and keyword sets from history.
type Analyzer struct {
	source SalesSource
	cfg    config.AnalyzerConfig
}

// New creates an analyzer over the given sales source.
func New(source SalesSource, cfg config.AnalyzerConfig) *Analyzer {
	return &Analyzer{source: source, cfg: cfg}
}

// recencyBonus is a flat score component granted to every product that
// appears in the analysis window at all; anything outside the window
// never reaches the ranking.
const recencyBonus = 0.2

// BestSellers returns catalog items ranked by units sold within the
// configured window, each annotated with a performance score and an
// inferred category.
func (a *Analyzer) BestSellers(ctx context.Context) ([]model.BestSeller, error) {
	summaries, err := a.source.SalesSummaries(ctx, a.cfg.WindowDays, a.cfg.MaxBestSellers)
	if err != nil {
		return nil, eris.Wrap(err, "analyzer: load sales summaries")
	}

	sellers := make([]model.BestSeller, 0, len(summaries))
	for _, s := range summaries {
		sellers = append(sellers, model.BestSeller{
			ProductID:        s.ProductID,
			Name:             s.Name,
			Description:      s.Description,
			Price:            s.Price,
			Cost:             s.Cost,
			UnitsSold:        s.UnitsSold,
			Revenue:          s.Revenue,
			Profit:           s.Profit,
			PerformanceScore: a.performanceScore(s),
			Category:         inferCategory(s.Name),
		})
	}

	zap.L().Info("analyzed best sellers",
		zap.Int("count", len(sellers)),
		zap.Int("window_days", a.cfg.WindowDays))
	return sellers, nil
}

// performanceScore blends sales volume against the configured normalizer
// with realized margin, plus the in-window recency bonus. Result stays in
// [0,1] for any non-negative inputs.
func (a *Analyzer) performanceScore(s model.SalesSummary) float64 {
	normalizer := float64(a.cfg.VolumeNormalizer)
	if normalizer <= 0 {
		normalizer = 100
	}
	volume := math.Min(float64(s.UnitsSold)/normalizer, 1) * 0.4

	var margin float64
	if s.Revenue > 0 {
		margin = s.Profit / s.Revenue * 0.4
	}

	return volume + margin + recencyBonus
}

// inferCategory buckets a catalog item by name tokens. Ordering matters:
// the more specific markers are checked before the generic ones.
func inferCategory(name string) string {
	n := strings.ToLower(name)
	switch {
	case containsAny(n, "rhinestone", "crystal", "gem"):
		return "nail-accessories"
	case containsAny(n, "brush", "tool", "picker"):
		return "nail-tools"
	case containsAny(n, "lamp", "uv", "led"):
		return "nail-equipment"
	case containsAny(n, "gel", "polish", "base"):
		return "nail-polish"
	case containsAny(n, "tip", "form", "extension"):
		return "nail-extensions"
	default:
		return "nail-accessories"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
