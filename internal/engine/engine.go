// Package engine drives the recommendation pipeline end to end: sales
// analysis, keyword extraction, concurrent sourcing, similarity matching,
// landed-cost modeling, margin filtering, and persistence.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gurlaesthetic/sourcing-cli/internal/analyzer"
	"github.com/gurlaesthetic/sourcing-cli/internal/config"
	"github.com/gurlaesthetic/sourcing-cli/internal/cost"
	"github.com/gurlaesthetic/sourcing-cli/internal/matcher"
	"github.com/gurlaesthetic/sourcing-cli/internal/model"
	"github.com/gurlaesthetic/sourcing-cli/internal/resilience"
	"github.com/gurlaesthetic/sourcing-cli/internal/sourcing"
	"github.com/gurlaesthetic/sourcing-cli/internal/store"
)

// Options controls one generation run.
type Options struct {
	// UseCache returns recent persisted recommendations instead of
	// regenerating when any exist inside the cache window.
	UseCache bool
	// Limit caps how many best sellers seed the matching stage.
	Limit int
	// Trigger labels the run record: "manual" or "scheduled".
	Trigger string
}

// Engine assembles recommendations from the pipeline stages.
type Engine struct {
	store        store.Store
	analyzer     *analyzer.Analyzer
	matcher      *matcher.Matcher
	orchestrator *sourcing.Orchestrator
	calculator   *cost.Calculator
	profit       *cost.ProfitEngine
	cfg          config.EngineConfig
}

// New wires the pipeline stages into an engine.
func New(
	st store.Store,
	an *analyzer.Analyzer,
	ma *matcher.Matcher,
	orch *sourcing.Orchestrator,
	calc *cost.Calculator,
	profit *cost.ProfitEngine,
	cfg config.EngineConfig,
) *Engine {
	return &Engine{
		store:        st,
		analyzer:     an,
		matcher:      ma,
		orchestrator: orch,
		calculator:   calc,
		profit:       profit,
		cfg:          cfg,
	}
}

// Generate runs the full pipeline within the configured run budget and
// returns the recommendations ordered by confidence. The returned
// summary is also persisted on the generation run record; persistence
// failures degrade the run, they do not fail it.
func (e *Engine) Generate(ctx context.Context, opts Options) ([]model.Recommendation, *model.RunSummary, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	trigger := opts.Trigger
	if trigger == "" {
		trigger = "manual"
	}

	if opts.UseCache {
		cached, err := e.store.ListRecommendations(ctx, store.RecommendationFilter{
			Limit:  limit * e.cfg.MatchesPerSeller,
			MaxAge: time.Duration(e.cfg.CacheMaxAgeDays) * 24 * time.Hour,
		})
		if err != nil {
			zap.L().Warn("cache lookup failed, regenerating", zap.Error(err))
		} else if len(cached) > 0 {
			zap.L().Info("serving cached recommendations", zap.Int("count", len(cached)))
			return cached, nil, nil
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, e.cfg.RunBudget())
	defer cancel()

	started := time.Now()
	run := e.createRun(runCtx, trigger)

	recs, summary, err := e.generate(runCtx, limit)
	summary.DurationMS = time.Since(started).Milliseconds()

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = resilience.ErrGenerationTimeout
		}
		summary.Error = err.Error()
		e.completeRun(run, model.RunStatusFailed, summary)
		return nil, summary, err
	}

	e.completeRun(run, model.RunStatusComplete, summary)
	return recs, summary, nil
}

func (e *Engine) generate(ctx context.Context, limit int) ([]model.Recommendation, *model.RunSummary, error) {
	summary := &model.RunSummary{}

	sellers, err := e.analyzer.BestSellers(ctx)
	if err != nil {
		return nil, summary, eris.Wrap(err, "engine: analyze best sellers")
	}
	summary.BestSellers = len(sellers)

	if len(sellers) == 0 {
		zap.L().Info("no sales history, falling back to default keywords")
		return e.generateDefault(ctx, summary)
	}

	if len(sellers) > limit {
		sellers = sellers[:limit]
	}

	keywords := e.analyzer.ExtractKeywords(sellers)
	summary.Keywords = keywords

	pool, sourcingSummary, err := e.sourceAndPersist(ctx, keywords)
	if err != nil {
		return nil, summary, err
	}
	summary.Sourcing = sourcingSummary

	if len(pool) == 0 {
		zap.L().Warn("sourcing produced no candidates",
			zap.Error(resilience.ErrInsufficientData))
		fillSummary(summary, nil)
		return nil, summary, nil
	}

	var recs []model.Recommendation
	for _, seller := range sellers {
		matches := e.matcher.Match(seller, pool)
		if len(matches) > e.cfg.MatchesPerSeller {
			matches = matches[:e.cfg.MatchesPerSeller]
		}
		for _, match := range matches {
			if rec, ok := e.buildRecommendation(seller, match); ok {
				recs = append(recs, rec)
			}
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Confidence > recs[j].Confidence
	})

	e.persistRecommendations(ctx, recs)
	fillSummary(summary, recs)
	return recs, summary, nil
}

// buildRecommendation prices one match and applies the margin floor.
// Returns false when the candidate cannot clear the minimum margin.
func (e *Engine) buildRecommendation(seller model.BestSeller, match model.SimilarityMatch) (model.Recommendation, bool) {
	breakdown := e.calculator.LandedCost(match.Product)

	expectedVolume := int(math.Floor(float64(seller.UnitsSold) * 0.5))
	if expectedVolume < 1 {
		expectedVolume = 1
	}

	analysis := e.profit.Analyze(breakdown.Total, seller.Price, expectedVolume, seller.Price)
	if analysis.MarginPercent <= e.cfg.MinMarginPercent {
		return model.Recommendation{}, false
	}

	return model.Recommendation{
		ID:              uuid.New().String(),
		Product:         match.Product,
		BasedOn:         seller,
		SimilarityScore: match.SimilarityScore,
		MatchingFactors: match.MatchingFactors,
		Cost:            breakdown,
		Profit:          analysis,
		Confidence:      overallConfidence(match, analysis, seller),
		Reason:          recommendationReason(match, analysis, seller),
		EstimatedDemand: expectedVolume,
		CreatedAt:       time.Now().UTC(),
	}, true
}

// generateDefault produces a lower-confidence result set from the fixed
// keyword list when there is no sales history to learn from.
func (e *Engine) generateDefault(ctx context.Context, summary *model.RunSummary) ([]model.Recommendation, *model.RunSummary, error) {
	keywords := e.cfg.DefaultKeywords
	summary.Keywords = keywords

	pool, sourcingSummary, err := e.sourceAndPersist(ctx, keywords)
	if err != nil {
		return nil, summary, err
	}
	summary.Sourcing = sourcingSummary

	if len(pool) == 0 {
		zap.L().Warn("sourcing produced no candidates",
			zap.Error(resilience.ErrInsufficientData))
		fillSummary(summary, nil)
		return nil, summary, nil
	}

	if len(pool) > 10 {
		pool = pool[:10]
	}

	recs := make([]model.Recommendation, 0, len(pool))
	for _, product := range pool {
		breakdown := e.calculator.LandedCost(product)
		analysis := e.profit.Analyze(breakdown.Total, 0, 5, 0)

		recs = append(recs, model.Recommendation{
			ID:              uuid.New().String(),
			Product:         product,
			SimilarityScore: 0.5,
			Cost:            breakdown,
			Profit:          analysis,
			Confidence:      0.6,
			Reason:          "Popular nail art product with good profit potential",
			EstimatedDemand: 5,
			CreatedAt:       time.Now().UTC(),
		})
	}

	e.persistRecommendations(ctx, recs)
	fillSummary(summary, recs)
	return recs, summary, nil
}

// sourceAndPersist runs the orchestrator and lands whatever it found.
// Candidates must be stored before recommendations reference them.
func (e *Engine) sourceAndPersist(ctx context.Context, keywords []string) ([]model.SupplierProduct, model.SourcingSummary, error) {
	pool, sourcingSummary, err := e.orchestrator.Run(ctx, keywords)
	if err != nil {
		return nil, sourcingSummary, eris.Wrap(err, "engine: source candidates")
	}

	if _, err := e.store.UpsertSupplierProducts(ctx, pool); err != nil {
		perr := &resilience.PersistenceError{Op: "upsert supplier products", Err: err}
		zap.L().Error("supplier product persistence failed", zap.Error(perr))
	}
	return pool, sourcingSummary, nil
}

func (e *Engine) persistRecommendations(ctx context.Context, recs []model.Recommendation) {
	saved, err := e.store.SaveRecommendations(ctx, recs)
	if err != nil {
		perr := &resilience.PersistenceError{Op: "save recommendations", Err: err}
		zap.L().Error("recommendation persistence failed", zap.Error(perr))
		return
	}
	zap.L().Info("recommendations persisted",
		zap.Int("saved", saved),
		zap.Int("total", len(recs)))
}

func (e *Engine) createRun(ctx context.Context, trigger string) *model.GenerationRun {
	run, err := e.store.CreateRun(ctx, trigger)
	if err != nil {
		zap.L().Warn("failed to record generation run", zap.Error(err))
		return nil
	}
	return run
}

// completeRun finishes the run record on a background context so a blown
// run budget cannot also lose the failure record.
func (e *Engine) completeRun(run *model.GenerationRun, status model.RunStatus, summary *model.RunSummary) {
	if run == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.store.CompleteRun(ctx, run.ID, status, summary); err != nil {
		zap.L().Warn("failed to complete generation run",
			zap.String("run_id", run.ID),
			zap.Error(err))
	}
}

func fillSummary(summary *model.RunSummary, recs []model.Recommendation) {
	summary.Recommendations = len(recs)

	var marginSum float64
	for _, rec := range recs {
		if rec.Confidence >= 0.8 {
			summary.HighConfidence++
		}
		marginSum += rec.Profit.MarginPercent
	}
	if len(recs) > 0 {
		summary.AverageMargin = marginSum / float64(len(recs))
	}
}

// overallConfidence blends similarity, profitability, seller performance,
// and supplier rating into the final ranking score.
func overallConfidence(match model.SimilarityMatch, analysis model.ProfitAnalysis, seller model.BestSeller) float64 {
	confidence := match.SimilarityScore * 0.4
	confidence += math.Min(analysis.MarginPercent/100, 1) * 0.3

	performance := seller.PerformanceScore
	if performance == 0 {
		performance = 0.5
	}
	confidence += math.Min(performance, 1) * 0.2

	rating := 0.5
	if match.Product.Rating > 0 {
		rating = match.Product.Rating / 5
	}
	confidence += rating * 0.1

	return math.Min(confidence, 1)
}

// recommendationReason renders the stored justification line.
func recommendationReason(match model.SimilarityMatch, analysis model.ProfitAnalysis, seller model.BestSeller) string {
	var reasons []string

	switch {
	case match.SimilarityScore > 0.7:
		reasons = append(reasons, fmt.Sprintf("Very similar to your best-seller %q", seller.Name))
	case match.SimilarityScore > 0.5:
		reasons = append(reasons, fmt.Sprintf("Similar to your popular %q", seller.Name))
	default:
		reasons = append(reasons, fmt.Sprintf("Related to %q", seller.Name))
	}

	if analysis.MarginPercent > 50 {
		reasons = append(reasons, fmt.Sprintf("excellent %.0f%% profit margin", analysis.MarginPercent))
	} else {
		reasons = append(reasons, fmt.Sprintf("%.0f%% profit margin", analysis.MarginPercent))
	}

	if seller.UnitsSold > 20 {
		reasons = append(reasons, fmt.Sprintf("based on %d units sold of similar product", seller.UnitsSold))
	}

	if benefit := match.Product.Platform.Benefit(); benefit != "" {
		reasons = append(reasons, benefit)
	}

	return strings.Join(reasons, " • ")
}
