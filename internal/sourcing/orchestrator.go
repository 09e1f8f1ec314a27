package sourcing

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gurlaesthetic/sourcing-cli/internal/catalog"
	"github.com/gurlaesthetic/sourcing-cli/internal/config"
	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

// Orchestrator runs every registered source adapter concurrently against
// one keyword set and merges their results. One adapter failing, timing
// out, or falling back never aborts its peers; the caller always gets
// whatever the healthy adapters produced.
type Orchestrator struct {
	registry *catalog.Registry
	cfg      config.SourcingConfig
}

// NewOrchestrator creates an orchestrator over the given adapter registry.
func NewOrchestrator(registry *catalog.Registry, cfg config.SourcingConfig) *Orchestrator {
	return &Orchestrator{registry: registry, cfg: cfg}
}

// Run fans the keyword set out to all adapters and returns the merged,
// deduplicated candidate pool plus a per-adapter accounting. The error is
// non-nil only when the parent context is cancelled.
func (o *Orchestrator) Run(ctx context.Context, keywords []string) ([]model.SupplierProduct, model.SourcingSummary, error) {
	adapters := o.registry.All()

	var (
		mu      sync.Mutex
		pool    []model.SupplierProduct
		results = make([]model.AdapterResult, len(adapters))
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, adapter := range adapters {
		g.Go(func() error {
			// Stagger starts so the adapters do not hit their rate
			// limiters and upstream hosts in the same instant.
			if i > 0 {
				stagger := time.Duration(i) * o.cfg.BaseDelay()
				select {
				case <-time.After(stagger):
				case <-gctx.Done():
					return gctx.Err()
				}
			}

			res := o.sourceWithRetry(gctx, adapter, keywords)
			mu.Lock()
			results[i] = res.summary
			pool = append(pool, res.products...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, model.SourcingSummary{}, err
	}

	pool = Dedupe(pool)

	summary := model.SourcingSummary{
		TotalProducts: len(pool),
		Adapters:      results,
	}
	for _, r := range results {
		if r.Error == "" {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	zap.L().Info("sourcing complete",
		zap.Int("products", summary.TotalProducts),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed))

	return pool, summary, nil
}

type adapterOutcome struct {
	products []model.SupplierProduct
	summary  model.AdapterResult
}

// sourceWithRetry drives one adapter through its attempt cycle: retry the
// primary with exponential backoff, race each attempt against the
// per-attempt timeout, and hand off to the fallback adapter only after
// the primary is exhausted.
func (o *Orchestrator) sourceWithRetry(ctx context.Context, adapter catalog.SourceAdapter, keywords []string) adapterOutcome {
	platform := adapter.Platform()
	log := zap.L().With(zap.String("platform", string(platform)))

	out := adapterOutcome{summary: model.AdapterResult{Platform: platform}}

	maxAttempts := o.cfg.MaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out.summary.Attempts = attempt

		res, err := o.sourceOnce(ctx, adapter, keywords)
		if err == nil && len(res.Products) > 0 {
			out.products = res.Products
			out.summary.Found = len(res.Products)
			log.Info("adapter succeeded",
				zap.Int("attempt", attempt),
				zap.Int("found", len(res.Products)))
			return out
		}

		if err == nil {
			lastErr = catalog.ErrNoProducts
		} else {
			lastErr = err
		}
		log.Warn("adapter attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Error(lastErr))

		if ctx.Err() != nil {
			break
		}
		if attempt < maxAttempts {
			backoff := o.cfg.BaseDelay() * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
			}
		}
	}

	if fb := o.registry.Fallback(platform); fb != nil && o.cfg.EnableFallback && ctx.Err() == nil {
		res, err := o.sourceOnce(ctx, fb, keywords)
		if err == nil && len(res.Products) > 0 {
			out.products = res.Products
			out.summary.Found = len(res.Products)
			out.summary.UsedFallback = true
			log.Info("fallback adapter supplied results", zap.Int("found", len(res.Products)))
			return out
		}
		if err != nil {
			lastErr = err
		}
	}

	if lastErr != nil {
		out.summary.Error = lastErr.Error()
	}
	return out
}

// sourceOnce races a single adapter call against the per-attempt timeout.
// A timed-out attempt is abandoned, not joined; its goroutine drains into
// a buffered channel once the adapter notices the cancelled context.
func (o *Orchestrator) sourceOnce(ctx context.Context, adapter catalog.SourceAdapter, keywords []string) (*catalog.Result, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, o.cfg.AttemptTimeout())
	defer cancel()

	type sourced struct {
		res *catalog.Result
		err error
	}
	done := make(chan sourced, 1)
	go func() {
		res, err := adapter.Source(attemptCtx, keywords)
		done <- sourced{res, err}
	}()

	select {
	case s := <-done:
		if s.err != nil {
			return nil, s.err
		}
		return s.res, nil
	case <-attemptCtx.Done():
		return nil, attemptCtx.Err()
	}
}
