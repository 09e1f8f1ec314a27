// Package store persists sourced products, recommendations, and
// generation runs, and reads the sales history that seeds the pipeline.
package store

import (
	"context"
	"time"

	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

// RecommendationFilter specifies criteria for listing recommendations.
type RecommendationFilter struct {
	Limit         int           `json:"limit,omitempty"`
	MaxAge        time.Duration `json:"max_age,omitempty"`
	MinConfidence float64       `json:"min_confidence,omitempty"`
}

// Store defines the persistence interface for the recommendation pipeline.
type Store interface {
	// Sales history (read-only)
	SalesSummaries(ctx context.Context, windowDays, limit int) ([]model.SalesSummary, error)

	// Supplier products
	UpsertSupplierProducts(ctx context.Context, products []model.SupplierProduct) (int64, error)
	DeleteStaleSupplierProducts(ctx context.Context, maxAge time.Duration) (int, error)

	// Recommendations
	SaveRecommendations(ctx context.Context, recs []model.Recommendation) (int, error)
	ListRecommendations(ctx context.Context, filter RecommendationFilter) ([]model.Recommendation, error)
	DeleteOldRecommendations(ctx context.Context, maxAge time.Duration) (int, error)

	// Generation runs
	CreateRun(ctx context.Context, trigger string) (*model.GenerationRun, error)
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary *model.RunSummary) error
	ListRuns(ctx context.Context, limit int) ([]model.GenerationRun, error)
	LatestRun(ctx context.Context) (*model.GenerationRun, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
