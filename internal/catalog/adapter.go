// Package catalog provides source adapters that turn search keywords
// into normalized supplier products, one adapter per external catalog.
package catalog

import (
	"context"
	"errors"

	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

// ErrNoProducts is returned when an adapter completes without error but
// produces an empty result set; the orchestrator treats it as retryable.
var ErrNoProducts = errors.New("catalog: adapter returned no products")

// Result holds one adapter's aggregate outcome for a keyword set.
type Result struct {
	Platform model.Platform          `json:"platform"`
	Products []model.SupplierProduct `json:"products"`
	Found    int                     `json:"total_found"`
	OK       bool                    `json:"success"`
	Err      string                  `json:"error,omitempty"`
}

// SourceAdapter sources candidate products from one external catalog.
// Implementations never starve the pipeline: a keyword whose fetch or
// parse fails yields deterministic synthetic substitutes instead.
type SourceAdapter interface {
	Platform() model.Platform
	Source(ctx context.Context, keywords []string) (*Result, error)
}
