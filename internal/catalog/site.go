package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gurlaesthetic/sourcing-cli/internal/fetcher"
	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

// profile captures everything platform-specific about one external
// catalog: search URL shape, extraction strategies, pacing, and the
// normalization defaults for fields the catalog does not expose.
type profile struct {
	platform      model.Platform
	baseURL       string
	searchPath    func(keyword string) string
	keywordCap    int
	pacing        time.Duration
	maxPerKeyword int

	supplierName  string
	defaultRating float64
	defaultMOQ    int
	shippingCost  func(price float64) float64
	extract       extraction
}

// rawProduct is an un-normalized extraction result.
type rawProduct struct {
	name        string
	keyword     string
	description string
	price       float64
	externalID  string
	url         string
	image       string
	supplier    string
	rating      float64
	moq         int
}

// normalize fills profile defaults and derives category/tags/identity.
func (p *profile) normalize(raw rawProduct) model.SupplierProduct {
	supplier := raw.supplier
	if supplier == "" {
		supplier = p.supplierName
	}
	rating := raw.rating
	if rating <= 0 || rating > 5 {
		rating = p.defaultRating
	}
	moq := raw.moq
	if moq <= 0 {
		moq = p.defaultMOQ
	}
	externalID := raw.externalID
	if externalID == "" {
		// Stable identity derived from content so re-sourcing the same
		// listing upserts rather than duplicates.
		externalID = fmt.Sprintf("%s_%08X",
			strings.ToUpper(string(p.platform)), seedFor(string(p.platform), raw.name+raw.url, 0))
	}
	desc := raw.description
	if desc == "" {
		desc = raw.name + " - " + raw.keyword + " from " + p.supplierName
	}
	productURL := raw.url
	if productURL != "" && !strings.HasPrefix(productURL, "http") {
		productURL = p.baseURL + productURL
	}

	var images []string
	if raw.image != "" {
		images = []string{raw.image}
	}

	return model.SupplierProduct{
		Platform:     p.platform,
		ExternalID:   externalID,
		Name:         raw.name,
		Description:  desc,
		Price:        raw.price,
		Currency:     "USD",
		SupplierName: supplier,
		Rating:       rating,
		ShippingCost: p.shippingCost(raw.price),
		MOQ:          moq,
		Images:       images,
		Category:     InferCategory(raw.name, raw.keyword),
		Tags:         ExtractTags(raw.name, raw.keyword),
		URL:          productURL,
	}
}

// siteAdapter is the live-catalog SourceAdapter. One instance per
// platform, parameterized by its profile.
type siteAdapter struct {
	profile *profile
	fetch   fetcher.Fetcher
}

// NewSiteAdapter builds a live adapter for the given platform profile.
func newSiteAdapter(p *profile, f fetcher.Fetcher) *siteAdapter {
	return &siteAdapter{profile: p, fetch: f}
}

func (a *siteAdapter) Platform() model.Platform { return a.profile.platform }

// Source processes keywords sequentially: fetch, extract with layered
// strategies, substitute deterministic synthetics on failure, then pace
// before the next keyword. Success means at least one keyword produced
// something real.
func (a *siteAdapter) Source(ctx context.Context, keywords []string) (*Result, error) {
	p := a.profile
	log := zap.L().With(zap.String("platform", string(p.platform)))

	if len(keywords) > p.keywordCap {
		keywords = keywords[:p.keywordCap]
	}

	var all []model.SupplierProduct
	failures := 0

	for i, keyword := range keywords {
		if ctx.Err() != nil {
			break
		}

		products, err := a.sourceKeyword(ctx, keyword)
		if err != nil {
			failures++
			log.Warn("keyword sourcing failed, substituting synthetics",
				zap.String("keyword", keyword),
				zap.Error(err),
			)
			products = GenerateSynthetic(p.platform, keyword, syntheticPerKeyword)
		}
		all = append(all, products...)

		// Sequential pacing between keywords respects per-host limits.
		if i < len(keywords)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(p.pacing):
			}
		}
	}

	deduped := dedupeByNamePrice(all)

	result := &Result{
		Platform: p.platform,
		Products: deduped,
		Found:    len(deduped),
		OK:       failures < len(keywords),
	}
	if failures > 0 {
		result.Err = fmt.Sprintf("%d of %d keyword searches failed", failures, len(keywords))
	}
	return result, nil
}

func (a *siteAdapter) sourceKeyword(ctx context.Context, keyword string) ([]model.SupplierProduct, error) {
	p := a.profile
	searchURL := p.baseURL + p.searchPath(keyword)

	payload, err := a.fetch.Fetch(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	if payload.IsJSON() {
		return p.extractJSON(payload.Body, keyword)
	}
	return p.extractHTML(payload.Body, keyword)
}

// dedupeByNamePrice collapses within-adapter duplicates on the
// (normalized name, price) similarity key, keeping first occurrence.
func dedupeByNamePrice(products []model.SupplierProduct) []model.SupplierProduct {
	seen := make(map[string]bool, len(products))
	out := products[:0:0]
	for _, prod := range products {
		key := fmt.Sprintf("%s_%.2f", NormalizeName(prod.Name), prod.Price)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, prod)
	}
	return out
}
