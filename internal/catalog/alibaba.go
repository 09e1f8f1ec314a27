package catalog

import (
	"net/url"
	"time"

	"github.com/gurlaesthetic/sourcing-cli/internal/fetcher"
	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

// NewAlibabaAdapter sources wholesale candidates from Alibaba. Slowest of
// the catalogs and the most aggressively rate limited, so the keyword cap
// is the tightest.
func NewAlibabaAdapter(f fetcher.Fetcher) SourceAdapter {
	return newSiteAdapter(&profile{
		platform: model.PlatformAlibaba,
		baseURL:  "https://www.alibaba.com",
		searchPath: func(keyword string) string {
			return "/trade/search?SearchText=" + url.QueryEscape(keyword) + "&IndexArea=product_en&page=1"
		},
		keywordCap:    3,
		pacing:        3 * time.Second,
		maxPerKeyword: 10,

		supplierName:  "Alibaba Supplier",
		defaultRating: 4.0,
		defaultMOQ:    50,
		shippingCost: func(price float64) float64 {
			// Freight scales with order value on wholesale lots.
			if price > 20 {
				return 12.00
			}
			return 8.00
		},
		extract: extraction{
			containerSelectors: []string{
				".organic-offer-wrapper",
				".offer-container",
				".J-offer-wrapper",
				".gallery-offer-item",
			},
			titleSelectors: []string{
				".offer-title a", ".title a", "h2 a", ".organic-offer-title a",
			},
			priceSelectors: []string{
				".price", ".offer-price", ".price-range",
			},
			supplierSelectors: []string{".supplier-name", ".company-name"},
			moqSelectors:      []string{".moq", ".min-order"},
			ratingSelectors:   []string{".supplier-rating", ".rating"},

			listPaths: []string{
				"data.offerList", "offerList", "data.items", "items",
			},
			nameFields:  []string{"subject", "title", "name"},
			priceFields: []string{"priceStart", "price", "priceInfo.price"},
			idFields:    []string{"offerId", "productId", "id"},
			descFields:  []string{"description", "subject"},
			urlFields:   []string{"productUrl", "detailUrl", "url"},
			imageFields: []string{"imageUrl", "image", "imgUrl"},
		},
	}, f)
}
