package catalog

import (
	"net/url"
	"time"

	"github.com/gurlaesthetic/sourcing-cli/internal/fetcher"
	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

// NewTemuAdapter sources retail candidates from Temu: low prices, unit
// quantities, prices often stored in minor units on the API side.
func NewTemuAdapter(f fetcher.Fetcher) SourceAdapter {
	return newSiteAdapter(&profile{
		platform: model.PlatformTemu,
		baseURL:  "https://www.temu.com",
		searchPath: func(keyword string) string {
			return "/search_result.html?search_key=" + url.QueryEscape(keyword) + "&search_method=user"
		},
		keywordCap:    4,
		pacing:        3 * time.Second,
		maxPerKeyword: 12,

		supplierName:  "Temu Marketplace",
		defaultRating: 4.2,
		defaultMOQ:    1,
		shippingCost: func(float64) float64 {
			return 2.99
		},
		extract: extraction{
			containerSelectors: []string{
				"._2dQ5X9J",
				`[data-testid="product-item"]`,
				".product-item",
				"._1gLqoCT",
				"._3MxgaCF",
			},
			titleSelectors: []string{
				`[data-testid="product-title"]`, ".product-title",
				"h3 a", "h2 a", `a[href*="goods"]`, "._1W0M1Hm",
			},
			priceSelectors: []string{
				`[data-testid="price"]`, ".price", "._1bXuKoU",
				"._3MxgaCF span", `[class*="price"]`,
			},

			listPaths: []string{
				"result.data.products", "data.products", "products",
			},
			nameFields:  []string{"goods_name", "title", "name"},
			priceFields: []string{"price_info.min_price", "price_info.normal_price", "min_price", "normal_price", "price", "sale_price"},
			idFields:    []string{"goods_id", "product_id"},
			descFields:  []string{"goods_desc", "description"},
			urlFields:   []string{"goods_url", "product_url"},
			imageFields: []string{"image_info.image_url", "goods_img_url", "image_url"},
			centPrices:  true,
		},
	}, f)
}
