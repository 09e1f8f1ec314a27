package catalog

import (
	"net/url"
	"time"

	"github.com/gurlaesthetic/sourcing-cli/internal/fetcher"
	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

// NewSheinAdapter sources fashion-adjacent candidates from SHEIN. The
// storefront markup churns frequently; the selector list leans on the
// generic container fallback more than the other catalogs.
func NewSheinAdapter(f fetcher.Fetcher) SourceAdapter {
	return newSiteAdapter(&profile{
		platform: model.PlatformShein,
		baseURL:  "https://us.shein.com",
		searchPath: func(keyword string) string {
			return "/search?q=" + url.QueryEscape(keyword) + "&ref=www&rep=dir&ret=mus"
		},
		keywordCap:    4,
		pacing:        2 * time.Second,
		maxPerKeyword: 15,

		supplierName:  "SHEIN Beauty",
		defaultRating: 3.8,
		defaultMOQ:    1,
		shippingCost: func(price float64) float64 {
			// Free shipping threshold on the retail storefront.
			if price >= 10 {
				return 0
			}
			return 3.99
		},
		extract: extraction{
			containerSelectors: []string{
				`[data-testid="productCard"]`,
				".product-card",
				".S-product-item",
				".goods-item",
				".product-link",
			},
			titleSelectors: []string{
				`[data-testid="productTitle"]`, ".product-title", ".goods-title",
				"h3", "h2", ".S-product-item__title",
			},
			priceSelectors: []string{
				`[data-testid="price"]`, ".price", ".goods-price",
				".S-product-item__price", `[class*="price"]`,
			},

			listPaths: []string{
				"info.products", "data.goods", "goods", "products",
			},
			nameFields:  []string{"goods_name", "goods_title", "name", "title"},
			priceFields: []string{"salePrice.amount", "retailPrice.amount", "sale_price", "price"},
			idFields:    []string{"goods_id", "goods_sn", "id"},
			descFields:  []string{"goods_desc", "description"},
			urlFields:   []string{"goods_url", "detail_url", "url"},
			imageFields: []string{"goods_img", "image_url", "goods_thumb"},
		},
	}, f)
}
