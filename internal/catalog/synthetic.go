package catalog

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"

	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

// syntheticPerKeyword bounds how many substitutes one failed keyword
// contributes so fallbacks cannot swamp real candidates.
const syntheticPerKeyword = 4

// syntheticTemplate shapes one generated product.
type syntheticTemplate struct {
	prefix   string
	suffix   string
	minPrice float64
	maxPrice float64
}

var syntheticTemplates = []syntheticTemplate{
	{"Professional", "Tool Set", 5.00, 25.00},
	{"Cute", "Starter Kit", 3.00, 18.00},
	{"Aesthetic", "Collection", 4.00, 19.00},
	{"Trendy", "Bundle", 1.50, 10.00},
	{"Salon Grade", "Supply Pack", 6.00, 28.00},
}

var syntheticStyles = []string{
	"Kawaii Cute", "Aesthetic Vibes", "Viral Style",
	"Studio Classic", "Minimal Chic",
}

// seedFor derives a stable 32-bit seed from platform, keyword and index.
// The same inputs always generate the same product, which keeps the
// fallback path reproducible in tests and across retries.
func seedFor(platform, keyword string, index int) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(platform))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strings.ToLower(keyword)))
	_, _ = h.Write([]byte{byte(index)})
	return h.Sum32()
}

// GenerateSynthetic produces n deterministic substitute products for one
// (platform, keyword) pair, tagged as synthetic so downstream stages and
// operators can tell them from live candidates.
func GenerateSynthetic(platform model.Platform, keyword string, n int) []model.SupplierProduct {
	if n <= 0 || n > len(syntheticTemplates) {
		n = syntheticPerKeyword
	}

	slug := strings.ReplaceAll(strings.ToLower(keyword), " ", "-")
	products := make([]model.SupplierProduct, 0, n)

	for i := 0; i < n; i++ {
		seed := seedFor(string(platform), keyword, i)
		rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)*2654435761))

		tmpl := syntheticTemplates[i%len(syntheticTemplates)]
		style := syntheticStyles[int(seed)%len(syntheticStyles)]
		price := tmpl.minPrice + rng.Float64()*(tmpl.maxPrice-tmpl.minPrice)
		price = float64(int(price*100)) / 100
		rating := 3.2 + rng.Float64()*1.6
		moq := 1 + rng.IntN(20)
		if platform == model.PlatformAlibaba {
			moq = 10 + rng.IntN(90) // wholesale lots
		}

		name := fmt.Sprintf("%s %s %s - %s", tmpl.prefix, keyword, tmpl.suffix, style)
		products = append(products, model.SupplierProduct{
			Platform:     platform,
			ExternalID:   fmt.Sprintf("%s_SYN_%s_%d", strings.ToUpper(string(platform)), strings.ReplaceAll(strings.ToUpper(slug), "-", "_"), i),
			Name:         name,
			Description:  fmt.Sprintf("%s %s perfect for %s designs", style, keyword, keyword),
			Price:        price,
			Currency:     "USD",
			SupplierName: fmt.Sprintf("%s Beauty Supplies", titleCase(string(platform))),
			Rating:       float64(int(rating*10)) / 10,
			ShippingCost: float64(int((1.5+rng.Float64()*4.5)*100)) / 100,
			MOQ:          moq,
			Images:       []string{fmt.Sprintf("https://%s.example/img/%s-%d.jpg", platform, slug, i)},
			Category:     InferCategory(name, keyword),
			Tags:         ExtractTags(name, keyword),
			URL:          fmt.Sprintf("https://%s.example/item/%s-%d", platform, slug, i),
			Synthetic:    true,
		})
	}
	return products
}

// SyntheticAdapter is the fallback SourceAdapter used when a platform's
// live catalog is unreachable or unparsable after retries.
type SyntheticAdapter struct {
	platform   model.Platform
	keywordCap int
	perKeyword int
}

// NewSyntheticAdapter creates a deterministic fallback adapter for one
// platform.
func NewSyntheticAdapter(platform model.Platform) *SyntheticAdapter {
	return &SyntheticAdapter{
		platform:   platform,
		keywordCap: 5,
		perKeyword: syntheticPerKeyword,
	}
}

func (a *SyntheticAdapter) Platform() model.Platform { return a.platform }

// Source generates substitutes for each keyword. It never fails.
func (a *SyntheticAdapter) Source(ctx context.Context, keywords []string) (*Result, error) {
	if len(keywords) > a.keywordCap {
		keywords = keywords[:a.keywordCap]
	}

	var all []model.SupplierProduct
	for _, keyword := range keywords {
		if ctx.Err() != nil {
			break
		}
		all = append(all, GenerateSynthetic(a.platform, keyword, a.perKeyword)...)
	}

	deduped := dedupeByNamePrice(all)
	return &Result{
		Platform: a.platform,
		Products: deduped,
		Found:    len(deduped),
		OK:       true,
	}, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
