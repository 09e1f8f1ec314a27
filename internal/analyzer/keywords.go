package analyzer

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "a": {}, "an": {},
	"beauty": {}, "product": {},
}

// compositePhrases are multi-word domain terms kept intact; single-token
// splitting would dilute them into near-useless generic words.
var compositePhrases = []string{"nail art", "gel polish", "uv lamp"}

var categoryKeywords = map[string][]string{
	"nail-accessories": {"nail", "decoration", "rhinestone", "crystal", "gem", "sticker"},
	"nail-tools":       {"tool", "brush", "picker", "dotting", "cuticle", "file"},
	"nail-equipment":   {"lamp", "uv", "led", "drill", "vacuum", "fan"},
	"nail-polish":      {"polish", "gel", "base", "top", "color", "lacquer"},
	"nail-extensions":  {"tip", "form", "extension", "builder", "overlay"},
}

var (
	nonWordRe = regexp.MustCompile(`[^\w\s]`)
	numericRe = regexp.MustCompile(`^\d+$`)
)

// ExtractKeywords distills the best-seller list into search keywords,
// weighting each token by the performance of the products it came from.
// Category-derived keywords contribute at half weight so they season the
// set without drowning out the product names themselves. Returns at most
// the configured maximum, strongest first.
func (a *Analyzer) ExtractKeywords(sellers []model.BestSeller) []string {
	weights := make(map[string]float64)

	for _, seller := range sellers {
		for _, kw := range tokenize(seller.Name) {
			weights[kw] += seller.PerformanceScore
		}
		for _, kw := range keywordsForCategory(seller.Category) {
			weights[kw] += seller.PerformanceScore * 0.5
		}
	}

	ranked := make([]string, 0, len(weights))
	for kw := range weights {
		ranked = append(ranked, kw)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if weights[ranked[i]] != weights[ranked[j]] {
			return weights[ranked[i]] > weights[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	max := a.cfg.MaxKeywords
	if max <= 0 {
		max = 15
	}
	if len(ranked) > max {
		ranked = ranked[:max]
	}

	zap.L().Info("extracted keywords", zap.Strings("keywords", ranked))
	return ranked
}

// tokenize splits a product name into keyword tokens, dropping stop
// words, short fragments, and bare numbers, then re-adds any composite
// phrase the name contains.
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	cleaned := nonWordRe.ReplaceAllString(lower, " ")

	seen := make(map[string]struct{})
	var out []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 2 || numericRe.MatchString(word) {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}

	for _, phrase := range compositePhrases {
		if strings.Contains(lower, phrase) {
			if _, dup := seen[phrase]; !dup {
				seen[phrase] = struct{}{}
				out = append(out, phrase)
			}
		}
	}

	return out
}

func keywordsForCategory(category string) []string {
	if kws, ok := categoryKeywords[category]; ok {
		return kws
	}
	return []string{"nail", "beauty"}
}
