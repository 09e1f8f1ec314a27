// Package matcher scores sourced candidates against a best-selling
// reference item on five weighted factors and derives an ordering
// confidence for each match.
package matcher

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

// similarityFloor is the minimum weighted similarity a candidate must
// reach before it is worth costing out.
const similarityFloor = 0.2

// Factor weights. They sum to 1; the result is clamped anyway so later
// re-tuning cannot push scores out of range.
const (
	weightName     = 0.40
	weightCategory = 0.25
	weightKeywords = 0.20
	weightPrice    = 0.10
	weightTags     = 0.05
)

// Matcher scores supplier candidates against reference catalog items.
// Stateless; the zero value is usable but New keeps call sites uniform.
type Matcher struct{}

// New creates a matcher.
func New() *Matcher { return &Matcher{} }

// Match scores every candidate against the reference seller and returns
// the ones above the similarity floor, ordered by confidence descending.
func (m *Matcher) Match(reference model.BestSeller, candidates []model.SupplierProduct) []model.SimilarityMatch {
	matches := make([]model.SimilarityMatch, 0, len(candidates))

	for _, candidate := range candidates {
		score, factors := m.similarity(reference, candidate)
		if score <= similarityFloor {
			continue
		}
		matches = append(matches, model.SimilarityMatch{
			Product:         candidate,
			SimilarityScore: score,
			MatchingFactors: factors,
			Confidence:      m.confidence(score, candidate),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

// similarity computes the weighted five-factor score in [0,1] plus the
// human-readable factor list persisted with the recommendation.
func (m *Matcher) similarity(ref model.BestSeller, cand model.SupplierProduct) (float64, []string) {
	var total float64
	var factors []string

	name := nameSimilarity(ref.Name, cand.Name)
	total += name * weightName
	if name > 0.5 {
		factors = append(factors, fmt.Sprintf("similar name (%.0f%%)", name*100))
	}

	category := categorySimilarity(ref, cand)
	total += category * weightCategory
	if category > 0.5 {
		factors = append(factors, "same category")
	}

	keywords := jaccard(keywordSet(ref.Name, ref.Description), keywordSet(cand.Name, cand.Description))
	total += keywords * weightKeywords
	if keywords > 0.3 {
		factors = append(factors, fmt.Sprintf("keyword overlap (%.0f%%)", keywords*100))
	}

	price := priceSimilarity(referenceCost(ref), cand.Price)
	total += price * weightPrice
	if price > 0.7 {
		factors = append(factors, "similar price range")
	}

	tags := jaccard(toSet(refTags(ref)), toSet(cand.Tags))
	total += tags * weightTags
	if tags > 0.4 {
		factors = append(factors, "matching tags")
	}

	return math.Min(total, 1), factors
}

// confidence blends similarity with supplier-quality signals. A missing
// rating counts as neutral rather than zero so unrated suppliers are not
// buried below every rated one.
func (m *Matcher) confidence(similarity float64, cand model.SupplierProduct) float64 {
	confidence := similarity * 0.6

	ratingRatio := 0.5
	if cand.Rating > 0 {
		ratingRatio = cand.Rating / 5.0
	}
	confidence += ratingRatio * 0.2

	confidence += cand.Platform.Reliability() * 0.1
	confidence += moqPreference(cand.MOQ) * 0.1

	return math.Min(confidence, 1)
}

// moqPreference favors suppliers whose minimum order is small enough to
// trial a product before committing to volume.
func moqPreference(moq int) float64 {
	switch {
	case moq <= 10:
		return 1.0
	case moq <= 50:
		return 0.7
	default:
		return 0.3
	}
}

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

func normalizeName(s string) string {
	s = strings.ToLower(s)
	s = nonWordRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// nameSimilarity blends token-set Jaccard overlap with normalized edit
// distance, favoring the word-level signal.
func nameSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	na, nb := normalizeName(a), normalizeName(b)

	jac := jaccard(toSet(strings.Fields(na)), toSet(strings.Fields(nb)))
	lev := levenshtein.Similarity(na, nb, nil)

	return jac*0.7 + lev*0.3
}

// categoryHierarchy maps a category to its adjacent categories. Adjacency
// is worth 0.7; sharing only a domain root word is worth less.
var categoryHierarchy = map[string][]string{
	"nail-tools":       {"nail-accessories", "beauty-tools"},
	"nail-accessories": {"nail-tools", "beauty-accessories"},
	"nail-equipment":   {"nail-tools", "beauty-equipment"},
	"nail-polish":      {"nail-accessories", "beauty-products"},
	"beauty-products":  {"nail-polish", "cosmetics"},
	"beauty-tools":     {"nail-tools", "beauty-equipment"},
}

func categorySimilarity(ref model.BestSeller, cand model.SupplierProduct) float64 {
	refCat := ref.Category
	if refCat == "" {
		refCat = inferCategory(ref.Name, ref.Description)
	}
	candCat := cand.Category
	if candCat == "" {
		candCat = inferCategory(cand.Name, cand.Description)
	}
	if refCat == "" || candCat == "" {
		return 0
	}
	if refCat == candCat {
		return 1.0
	}
	for _, adjacent := range categoryHierarchy[refCat] {
		if adjacent == candCat {
			return 0.7
		}
	}
	if strings.Contains(refCat, "nail") && strings.Contains(candCat, "nail") {
		return 0.5
	}
	if strings.Contains(refCat, "beauty") && strings.Contains(candCat, "beauty") {
		return 0.3
	}
	return 0
}

func inferCategory(name, description string) string {
	text := strings.ToLower(name + " " + description)
	switch {
	case containsAny(text, "lamp", "uv", "led"):
		return "nail-equipment"
	case containsAny(text, "brush", "tool", "picker"):
		return "nail-tools"
	case containsAny(text, "gel", "polish", "base"):
		return "nail-polish"
	case containsAny(text, "rhinestone", "crystal", "gem"):
		return "nail-accessories"
	case strings.Contains(text, "nail"):
		return "nail-accessories"
	case containsAny(text, "beauty", "cosmetic"):
		return "beauty-products"
	default:
		return "other"
	}
}

var keywordStopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "a": {}, "an": {},
}

// compositeKeywords are hyphenated so the multi-word term survives the
// set intersection as a single high-signal token.
var compositeKeywords = map[string]string{
	"nail art":          "nail-art",
	"uv lamp":           "uv-lamp",
	"gel polish":        "gel-polish",
	"rhinestone picker": "rhinestone-picker",
}

var numericRe = regexp.MustCompile(`^\d+$`)

func keywordSet(name, description string) map[string]struct{} {
	text := strings.ToLower(name + " " + description)
	cleaned := nonWordRe.ReplaceAllString(text, " ")

	set := make(map[string]struct{})
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 2 || numericRe.MatchString(word) {
			continue
		}
		if _, stop := keywordStopWords[word]; stop {
			continue
		}
		set[word] = struct{}{}
	}
	for phrase, token := range compositeKeywords {
		if strings.Contains(text, phrase) {
			set[token] = struct{}{}
		}
	}
	return set
}

// priceSimilarity is the ratio of the cheaper to the dearer price, so it
// peaks at 1.0 when the reference cost and candidate price coincide.
func priceSimilarity(refCost, candPrice float64) float64 {
	if refCost <= 0 || candPrice <= 0 {
		return 0
	}
	return math.Min(refCost, candPrice) / math.Max(refCost, candPrice)
}

// referenceCost prefers the seller's recorded unit cost; list price is
// the fallback when cost was never captured.
func referenceCost(ref model.BestSeller) float64 {
	if ref.Cost > 0 {
		return ref.Cost
	}
	return ref.Price
}

// refTags derives comparable tags for a catalog item, which carries no
// explicit tag list of its own.
func refTags(ref model.BestSeller) []string {
	var tags []string
	text := strings.ToLower(ref.Name + " " + ref.Description)
	for _, tag := range []string{"nail", "rhinestone", "crystal", "gem", "brush", "tool", "gel", "polish", "uv", "lamp", "glitter", "sticker", "tip", "cuticle", "professional", "set", "kit"} {
		if strings.Contains(text, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
