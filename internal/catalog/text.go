package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nonAlnumRe = regexp.MustCompile(`[^\w\s]`)
	spaceRe    = regexp.MustCompile(`\s+`)
	priceRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
)

// NormalizeName lowercases, strips punctuation, and collapses whitespace.
// Used for the within-adapter (name, price) dedup key.
func NormalizeName(s string) string {
	s = strings.ToLower(s)
	s = nonAlnumRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CleanText trims, collapses whitespace, and bounds length for storage.
func CleanText(s string) string {
	s = spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	if len(s) > 255 {
		s = s[:255]
	}
	return s
}

// ParsePrice extracts the lowest positive amount from a price string.
// Handles "$1.99", "US$ 1.99-5.99", "1,99" and similar catalog formats.
func ParsePrice(s string) float64 {
	s = strings.ReplaceAll(s, ",", ".")
	matches := priceRe.FindAllString(s, -1)
	lowest := 0.0
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil || v <= 0 {
			continue
		}
		if lowest == 0 || v < lowest {
			lowest = v
		}
	}
	return lowest
}

// InferCategory maps name-token heuristics onto store categories.
func InferCategory(name, description string) string {
	text := strings.ToLower(name + " " + description)

	switch {
	case containsAny(text, "lamp", "uv", "led"):
		return "nail-equipment"
	case containsAny(text, "brush", "tool", "picker", "cuticle", "file"):
		return "nail-tools"
	case containsAny(text, "gel", "polish", "base", "lacquer"):
		return "nail-polish"
	case containsAny(text, "tip", "form", "extension"):
		return "nail-extensions"
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

// tagVocabulary maps stored tags to the phrases that imply them.
var tagVocabulary = []struct {
	tag     string
	matches []string
}{
	{"nail-art", []string{"nail art", "nail design", "manicure"}},
	{"rhinestones", []string{"rhinestone", "crystal", "gem", "stone"}},
	{"tools", []string{"tool", "brush", "picker", "dotting"}},
	{"professional", []string{"professional", "salon", "pro "}},
	{"diy", []string{"diy", "home", "beginner"}},
	{"uv-lamp", []string{"uv", "led", "lamp", "light"}},
	{"gel", []string{"gel", "shellac", "soak-off"}},
	{"gradient", []string{"gradient", "ombre", "fade"}},
	{"glitter", []string{"glitter", "sparkle", "shimmer"}},
	{"stickers", []string{"sticker", "decal", "transfer"}},
}

// ExtractTags derives store tags from a product title and description.
func ExtractTags(title, description string) []string {
	text := strings.ToLower(title + " " + description)
	var tags []string
	for _, entry := range tagVocabulary {
		for _, m := range entry.matches {
			if strings.Contains(text, m) {
				tags = append(tags, entry.tag)
				break
			}
		}
	}
	return tags
}

func containsAny(text string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
