// Package sourcing fans keyword searches out across all source adapters
// and merges the results into one deduplicated candidate pool.
package sourcing

import (
	"fmt"
	"math"
	"strings"

	"github.com/gurlaesthetic/sourcing-cli/internal/catalog"
	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

// priceBucket groups near-identical listings into 5-currency-unit bands
// for the cross-adapter similarity key.
const priceBucket = 5.0

// priceNoiseFloor is the minimum price treated as a real listing when
// awarding the cheaper-candidate point; below it "cheaper" usually means
// a parsing artifact, not a bargain.
const priceNoiseFloor = 0.5

// DedupKey returns the cross-adapter similarity key: punctuation-stripped
// lowercase name plus the candidate's price bucket.
func DedupKey(p model.SupplierProduct) string {
	bucket := math.Floor(p.Price/priceBucket) * priceBucket
	return fmt.Sprintf("%s_%.0f", catalog.NormalizeName(p.Name), bucket)
}

// qualityScore awards points for everything that makes one listing a
// better buy than its rival: platform trust, supplier rating, a strictly
// lower (but plausible) price, a resolvable source URL, and imagery.
func qualityScore(p, rival model.SupplierProduct) float64 {
	score := float64(p.Platform.TrustScore())
	score += p.Rating * 2
	if p.Price > priceNoiseFloor && p.Price < rival.Price {
		score++
	}
	if p.URL != "" {
		score++
	}
	if len(p.Images) > 0 {
		score++
	}
	return score
}

// Compare is a total-order comparator over colliding candidates: >0 when
// a beats b, <0 when b beats a. Ties break on the durable natural key so
// dedup is deterministic regardless of merge order.
func Compare(a, b model.SupplierProduct) int {
	scoreA := qualityScore(a, b)
	scoreB := qualityScore(b, a)

	switch {
	case scoreA > scoreB:
		return 1
	case scoreA < scoreB:
		return -1
	default:
		return strings.Compare(b.Key(), a.Key())
	}
}

// Dedupe collapses the merged pool on DedupKey, keeping the winner of
// Compare for each collision.
func Dedupe(products []model.SupplierProduct) []model.SupplierProduct {
	best := make(map[string]model.SupplierProduct, len(products))
	var order []string

	for _, p := range products {
		key := DedupKey(p)
		existing, ok := best[key]
		if !ok {
			best[key] = p
			order = append(order, key)
			continue
		}
		if Compare(p, existing) > 0 {
			best[key] = p
		}
	}

	out := make([]model.SupplierProduct, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}
