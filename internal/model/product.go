package model

import (
	"fmt"
	"strings"
	"time"
)

// Platform identifies an external supplier catalog.
type Platform string

const (
	PlatformAlibaba Platform = "alibaba"
	PlatformTemu    Platform = "temu"
	PlatformShein   Platform = "shein"
)

// Platforms lists all supported platforms in trust order.
func Platforms() []Platform {
	return []Platform{PlatformAlibaba, PlatformTemu, PlatformShein}
}

// ParsePlatform converts a string into a Platform.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(s) {
	case "alibaba":
		return PlatformAlibaba, nil
	case "temu":
		return PlatformTemu, nil
	case "shein":
		return PlatformShein, nil
	default:
		return "", fmt.Errorf("unknown platform: %q (valid: alibaba, temu, shein)", s)
	}
}

// TrustScore returns the platform's relative trust points used by the
// dedup quality comparator. Higher wins ties between near-identical
// candidates.
func (p Platform) TrustScore() int {
	switch p {
	case PlatformAlibaba:
		return 3
	case PlatformTemu:
		return 2
	case PlatformShein:
		return 1
	default:
		return 0
	}
}

// Reliability returns the fixed per-platform reliability constant used
// in confidence scoring.
func (p Platform) Reliability() float64 {
	switch p {
	case PlatformAlibaba:
		return 0.8
	case PlatformTemu:
		return 0.6
	case PlatformShein:
		return 0.5
	default:
		return 0.5
	}
}

// Benefit returns the platform-specific selling point quoted in
// recommendation justifications.
func (p Platform) Benefit() string {
	switch p {
	case PlatformAlibaba:
		return "bulk pricing available"
	case PlatformTemu:
		return "fast shipping & trendy styles"
	case PlatformShein:
		return "competitive prices & aesthetic appeal"
	default:
		return ""
	}
}

// CatalogItem is a product in the store's own catalog.
type CatalogItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Cost        float64 `json:"cost"`
	Category    string  `json:"category,omitempty"`
	Inventory   int     `json:"inventory"`
}

// SalesSummary aggregates order-line history for one catalog item.
type SalesSummary struct {
	ProductID    string    `json:"product_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Price        float64   `json:"price"`
	Cost         float64   `json:"cost"`
	UnitsSold    int       `json:"units_sold"`
	Revenue      float64   `json:"revenue"`
	Profit       float64   `json:"profit"`
	LastSoldAt   time.Time `json:"last_sold_at"`
	FirstSoldAt  time.Time `json:"first_sold_at,omitempty"`
}

// BestSeller is a catalog item ranked by historical sales, annotated with
// a derived performance score and inferred category. Read-only input to
// the pipeline.
type BestSeller struct {
	ProductID        string  `json:"product_id"`
	Name             string  `json:"name"`
	Description      string  `json:"description,omitempty"`
	Price            float64 `json:"price"`
	Cost             float64 `json:"cost"`
	UnitsSold        int     `json:"units_sold"`
	Revenue          float64 `json:"revenue"`
	Profit           float64 `json:"profit"`
	PerformanceScore float64 `json:"performance_score"`
	Category         string  `json:"category"`
}

// SupplierProduct is one normalized candidate sourced from an external
// catalog. (Platform, ExternalID) is the durable identity used for
// persistence; Synthetic marks deterministic fallback substitutes.
type SupplierProduct struct {
	ID           string    `json:"id,omitempty"`
	Platform     Platform  `json:"platform"`
	ExternalID   string    `json:"external_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	SupplierName string    `json:"supplier_name,omitempty"`
	Rating       float64   `json:"supplier_rating,omitempty"`
	ShippingCost float64   `json:"shipping_cost,omitempty"`
	MOQ          int       `json:"minimum_order_quantity"`
	Images       []string  `json:"images,omitempty"`
	Category     string    `json:"category,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	URL          string    `json:"product_url,omitempty"`
	Synthetic    bool      `json:"synthetic,omitempty"`
	ScrapedAt    time.Time `json:"scraped_at,omitempty"`
}

// Key returns the durable natural key for persistence-level dedup.
func (p SupplierProduct) Key() string {
	return string(p.Platform) + ":" + p.ExternalID
}
