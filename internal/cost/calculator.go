// Package cost converts a sourced candidate's price into a fully landed
// cost in the target jurisdiction and models the economics of reselling
// it there.
package cost

import (
	"math"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/currency"

	"github.com/gurlaesthetic/sourcing-cli/internal/config"
	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

// Calculator turns supplier prices into landed-cost breakdowns. All
// rates come from configuration; there is no process-wide rate table.
type Calculator struct {
	cfg config.CostConfig
}

// NewCalculator creates a Calculator with the given rate configuration.
func NewCalculator(cfg config.CostConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// LandedCost computes the full per-unit import cost for one candidate:
// currency conversion, carrier base fee, duty on the dutiable value, tax
// on the duty-inclusive value, and the fixed processing fee.
func (c *Calculator) LandedCost(p model.SupplierProduct) model.CostBreakdown {
	rate := c.exchangeRate(p.Currency)

	productCost := p.Price * rate

	shippingSource := p.ShippingCost
	if shippingSource <= 0 {
		shippingSource = c.estimateShipping(p)
	}
	shippingCost := shippingSource*rate + c.cfg.CarrierBaseFee

	dutiable := productCost + shippingCost
	duty := dutiable * c.cfg.DutyRate
	tax := (dutiable + duty) * c.cfg.TaxRate

	total := productCost + shippingCost + duty + tax + c.cfg.ProcessingFee

	return model.CostBreakdown{
		ProductCostSource:  p.Price,
		ProductCostTarget:  productCost,
		ShippingCostSource: shippingSource,
		ShippingCostTarget: shippingCost,
		Duty:               duty,
		Tax:                tax,
		ProcessingFee:      c.cfg.ProcessingFee,
		Total:              total,
		ExchangeRate:       rate,
		Currency:           c.cfg.TargetCurrency,
	}
}

// exchangeRate resolves the source-to-target rate for an ISO currency
// code. Unknown or malformed codes fall back to the USD rate rather than
// failing the whole candidate.
func (c *Calculator) exchangeRate(code string) float64 {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = "USD"
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		zap.L().Warn("unrecognized currency code, assuming USD",
			zap.String("currency", code))
		return c.cfg.ExchangeRates["USD"]
	}

	if rate, ok := c.cfg.ExchangeRates[unit.String()]; ok {
		return rate
	}

	zap.L().Warn("no exchange rate configured for currency, using USD rate",
		zap.String("currency", unit.String()))
	return c.cfg.ExchangeRates["USD"]
}

// estimateShipping fills in a plausible source-currency shipping cost
// when the listing carried none: per-platform base, heavier for
// equipment, discounted for bulk orders.
func (c *Calculator) estimateShipping(p model.SupplierProduct) float64 {
	shipping, ok := c.cfg.BaseShipping[string(p.Platform)]
	if !ok {
		shipping = c.cfg.DefaultShipping
	}

	if strings.Contains(p.Category, "equipment") || strings.Contains(strings.ToLower(p.Name), "lamp") {
		shipping *= 1.5
	}
	if p.MOQ > 50 {
		shipping *= 0.8
	}

	return math.Round(shipping*100) / 100
}

// BulkTier is one row of a volume-discount schedule.
type BulkTier struct {
	Quantity  int     `json:"quantity"`
	UnitCost  float64 `json:"unit_cost"`
	TotalCost float64 `json:"total_cost"`
}

// BulkPricing models supplier-side volume discounts at the given order
// quantities, in the listing's source currency.
func (c *Calculator) BulkPricing(p model.SupplierProduct, quantities []int) []BulkTier {
	tiers := make([]BulkTier, 0, len(quantities))
	for _, qty := range quantities {
		var discount float64
		switch {
		case qty >= 100:
			discount = 0.15
		case qty >= 50:
			discount = 0.10
		case qty >= 20:
			discount = 0.05
		}
		unit := p.Price * (1 - discount)
		tiers = append(tiers, BulkTier{
			Quantity:  qty,
			UnitCost:  unit,
			TotalCost: unit * float64(qty),
		})
	}
	return tiers
}
