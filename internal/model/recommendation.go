package model

import "time"

// SimilarityMatch pairs a sourced candidate with its similarity against a
// best-seller. Ephemeral: created per matching pass, never persisted.
type SimilarityMatch struct {
	Product         SupplierProduct `json:"supplier_product"`
	SimilarityScore float64         `json:"similarity_score"`
	MatchingFactors []string        `json:"matching_factors"`
	Confidence      float64         `json:"confidence"`
}

// CostBreakdown is the fully landed cost of one unit in the target
// jurisdiction. Invariant: Total = ProductCostTarget + ShippingCostTarget
// + Duty + Tax + ProcessingFee.
type CostBreakdown struct {
	ProductCostSource  float64 `json:"product_cost_source"`
	ProductCostTarget  float64 `json:"product_cost_target"`
	ShippingCostSource float64 `json:"shipping_cost_source"`
	ShippingCostTarget float64 `json:"shipping_cost_target"`
	Duty               float64 `json:"duty"`
	Tax                float64 `json:"tax"`
	ProcessingFee      float64 `json:"processing_fee"`
	Total              float64 `json:"total_landed_cost"`
	ExchangeRate       float64 `json:"exchange_rate"`
	Currency           string  `json:"currency"`
}

// ProfitAnalysis models per-unit economics at a recommended retail price.
type ProfitAnalysis struct {
	ProfitPerUnit         float64 `json:"profit_per_unit"`
	MarginPercent         float64 `json:"margin_percent"`
	EstimatedPeriodProfit float64 `json:"estimated_period_profit"`
	BreakEvenQuantity     int     `json:"break_even_quantity"`
	RecommendedPrice      float64 `json:"recommended_price"`
}

// Recommendation aggregates one sourced candidate, the best-seller it is
// based on, and the scored economics of stocking it.
type Recommendation struct {
	ID              string          `json:"id"`
	Product         SupplierProduct `json:"supplier_product"`
	BasedOn         BestSeller      `json:"based_on_product"`
	SimilarityScore float64         `json:"similarity_score"`
	MatchingFactors []string        `json:"matching_factors,omitempty"`
	Cost            CostBreakdown   `json:"cost_breakdown"`
	Profit          ProfitAnalysis  `json:"profit_analysis"`
	Confidence      float64         `json:"confidence_score"`
	Reason          string          `json:"recommendation_reason"`
	EstimatedDemand int             `json:"estimated_demand"`
	CreatedAt       time.Time       `json:"created_at,omitempty"`
}
