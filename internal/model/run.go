package model

import "time"

// RunStatus represents the state of a generation run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// AdapterResult summarizes one source adapter's contribution to a run.
type AdapterResult struct {
	Platform     Platform `json:"platform"`
	Found        int      `json:"found"`
	Attempts     int      `json:"attempts"`
	UsedFallback bool     `json:"used_fallback,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// SourcingSummary aggregates the concurrent sourcing stage.
type SourcingSummary struct {
	TotalProducts int             `json:"total_products"`
	Succeeded     int             `json:"succeeded"`
	Failed        int             `json:"failed"`
	Adapters      []AdapterResult `json:"adapters"`
}

// RunSummary is the persisted outcome of one generation run.
type RunSummary struct {
	Recommendations int             `json:"recommendations"`
	HighConfidence  int             `json:"high_confidence"`
	AverageMargin   float64         `json:"average_margin"`
	BestSellers     int             `json:"best_sellers"`
	Keywords        []string        `json:"keywords"`
	Sourcing        SourcingSummary `json:"sourcing"`
	DurationMS      int64           `json:"duration_ms"`
	Error           string          `json:"error,omitempty"`
}

// GenerationRun is the stored record of a pipeline invocation.
type GenerationRun struct {
	ID        string      `json:"id"`
	Status    RunStatus   `json:"status"`
	Trigger   string      `json:"trigger"` // "manual" or "scheduled"
	Summary   *RunSummary `json:"summary,omitempty"`
	StartedAt time.Time   `json:"started_at"`
	EndedAt   *time.Time  `json:"ended_at,omitempty"`
}
