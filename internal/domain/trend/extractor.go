package trend

import (
	"context"
	"time"
)

// Extractor defines the interface for the trend extraction pipeline.
type Extractor interface {
	// Start begins scheduled extraction runs.
	Start(ctx context.Context) error

	// Stop gracefully stops scheduled runs.
	Stop(ctx context.Context) error

	// RunOnce performs a single collect-extract-persist run.
	RunOnce(ctx context.Context) error

	// GetTrends returns stored trends filtered by the provided criteria.
	GetTrends(ctx context.Context, filter Filter) ([]ScoredTrend, error)

	// GetTrendByID returns a specific trend by ID.
	GetTrendByID(ctx context.Context, id string) (*ScoredTrend, error)

	// GetGrowth returns keyword growth records from the latest runs.
	GetGrowth(ctx context.Context, limit int) ([]KeywordGrowthRecord, error)

	// RegisterTrendHandler registers a callback invoked for every trend
	// a run emits.
	RegisterTrendHandler(handler func(ScoredTrend) error)
}

// Source is an ingestion adapter producing raw source-shaped items.
// Fetch errors are per-source and never abort a run.
type Source interface {
	// Name identifies the source in logs and drop counts.
	Name() string

	// Fetch returns the source's current items.
	Fetch(ctx context.Context) ([]SourceItem, error)
}

// InterestProvider supplies per-keyword, per-country interest time
// series for the keyword-growth detector. The outer map key is the
// keyword, the inner key the country code; series are ordered oldest
// to newest.
type InterestProvider interface {
	Series(ctx context.Context, keywords map[string][]string) (map[string]map[string][]float64, error)
}

// Clock lets tests pin the reference time of a run.
type Clock func() time.Time
