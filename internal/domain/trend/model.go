package trend

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested trend does not exist.
var ErrNotFound = errors.New("not found")

// SourceType identifies the kind of upstream source a document came from.
type SourceType string

const (
	SourceBlog           SourceType = "blog"
	SourceSocialPost     SourceType = "social_post"
	SourceCompetitorPage SourceType = "competitor_page"
	SourceSearchInterest SourceType = "search_interest"
)

// SourceItem is a raw, source-shaped row as produced by an ingestion
// adapter, before normalization. Type carries the adapter's own naming
// and may be unknown to the normalizer.
type SourceItem struct {
	Type       string    `json:"type"`
	Country    string    `json:"country,omitempty"`
	Title      string    `json:"title"`
	URL        string    `json:"url,omitempty"`
	Seed       string    `json:"seed,omitempty"`
	Metric     float64   `json:"metric,omitempty"`
	ObservedAt time.Time `json:"observed_at"`
}

// RawDocument is the canonical document record the engine operates on.
// Title is the only field clustering ever touches.
type RawDocument struct {
	SourceType SourceType `json:"source_type"`
	Country    string     `json:"country,omitempty"`
	Title      string     `json:"title"`
	URL        string     `json:"url,omitempty"`
	Seed       string     `json:"seed,omitempty"`
	Metric     float64    `json:"metric,omitempty"`
	ObservedAt time.Time  `json:"observed_at"`
}

// TrendCluster groups near-duplicate phrases across documents. Members
// are kept in insertion order (processing order, not time order). A
// cluster is mutated only during the clustering pass and frozen after.
type TrendCluster struct {
	// Index is the creation order of the cluster within a run. It is
	// the tie-breaker everywhere determinism matters.
	Index int

	// Canonical is the representative display phrase: the longest
	// member phrase encountered, first-seen winning ties.
	Canonical string

	// MatchKey is the normalized, stop-word-stripped form of Canonical
	// used for similarity matching.
	MatchKey string

	Members []RawDocument
}

// Countries returns the distinct market codes contributing to the
// cluster, in first-contribution order.
func (c *TrendCluster) Countries() []string {
	seen := make(map[string]bool, len(c.Members))
	var out []string
	for _, m := range c.Members {
		if m.Country == "" || seen[m.Country] {
			continue
		}
		seen[m.Country] = true
		out = append(out, m.Country)
	}
	return out
}

// SourceTypes returns the distinct source types contributing to the
// cluster, in first-contribution order.
func (c *TrendCluster) SourceTypes() []string {
	seen := make(map[SourceType]bool, 4)
	var out []string
	for _, m := range c.Members {
		if seen[m.SourceType] {
			continue
		}
		seen[m.SourceType] = true
		out = append(out, string(m.SourceType))
	}
	return out
}

// FirstSeen returns the earliest observation timestamp per country.
func (c *TrendCluster) FirstSeen() map[string]time.Time {
	out := make(map[string]time.Time)
	for _, m := range c.Members {
		if m.Country == "" || m.ObservedAt.IsZero() {
			continue
		}
		if prev, ok := out[m.Country]; !ok || m.ObservedAt.Before(prev) {
			out[m.Country] = m.ObservedAt
		}
	}
	return out
}

// AggregateMetric returns the sum of member metrics. When no member
// carries a metric the member count stands in, so volume still ranks.
func (c *TrendCluster) AggregateMetric() float64 {
	var sum float64
	for _, m := range c.Members {
		sum += m.Metric
	}
	if sum <= 0 {
		return float64(len(c.Members))
	}
	return sum
}

// FactorScores holds the five bounded sub-scores of a trend. The
// composite score is their exact sum; no hidden normalization.
type FactorScores struct {
	Recency     float64 `json:"recency"`
	Breadth     float64 `json:"breadth"`
	Velocity    float64 `json:"velocity"`
	Specificity float64 `json:"specificity"`
	DietMatch   float64 `json:"diet_match"`
}

// Sum returns the composite score.
func (f FactorScores) Sum() float64 {
	return f.Recency + f.Breadth + f.Velocity + f.Specificity + f.DietMatch
}

// ScoredTrend is the finalized, immutable record emitted once per
// cluster. Score is an unbounded additive sum and is only meaningful as
// a relative rank.
type ScoredTrend struct {
	ID           string               `json:"id"`
	Trend        string               `json:"trend"`
	Score        float64              `json:"score"`
	Factors      FactorScores         `json:"factors"`
	LeadToTarget bool                 `json:"lead_to_target"`
	Markets      []string             `json:"markets"`
	CountryOrder []string             `json:"country_order,omitempty"`
	FirstSeen    map[string]time.Time `json:"first_seen,omitempty"`
	SourceTypes  []string             `json:"source_types"`
	MemberCount  int                  `json:"member_count"`
	Examples     []string             `json:"examples,omitempty"`
	DetectedAt   time.Time            `json:"detected_at"`
}

// KeywordGrowthRecord is emitted by the keyword-growth detector for a
// monitored keyword/country pair whose recent interest outgrew its
// earlier baseline. Its lifecycle is independent of TrendCluster.
type KeywordGrowthRecord struct {
	Keyword    string    `json:"keyword"`
	Country    string    `json:"country"`
	RecentAvg  float64   `json:"recent_avg"`
	EarlierAvg float64   `json:"earlier_avg"`
	GrowthPct  float64   `json:"growth_pct"`
	Score      float64   `json:"score"`
	ComputedAt time.Time `json:"computed_at"`
}

// Filter defines criteria for querying stored trends.
type Filter struct {
	MinScore     float64
	Market       string
	LeadToTarget *bool
	Limit        int
}
