package extract

import (
	"math"
	"sort"
	"time"

	"trendwatch/internal/domain/trend"
)

// ScorerConfig exposes the bounds and baselines of the five factors.
// The stock values replicate the ranges observed in production; they
// have no deeper semantic justification and are tunable per deployment.
type ScorerConfig struct {
	// RecencyWindow is the age of the freshest band of the recency
	// ladder; older bands are fixed multiples of it.
	RecencyWindow time.Duration

	// RecencyMax is the recency ceiling.
	RecencyMax float64

	// BreadthBase and BreadthStep build the breadth score: base plus
	// one step per extra distinct source type and per extra distinct
	// country, capped at BreadthCap.
	BreadthBase float64
	BreadthStep float64
	BreadthCap  float64

	// VelocityWindow splits a cluster's members into recent and
	// earlier halves for the growth ratio.
	VelocityWindow time.Duration

	// VelocityNeutral is assigned when a cluster is too small or too
	// fresh to compute growth from.
	VelocityNeutral float64

	// SpecificityBase and SpecificityCap bound the log-scaled volume
	// term.
	SpecificityBase float64
	SpecificityCap  float64

	// DietBonus and DietBase are the diet-match factor's two values.
	DietBonus float64
	DietBase  float64
}

// DefaultScorerConfig returns the stock factor bounds.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		RecencyWindow:   7 * 24 * time.Hour,
		RecencyMax:      5.0,
		BreadthBase:     0.5,
		BreadthStep:     0.25,
		BreadthCap:      1.5,
		VelocityWindow:  7 * 24 * time.Hour,
		VelocityNeutral: 2.5,
		SpecificityBase: 1.0,
		SpecificityCap:  5.0,
		DietBonus:       2.0,
		DietBase:        1.0,
	}
}

// Scorer computes the five factor scores of a finalized cluster and
// their composite sum.
type Scorer struct {
	cfg       ScorerConfig
	markets   *MarketClassifier
	dietTerms []string
}

// NewScorer creates a scorer. dietTerms come from the lexicon config.
func NewScorer(cfg ScorerConfig, markets *MarketClassifier, dietTerms []string) *Scorer {
	return &Scorer{
		cfg:       cfg,
		markets:   markets,
		dietTerms: normalizeTerms(dietTerms),
	}
}

// Score turns a finalized cluster into an immutable ScoredTrend. now is
// the run's reference time; runs over the same input and the same now
// produce bit-identical scores.
func (s *Scorer) Score(c *trend.TrendCluster, now time.Time) trend.ScoredTrend {
	firstSeen := c.FirstSeen()
	countries := c.Countries()

	factors := trend.FactorScores{
		Recency:     s.recency(firstSeen, now),
		Breadth:     s.breadth(c),
		Velocity:    s.velocity(c, now),
		Specificity: s.specificity(c),
		DietMatch:   s.dietMatch(c.Canonical),
	}

	return trend.ScoredTrend{
		Trend:        c.Canonical,
		Score:        factors.Sum(),
		Factors:      factors,
		LeadToTarget: s.markets.LeadToTarget(countries),
		Markets:      countries,
		CountryOrder: CountryOrder(firstSeen),
		FirstSeen:    firstSeen,
		SourceTypes:  c.SourceTypes(),
		MemberCount:  len(c.Members),
		Examples:     exampleTitles(c, 8),
		DetectedAt:   now,
	}
}

// ScoreAll scores every cluster and orders the result by composite
// score descending, ties broken by cluster creation order.
func (s *Scorer) ScoreAll(clusters []*trend.TrendCluster, now time.Time) []trend.ScoredTrend {
	out := make([]trend.ScoredTrend, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, s.Score(c, now))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return out
}

// recency scores how new the trend is from its earliest observation.
// Ladder: within 1x window (7d stock) -> max, 2x -> 4, then 30/60/90
// days (or 4x/8x/12x the window, whichever is later) -> 3/2/1,
// older -> 0.5.
func (s *Scorer) recency(firstSeen map[string]time.Time, now time.Time) float64 {
	var earliest time.Time
	for _, ts := range firstSeen {
		if earliest.IsZero() || ts.Before(earliest) {
			earliest = ts
		}
	}
	if earliest.IsZero() {
		return 0
	}

	age := now.Sub(earliest)
	w := s.cfg.RecencyWindow

	switch {
	case age <= w:
		return s.cfg.RecencyMax
	case age <= 2*w:
		return 4.0
	case age <= maxDuration(30*24*time.Hour, 4*w):
		return 3.0
	case age <= maxDuration(60*24*time.Hour, 8*w):
		return 2.0
	case age <= maxDuration(90*24*time.Hour, 12*w):
		return 1.0
	default:
		return 0.5
	}
}

// The lower rungs sit at 30/60/90 days for the stock 7-day window;
// widening the window past that stretches them proportionally so no
// rung becomes unreachable.
func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

// breadth rewards distinct source types and countries with diminishing
// returns: fixed steps and a hard cap rather than anything linear in
// member count.
func (s *Scorer) breadth(c *trend.TrendCluster) float64 {
	types := len(c.SourceTypes())
	countries := len(c.Countries())
	if types == 0 {
		return 0
	}

	score := s.cfg.BreadthBase
	score += s.cfg.BreadthStep * float64(types-1)
	if countries > 1 {
		score += s.cfg.BreadthStep * float64(countries-1)
	}

	return math.Min(s.cfg.BreadthCap, score)
}

// velocity compares member counts in the recent window against the
// earlier part of the run. Search-interest members already carry a
// growth percentage in their metric, so when they dominate a cluster
// that measured growth feeds the ladder instead of document counts.
func (s *Scorer) velocity(c *trend.TrendCluster, now time.Time) float64 {
	if growth, ok := interestGrowth(c); ok {
		return velocityLadder(growth)
	}

	cutoff := now.Add(-s.cfg.VelocityWindow)

	recent, earlier := 0, 0
	for _, m := range c.Members {
		if m.ObservedAt.IsZero() {
			continue
		}
		if m.ObservedAt.After(cutoff) {
			recent++
		} else {
			earlier++
		}
	}

	// Nothing to compare against: a brand-new or single-mention
	// cluster gets the neutral score instead of a fabricated ratio.
	if earlier == 0 {
		return s.cfg.VelocityNeutral
	}

	growth := (float64(recent) - float64(earlier)) / float64(earlier)
	return velocityLadder(growth)
}

// interestGrowth averages the growth percentages of a cluster's
// search-interest members. It applies only when those members are the
// majority; mixed clusters keep the count-based comparison.
func interestGrowth(c *trend.TrendCluster) (float64, bool) {
	var sum float64
	count := 0
	for _, m := range c.Members {
		if m.SourceType != trend.SourceSearchInterest {
			continue
		}
		sum += m.Metric
		count++
	}

	if count == 0 || count*2 <= len(c.Members) {
		return 0, false
	}

	// Metrics are percentages; the ladder takes a ratio.
	return sum / float64(count) / 100, true
}

// velocityLadder maps a growth ratio onto the bounded 0.5-5 ladder.
func velocityLadder(growth float64) float64 {
	switch {
	case growth > 0.5:
		return 5.0
	case growth > 0.3:
		return 4.0
	case growth > 0.1:
		return 3.0
	case growth > 0:
		return 2.0
	case growth > -0.1:
		return 1.0
	default:
		return 0.5
	}
}

// specificity is the volume term: log-scaled aggregate metric so one
// viral post cannot dominate the ranking.
func (s *Scorer) specificity(c *trend.TrendCluster) float64 {
	agg := c.AggregateMetric()
	if agg <= 0 {
		return s.cfg.SpecificityBase
	}
	return math.Min(s.cfg.SpecificityCap, s.cfg.SpecificityBase+math.Log10(1+agg))
}

// dietMatch grants the fixed bonus when the canonical phrase names a
// diet or lifestyle term.
func (s *Scorer) dietMatch(canonical string) float64 {
	norm := NormalizeForMatch(canonical)
	for _, term := range s.dietTerms {
		if containsTerm(norm, term) {
			return s.cfg.DietBonus
		}
	}
	return s.cfg.DietBase
}

func exampleTitles(c *trend.TrendCluster, max int) []string {
	seen := make(map[string]bool, len(c.Members))
	var out []string
	for _, m := range c.Members {
		if seen[m.Title] {
			continue
		}
		seen[m.Title] = true
		out = append(out, m.Title)
		if len(out) == max {
			break
		}
	}
	return out
}
