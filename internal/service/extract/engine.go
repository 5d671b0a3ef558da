package extract

import (
	"time"

	"trendwatch/internal/domain/trend"
)

// RunStats counts the per-document anomalies a run recovered from.
// Drops are a normal part of operating over noisy upstreams and are
// never surfaced as failures.
type RunStats struct {
	ItemsIn            int `json:"items_in"`
	DroppedUnknownType int `json:"dropped_unknown_type"`
	DroppedEmptyTitle  int `json:"dropped_empty_title"`
	DroppedNotFood     int `json:"dropped_not_food"`
	Documents          int `json:"documents"`
	Clusters           int `json:"clusters"`
}

// EngineConfig bundles the externally supplied configuration the
// engine consumes: lexicons, market sets, the similarity threshold and
// the factor bounds. All of it is swappable data.
type EngineConfig struct {
	Lexicons            Lexicons
	Markets             MarketSets
	SimilarityThreshold int
	Scorer              ScorerConfig
	Growth              GrowthConfig
}

// DefaultEngineConfig returns the stock engine configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Lexicons:            DefaultLexicons(),
		Markets:             DefaultMarketSets(),
		SimilarityThreshold: DefaultSimilarityThreshold,
		Scorer:              DefaultScorerConfig(),
		Growth:              DefaultGrowthConfig(),
	}
}

// Engine is the trend extraction core: normalize, gate on food intent,
// cluster, classify markets and score. It is synchronous, in-memory
// and deterministic: the same input, configuration and reference time
// produce bit-identical output.
type Engine struct {
	normalizer *Normalizer
	filter     *FoodFilter
	clusterer  *Clusterer
	scorer     *Scorer
	growth     *GrowthDetector
}

// NewEngine builds an engine from configuration. The only hard failure
// is structurally invalid configuration; everything downstream is
// recovered per document.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	filter, err := NewFoodFilter(cfg.Lexicons)
	if err != nil {
		return nil, err
	}

	markets := NewMarketClassifier(cfg.Markets)

	return &Engine{
		normalizer: NewNormalizer(),
		filter:     filter,
		clusterer:  NewClusterer(cfg.SimilarityThreshold, cfg.Lexicons.StopWords),
		scorer:     NewScorer(cfg.Scorer, markets, cfg.Lexicons.Diet),
		growth:     NewGrowthDetector(cfg.Growth),
	}, nil
}

// ExtractTrends runs the full document pipeline. An empty input set
// yields an empty result, not an error: "no trends this run" is a
// valid, reportable state.
func (e *Engine) ExtractTrends(items []trend.SourceItem, now time.Time) ([]trend.ScoredTrend, RunStats) {
	stats := RunStats{ItemsIn: len(items)}

	docs := e.normalizer.Normalize(items, &stats)

	relevant := docs[:0]
	for _, d := range docs {
		if e.filter.Relevant(d.Title) {
			relevant = append(relevant, d)
		} else {
			stats.DroppedNotFood++
		}
	}
	stats.Documents = len(relevant)

	clusters := e.clusterer.Cluster(relevant)
	stats.Clusters = len(clusters)

	return e.scorer.ScoreAll(clusters, now), stats
}

// DetectGrowth runs the time-series path over monitored keyword
// interest series.
func (e *Engine) DetectGrowth(series map[string]map[string][]float64, now time.Time) []trend.KeywordGrowthRecord {
	return e.growth.DetectAll(series, now)
}
