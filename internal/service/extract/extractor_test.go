package extract

import (
	"context"
	"testing"
	"time"

	"trendwatch/internal/domain/trend"
)

type memCollector struct {
	items []trend.SourceItem
}

func (c *memCollector) Collect(ctx context.Context) []trend.SourceItem {
	return c.items
}

type memStores struct {
	items   []trend.SourceItem
	trends  map[string]trend.ScoredTrend
	records []trend.KeywordGrowthRecord
}

func newMemStores() *memStores {
	return &memStores{trends: make(map[string]trend.ScoredTrend)}
}

func (m *memStores) SaveItems(ctx context.Context, items []trend.SourceItem) error {
	m.items = append(m.items, items...)
	return nil
}

func (m *memStores) LoadWindow(ctx context.Context, cutoff time.Time) ([]trend.SourceItem, error) {
	var out []trend.SourceItem
	for _, it := range m.items {
		if !it.ObservedAt.Before(cutoff) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memStores) SaveTrend(ctx context.Context, t trend.ScoredTrend) error {
	m.trends[t.Trend] = t
	return nil
}

func (m *memStores) GetTrend(ctx context.Context, id string) (*trend.ScoredTrend, error) {
	for _, t := range m.trends {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, trend.ErrNotFound
}

func (m *memStores) FindTrends(ctx context.Context, filter trend.Filter) ([]trend.ScoredTrend, error) {
	var out []trend.ScoredTrend
	for _, t := range m.trends {
		out = append(out, t)
	}
	return out, nil
}

func (m *memStores) SaveRecords(ctx context.Context, records []trend.KeywordGrowthRecord) error {
	m.records = append(m.records, records...)
	return nil
}

func (m *memStores) ListGrowth(ctx context.Context, limit int) ([]trend.KeywordGrowthRecord, error) {
	return m.records, nil
}

type memInterest struct {
	series map[string]map[string][]float64
}

func (p *memInterest) Series(ctx context.Context, keywords map[string][]string) (map[string]map[string][]float64, error) {
	return p.series, nil
}

func TestRunOncePersistsAndNotifies(t *testing.T) {
	now := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	engine, err := NewEngine(DefaultEngineConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	stores := newMemStores()
	collector := &memCollector{items: []trend.SourceItem{
		{Type: "reddit_trending", Country: "US", Title: "Air fryer recipes", URL: "https://r/1", Metric: 4200, ObservedAt: now.Add(-48 * time.Hour)},
		{Type: "food_blog_post", Country: "GB", Title: "Best air fryer recipes 2026", URL: "https://b/1", Metric: 100, ObservedAt: now.Add(-24 * time.Hour)},
		{Type: "reddit_trending", Country: "NL", Title: "Kimchi jjigae", URL: "https://r/2", Metric: 900, ObservedAt: now.Add(-12 * time.Hour)},
	}}
	interest := &memInterest{series: map[string]map[string][]float64{
		"ramen": {"NL": {42, 42, 42, 42, 42, 42, 42, 74, 74, 74, 74, 74, 74, 74}},
	}}

	extractor, err := NewExtractor(engine, collector, stores, stores, stores, interest, nil, ExtractorConfig{
		DocumentWindow: 30 * 24 * time.Hour,
		Keywords:       map[string][]string{"NL": {"ramen"}},
	})
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	extractor.clock = func() time.Time { return now }

	var handled []trend.ScoredTrend
	extractor.RegisterTrendHandler(func(st trend.ScoredTrend) error {
		handled = append(handled, st)
		return nil
	})

	if err := extractor.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if len(stores.items) != 3 {
		t.Errorf("persisted documents = %d, want 3", len(stores.items))
	}
	if len(stores.trends) != 2 {
		t.Errorf("persisted trends = %d, want 2", len(stores.trends))
	}
	for _, st := range stores.trends {
		if st.ID == "" {
			t.Errorf("trend %q saved without an ID", st.Trend)
		}
	}
	if len(handled) != 2 {
		t.Errorf("handler invocations = %d, want one per trend", len(handled))
	}

	if len(stores.records) != 1 {
		t.Fatalf("growth records = %d, want 1", len(stores.records))
	}
	if stores.records[0].Keyword != "ramen" || stores.records[0].Country != "NL" {
		t.Errorf("growth record = %s/%s, want ramen/NL", stores.records[0].Keyword, stores.records[0].Country)
	}
}

func TestRunOnceExtractsOverDocumentWindow(t *testing.T) {
	now := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	engine, err := NewEngine(DefaultEngineConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	stores := newMemStores()
	// A document from an earlier run, still inside the window.
	stores.items = []trend.SourceItem{
		{Type: "reddit_trending", Country: "US", Title: "Air fryer recipes", URL: "https://r/old", Metric: 100, ObservedAt: now.Add(-10 * 24 * time.Hour)},
	}

	collector := &memCollector{items: []trend.SourceItem{
		{Type: "food_blog_post", Country: "GB", Title: "Best air fryer recipes 2026", URL: "https://b/new", Metric: 50, ObservedAt: now.Add(-time.Hour)},
	}}

	extractor, err := NewExtractor(engine, collector, stores, stores, stores, nil, nil, ExtractorConfig{
		DocumentWindow: 30 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	extractor.clock = func() time.Time { return now }

	if err := extractor.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	st, ok := stores.trends["Best air fryer recipes 2026"]
	if !ok {
		t.Fatalf("expected the merged trend, got %v", stores.trends)
	}
	// Old and new documents clustered together across runs.
	if st.MemberCount != 2 {
		t.Errorf("member count = %d, want 2 across runs", st.MemberCount)
	}
	if !st.LeadToTarget {
		t.Error("US+GB trend should be flagged lead_to_target")
	}
}

func TestRunOncePublishedIDResolvesAfterRedetection(t *testing.T) {
	now := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	engine, err := NewEngine(DefaultEngineConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	stores := newMemStores()
	collector := &memCollector{items: []trend.SourceItem{
		{Type: "reddit_trending", Country: "US", Title: "Air fryer recipes", URL: "https://r/1", Metric: 100, ObservedAt: now.Add(-24 * time.Hour)},
	}}

	extractor, err := NewExtractor(engine, collector, stores, stores, stores, nil, nil, ExtractorConfig{
		DocumentWindow: 30 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	extractor.clock = func() time.Time { return now }

	var published []string
	extractor.RegisterTrendHandler(func(st trend.ScoredTrend) error {
		published = append(published, st.ID)
		return nil
	})

	// Two runs re-detect the same trend under fresh per-detection IDs.
	if err := extractor.RunOnce(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := extractor.RunOnce(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(published) != 2 || published[0] == published[1] {
		t.Fatalf("published ids = %v, want two distinct per-detection ids", published)
	}
	if len(stores.trends) != 1 {
		t.Fatalf("stored trends = %d, want the phrase deduplicated to 1", len(stores.trends))
	}

	// The id announced with the latest detection must resolve; the
	// superseded one must not linger.
	latest, err := stores.GetTrend(context.Background(), published[1])
	if err != nil {
		t.Fatalf("latest published id unresolvable: %v", err)
	}
	if latest.Trend != "Air fryer recipes" {
		t.Errorf("resolved trend = %q", latest.Trend)
	}
	if _, err := stores.GetTrend(context.Background(), published[0]); err != trend.ErrNotFound {
		t.Errorf("superseded id lookup err = %v, want ErrNotFound", err)
	}
}

func TestStopRespectsContext(t *testing.T) {
	engine, err := NewEngine(DefaultEngineConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	extractor, err := NewExtractor(engine, &memCollector{}, newMemStores(), newMemStores(), newMemStores(), nil, nil, ExtractorConfig{})
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}

	if err := extractor.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := extractor.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
