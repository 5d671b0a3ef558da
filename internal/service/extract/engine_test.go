package extract

import (
	"testing"
	"time"

	"trendwatch/internal/domain/trend"
)

func TestExtractTrendsEndToEnd(t *testing.T) {
	now := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	engine, err := NewEngine(DefaultEngineConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	items := []trend.SourceItem{
		{Type: "reddit_trending", Country: "US", Title: "Air fryer recipes", Metric: 4200, ObservedAt: now.Add(-48 * time.Hour)},
		{Type: "food_blog_post", Country: "GB", Title: "Best air fryer recipes 2026", Metric: 100, ObservedAt: now.Add(-24 * time.Hour)},
		{Type: "reddit_trending", Country: "NL", Title: "Kimchi jjigae", Metric: 900, ObservedAt: now.Add(-12 * time.Hour)},
		// Dropped along the way.
		{Type: "reddit_trending", Country: "US", Title: "New mascara drop from Catrice", Metric: 9000, ObservedAt: now},
		{Type: "tiktok_sound", Country: "US", Title: "Audio clip", ObservedAt: now},
		{Type: "reddit_trending", Country: "US", Title: "  ", ObservedAt: now},
	}

	trends, stats := engine.ExtractTrends(items, now)

	if stats.ItemsIn != 6 || stats.DroppedUnknownType != 1 || stats.DroppedEmptyTitle != 1 || stats.DroppedNotFood != 1 {
		t.Errorf("stats = %+v, want 6 in, 1 unknown, 1 empty, 1 not food", stats)
	}
	if stats.Documents != 3 || stats.Clusters != 2 {
		t.Errorf("stats = %+v, want 3 documents in 2 clusters", stats)
	}
	if len(trends) != 2 {
		t.Fatalf("expected 2 trends, got %d", len(trends))
	}

	var airFryer, kimchi *trend.ScoredTrend
	for i := range trends {
		switch trends[i].Trend {
		case "Best air fryer recipes 2026":
			airFryer = &trends[i]
		case "Kimchi jjigae":
			kimchi = &trends[i]
		}
	}
	if airFryer == nil || kimchi == nil {
		t.Fatalf("unexpected trend phrases: %q, %q", trends[0].Trend, trends[1].Trend)
	}

	if !airFryer.LeadToTarget {
		t.Error("US+GB trend should be flagged lead_to_target")
	}
	if airFryer.MemberCount != 2 {
		t.Errorf("air fryer member count = %d, want 2", airFryer.MemberCount)
	}
	if kimchi.LeadToTarget {
		t.Error("NL-only trend should not be flagged lead_to_target")
	}
	if airFryer.Score != airFryer.Factors.Sum() {
		t.Error("composite score must equal the factor sum")
	}
}

func TestExtractTrendsEmptyInput(t *testing.T) {
	engine, err := NewEngine(DefaultEngineConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	trends, stats := engine.ExtractTrends(nil, time.Now())
	if len(trends) != 0 {
		t.Errorf("expected no trends, got %d", len(trends))
	}
	if stats.ItemsIn != 0 || stats.Clusters != 0 {
		t.Errorf("stats = %+v, want zeroes", stats)
	}
}

func TestExtractTrendsDeterministic(t *testing.T) {
	now := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	engine, err := NewEngine(DefaultEngineConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	items := []trend.SourceItem{
		{Type: "reddit_trending", Country: "US", Title: "Air fryer recipes", Metric: 4200, ObservedAt: now.Add(-48 * time.Hour)},
		{Type: "food_blog_post", Country: "GB", Title: "Best air fryer recipes 2026", Metric: 100, ObservedAt: now.Add(-24 * time.Hour)},
		{Type: "reddit_trending", Country: "NL", Title: "Kimchi jjigae", Metric: 900, ObservedAt: now.Add(-12 * time.Hour)},
	}

	first, _ := engine.ExtractTrends(items, now)
	second, _ := engine.ExtractTrends(items, now)

	if len(first) != len(second) {
		t.Fatalf("trend counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Trend != second[i].Trend || first[i].Score != second[i].Score {
			t.Errorf("run output differs at %d: %q %v vs %q %v",
				i, first[i].Trend, first[i].Score, second[i].Trend, second[i].Score)
		}
	}
}

func TestEngineRejectsEmptyLexicons(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.Lexicons.Allow = nil

	if _, err := NewEngine(cfg); err == nil {
		t.Fatal("expected error for empty allow lexicon")
	}
}
