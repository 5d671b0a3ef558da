package extract

import (
	"reflect"
	"testing"
	"time"

	"trendwatch/internal/domain/trend"
)

func clusterInput() []trend.RawDocument {
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	return []trend.RawDocument{
		{SourceType: trend.SourceSocialPost, Country: "US", Title: "Air fryer recipes", ObservedAt: base},
		{SourceType: trend.SourceBlog, Country: "GB", Title: "Best air fryer recipes 2026", ObservedAt: base.Add(24 * time.Hour)},
		{SourceType: trend.SourceSocialPost, Country: "NL", Title: "Kimchi jjigae", ObservedAt: base.Add(2 * time.Hour)},
	}
}

func TestClusterGroupsNearDuplicates(t *testing.T) {
	c := NewClusterer(DefaultSimilarityThreshold, []string{"best"})
	clusters := c.Cluster(clusterInput())

	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}

	airFryer := clusters[0]
	if len(airFryer.Members) != 2 {
		t.Fatalf("air fryer cluster has %d members, want 2", len(airFryer.Members))
	}
	// Longest member phrase becomes canonical.
	if airFryer.Canonical != "Best air fryer recipes 2026" {
		t.Errorf("canonical = %q, want longest phrase", airFryer.Canonical)
	}
	if got := airFryer.Countries(); !reflect.DeepEqual(got, []string{"US", "GB"}) {
		t.Errorf("countries = %v, want [US GB] in first-contribution order", got)
	}

	kimchi := clusters[1]
	if kimchi.Canonical != "Kimchi jjigae" {
		t.Errorf("second cluster canonical = %q", kimchi.Canonical)
	}
	if len(kimchi.Members) != 1 {
		t.Errorf("kimchi cluster has %d members, want 1", len(kimchi.Members))
	}
}

func TestClusterEveryDocumentAssignedOnce(t *testing.T) {
	docs := clusterInput()
	clusters := NewClusterer(DefaultSimilarityThreshold, nil).Cluster(docs)

	total := 0
	for _, c := range clusters {
		total += len(c.Members)
	}
	if total != len(docs) {
		t.Errorf("members across clusters = %d, want %d", total, len(docs))
	}
}

func TestClusterDeterministic(t *testing.T) {
	docs := clusterInput()
	c := NewClusterer(DefaultSimilarityThreshold, []string{"best"})

	first := c.Cluster(docs)
	second := c.Cluster(docs)

	if len(first) != len(second) {
		t.Fatalf("cluster counts differ across runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Canonical != second[i].Canonical {
			t.Errorf("cluster %d canonical differs: %q vs %q", i, first[i].Canonical, second[i].Canonical)
		}
		if !reflect.DeepEqual(first[i].Members, second[i].Members) {
			t.Errorf("cluster %d membership differs across runs", i)
		}
	}
}

func TestClusterCanonicalTieKeepsFirstSeen(t *testing.T) {
	docs := []trend.RawDocument{
		{Country: "US", Title: "Miso butter pasta", ObservedAt: time.Now()},
		{Country: "GB", Title: "Pasta miso butter", ObservedAt: time.Now()},
	}

	clusters := NewClusterer(DefaultSimilarityThreshold, nil).Cluster(docs)
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	// Same length: only a strictly longer phrase replaces the canonical.
	if clusters[0].Canonical != "Miso butter pasta" {
		t.Errorf("canonical = %q, want first-seen phrase on length tie", clusters[0].Canonical)
	}
}

func TestMatchKeyStopWordFallback(t *testing.T) {
	c := NewClusterer(DefaultSimilarityThreshold, []string{"best", "easy"})

	if got := c.matchKey("Best Easy Kimchi"); got != "kimchi" {
		t.Errorf("matchKey = %q, want stop words stripped", got)
	}
	// A phrase made entirely of stop words keeps its unstripped form.
	if got := c.matchKey("Best Easy"); got != "best easy" {
		t.Errorf("matchKey = %q, want unstripped fallback", got)
	}
	if got := c.matchKey("   "); got != "" {
		t.Errorf("matchKey = %q, want empty", got)
	}
}
