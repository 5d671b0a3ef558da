package ingest

import (
	"testing"

	"trendwatch/internal/config"
)

func TestBuildSources(t *testing.T) {
	defs := []config.SourceDef{
		{ID: "reddit-us", Type: "reddit", Enabled: true, Country: "US", Subreddits: []string{"food"}},
		{ID: "blogs-us", Type: "food_blog", Enabled: true, Country: "US", Feeds: []config.FeedDef{{Name: "A", URL: "https://a.test/rss"}}},
		{ID: "off", Type: "reddit", Enabled: false, Country: "GB"},
		{ID: "mystery", Type: "tiktok", Enabled: true, Country: "US"},
		// No bearer token configured: constructor refuses, source skipped.
		{ID: "twitter-us", Type: "twitter", Enabled: true, Country: "US", Query: "food"},
		// No interest API configured: same treatment.
		{ID: "trends-nl", Type: "search_interest", Enabled: true, Country: "NL"},
	}

	sources := BuildSources(defs, config.IngestConfig{UserAgent: "trendwatch-test"})

	if len(sources) != 2 {
		t.Fatalf("expected 2 buildable sources, got %d", len(sources))
	}
	if sources[0].Name() != "reddit-us" || sources[1].Name() != "blogs-us" {
		t.Errorf("sources = %s, %s", sources[0].Name(), sources[1].Name())
	}
}
