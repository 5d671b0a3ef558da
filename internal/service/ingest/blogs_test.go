package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func rssBody(recent, old time.Time) string {
	const format = time.RFC1123Z
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Food Blog</title>
    <item>
      <title>Miso butter pasta recipe</title>
      <link>https://blog.test/miso</link>
      <pubDate>%s</pubDate>
    </item>
    <item>
      <title>Old lasagna recipe</title>
      <link>https://blog.test/lasagna</link>
      <pubDate>%s</pubDate>
    </item>
    <item>
      <title></title>
      <link>https://blog.test/untitled</link>
      <pubDate>%s</pubDate>
    </item>
  </channel>
</rss>`, recent.Format(format), old.Format(format), recent.Format(format))
}

func TestBlogSourceFetch(t *testing.T) {
	now := time.Now().UTC()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssBody(now.Add(-48*time.Hour), now.Add(-90*24*time.Hour))))
	}))
	defer srv.Close()

	src := NewBlogSource(BlogOptions{
		ID:      "blogs-us",
		Country: "US",
		Feeds:   []Feed{{Name: "Test Food Blog", URL: srv.URL}},
		MaxAge:  30 * 24 * time.Hour,
	})

	items, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	// The stale and the untitled entries are dropped.
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	item := items[0]
	if item.Type != "food_blog_post" || item.Title != "Miso butter pasta recipe" {
		t.Errorf("item = %+v", item)
	}
	if item.Seed != "Test Food Blog" {
		t.Errorf("seed = %q", item.Seed)
	}
	if item.Metric != blogDefaultMetric {
		t.Errorf("metric = %v, want the stand-in %d", item.Metric, blogDefaultMetric)
	}
}

func TestBlogSourceSkipsBrokenFeed(t *testing.T) {
	now := time.Now().UTC()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssBody(now.Add(-time.Hour), now.Add(-time.Hour))))
	}))
	defer srv.Close()

	src := NewBlogSource(BlogOptions{
		ID:      "blogs-us",
		Country: "US",
		Feeds: []Feed{
			{Name: "Broken", URL: "http://127.0.0.1:1/feed"},
			{Name: "Healthy", URL: srv.URL},
		},
	})

	items, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) == 0 {
		t.Error("healthy feed should still produce items when another feed is down")
	}
}
