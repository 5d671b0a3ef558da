package ingest

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"

	"trendwatch/internal/domain/trend"
)

// BlogSource fetches recent article titles from food blog RSS feeds.
type BlogSource struct {
	parser *gofeed.Parser

	id      string
	country string
	feeds   []Feed
	maxAge  time.Duration
}

// Feed is one named RSS feed.
type Feed struct {
	Name string
	URL  string
}

// BlogOptions configures a BlogSource.
type BlogOptions struct {
	ID        string
	Country   string
	Feeds     []Feed
	MaxAge    time.Duration
	UserAgent string
}

// blogDefaultMetric stands in for engagement on feeds that expose none.
const blogDefaultMetric = 100

// NewBlogSource creates an RSS blog source.
func NewBlogSource(opts BlogOptions) *BlogSource {
	parser := gofeed.NewParser()
	if opts.UserAgent != "" {
		parser.UserAgent = opts.UserAgent
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 30 * 24 * time.Hour
	}

	return &BlogSource{
		parser:  parser,
		id:      opts.ID,
		country: opts.Country,
		feeds:   opts.Feeds,
		maxAge:  opts.MaxAge,
	}
}

// Name identifies the source.
func (s *BlogSource) Name() string {
	return s.id
}

// Fetch parses every configured feed and returns recent entries as raw
// items. A feed that fails to parse is skipped.
func (s *BlogSource) Fetch(ctx context.Context) ([]trend.SourceItem, error) {
	var items []trend.SourceItem
	cutoff := time.Now().Add(-s.maxAge)

	for _, feed := range s.feeds {
		parsed, err := s.parser.ParseURLWithContext(feed.URL, ctx)
		if err != nil {
			continue
		}

		for _, entry := range parsed.Items {
			published := entry.PublishedParsed
			if published == nil {
				published = entry.UpdatedParsed
			}
			if published != nil && published.Before(cutoff) {
				continue
			}
			if entry.Title == "" {
				continue
			}

			observed := time.Now().UTC()
			if published != nil {
				observed = published.UTC()
			}

			items = append(items, trend.SourceItem{
				Type:       "food_blog_post",
				Country:    s.country,
				Title:      entry.Title,
				URL:        entry.Link,
				Seed:       feed.Name,
				Metric:     blogDefaultMetric,
				ObservedAt: observed,
			})
		}
	}

	return items, nil
}
