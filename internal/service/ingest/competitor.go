package ingest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"trendwatch/internal/domain/trend"
)

// CompetitorSource scrapes the headline texts of a competitor's
// new-products or editorial page. Whatever a competing retailer pushes
// this week is a retail-side trend signal.
type CompetitorSource struct {
	httpClient *http.Client
	userAgent  string

	id      string
	country string
	url     string
}

// CompetitorOptions configures a CompetitorSource.
type CompetitorOptions struct {
	ID        string
	Country   string
	URL       string
	UserAgent string
	Timeout   time.Duration
}

// NewCompetitorSource creates a competitor page source.
func NewCompetitorSource(opts CompetitorOptions) *CompetitorSource {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	return &CompetitorSource{
		httpClient: &http.Client{Timeout: opts.Timeout},
		userAgent:  opts.UserAgent,
		id:         opts.ID,
		country:    opts.Country,
		url:        opts.URL,
	}
}

// Name identifies the source.
func (s *CompetitorSource) Name() string {
	return s.id
}

// Fetch downloads the page and extracts heading texts as raw items.
func (s *CompetitorSource) Fetch(ctx context.Context) ([]trend.SourceItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch competitor page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("competitor page returned status code %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse competitor page: %w", err)
	}

	now := time.Now().UTC()
	var items []trend.SourceItem
	seen := make(map[string]bool)

	doc.Find("h1, h2, h3").Each(func(_ int, sel *goquery.Selection) {
		title := sel.Text()
		if title == "" || seen[title] {
			return
		}
		seen[title] = true

		items = append(items, trend.SourceItem{
			Type:       "competitor_page",
			Country:    s.country,
			Title:      title,
			URL:        s.url,
			Seed:       s.id,
			ObservedAt: now,
		})
	})

	return items, nil
}
