package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"trendwatch/internal/domain/trend"
)

// TrendsSource fetches rising search queries for a market from the
// same trends-style endpoint InterestClient talks to, feeding the
// document pipeline with search_interest items. The growth path reads
// full series; this source only carries the current risers.
type TrendsSource struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string

	id      string
	country string
}

// TrendsOptions configures a TrendsSource.
type TrendsOptions struct {
	ID        string
	Country   string
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// risingResponse is the endpoint's payload: queries rising in the
// market right now, with their interest delta.
type risingResponse struct {
	Country string `json:"country"`
	Queries []struct {
		Query string  `json:"query"`
		Value float64 `json:"value"`
	} `json:"queries"`
}

// NewTrendsSource creates a rising-queries source.
func NewTrendsSource(opts TrendsOptions) *TrendsSource {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	return &TrendsSource{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    opts.BaseURL,
		userAgent:  opts.UserAgent,
		id:         opts.ID,
		country:    opts.Country,
	}
}

// Name identifies the source.
func (s *TrendsSource) Name() string {
	return s.id
}

// Fetch returns the market's rising queries as raw items.
func (s *TrendsSource) Fetch(ctx context.Context) ([]trend.SourceItem, error) {
	endpoint := fmt.Sprintf("%s/rising?geo=%s", s.baseURL, url.QueryEscape(s.country))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rising queries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trends API returned status code %d", resp.StatusCode)
	}

	var payload risingResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode rising queries: %w", err)
	}

	now := time.Now().UTC()
	items := make([]trend.SourceItem, 0, len(payload.Queries))
	for _, q := range payload.Queries {
		if q.Query == "" {
			continue
		}
		items = append(items, trend.SourceItem{
			Type:       "google_trends_rising",
			Country:    s.country,
			Title:      q.Query,
			Seed:       s.id,
			Metric:     q.Value,
			ObservedAt: now,
		})
	}

	return items, nil
}
