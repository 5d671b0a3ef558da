package ingest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	twitter "github.com/g8rswimmer/go-twitter/v2"

	"trendwatch/internal/domain/trend"
)

// TwitterSource searches recent tweets for a food query and turns them
// into social items, likes standing in for the metric.
type TwitterSource struct {
	client *twitter.Client

	id      string
	country string
	query   string
	limit   int
}

type bearerAuthorizer struct {
	token string
}

func (a bearerAuthorizer) Add(req *http.Request) {
	req.Header.Add("Authorization", "Bearer "+a.token)
}

// TwitterOptions configures a TwitterSource.
type TwitterOptions struct {
	ID          string
	Country     string
	Query       string
	Limit       int
	BearerToken string
	Timeout     time.Duration
}

// NewTwitterSource creates a Twitter search source. The bearer token
// is required; sources without one should not be constructed.
func NewTwitterSource(opts TwitterOptions) (*TwitterSource, error) {
	if opts.BearerToken == "" {
		return nil, fmt.Errorf("twitter source %s: bearer token not configured", opts.ID)
	}
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 50
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	return &TwitterSource{
		client: &twitter.Client{
			Authorizer: bearerAuthorizer{token: opts.BearerToken},
			Client:     &http.Client{Timeout: opts.Timeout},
			Host:       "https://api.twitter.com",
		},
		id:      opts.ID,
		country: opts.Country,
		query:   opts.Query,
		limit:   opts.Limit,
	}, nil
}

// Name identifies the source.
func (s *TwitterSource) Name() string {
	return s.id
}

// Fetch runs the recent search and maps tweets to raw items.
func (s *TwitterSource) Fetch(ctx context.Context) ([]trend.SourceItem, error) {
	resp, err := s.client.TweetRecentSearch(ctx, s.query, twitter.TweetRecentSearchOpts{
		MaxResults:  s.limit,
		TweetFields: []twitter.TweetField{twitter.TweetFieldCreatedAt, twitter.TweetFieldPublicMetrics},
	})
	if err != nil {
		return nil, fmt.Errorf("twitter recent search: %w", err)
	}

	now := time.Now().UTC()
	var items []trend.SourceItem

	for _, tweet := range resp.Raw.Tweets {
		if tweet == nil || tweet.Text == "" {
			continue
		}

		observed := now
		if tweet.CreatedAt != "" {
			if ts, err := time.Parse(time.RFC3339, tweet.CreatedAt); err == nil {
				observed = ts.UTC()
			}
		}

		var likes float64
		if tweet.PublicMetrics != nil {
			likes = float64(tweet.PublicMetrics.Likes)
		}

		items = append(items, trend.SourceItem{
			Type:       "twitter_trending",
			Country:    s.country,
			Title:      tweet.Text,
			URL:        "https://twitter.com/i/web/status/" + tweet.ID,
			Seed:       s.id,
			Metric:     likes,
			ObservedAt: observed,
		})
	}

	return items, nil
}
