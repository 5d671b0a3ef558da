package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"trendwatch/internal/domain/trend"
)

// RedditSource fetches top posts from food subreddits through the
// public JSON API.
type RedditSource struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string

	id         string
	country    string
	subreddits []string
	limit      int
	timeFilter string
}

// RedditPost represents a post from Reddit.
type RedditPost struct {
	Title       string  `json:"title"`
	Permalink   string  `json:"permalink"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Subreddit   string  `json:"subreddit"`
	Created     float64 `json:"created_utc"`
	Over18      bool    `json:"over_18"`
}

// redditResponse represents the structure of the Reddit API response.
type redditResponse struct {
	Data struct {
		Children []struct {
			Data RedditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// RedditOptions configures a RedditSource.
type RedditOptions struct {
	ID         string
	Country    string
	Subreddits []string
	Limit      int
	TimeFilter string
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
}

// NewRedditSource creates a Reddit source.
func NewRedditSource(opts RedditOptions) *RedditSource {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.reddit.com"
	}
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.TimeFilter == "" {
		opts.TimeFilter = "week"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	return &RedditSource{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    opts.BaseURL,
		userAgent:  opts.UserAgent,
		id:         opts.ID,
		country:    opts.Country,
		subreddits: opts.Subreddits,
		limit:      opts.Limit,
		timeFilter: opts.TimeFilter,
	}
}

// Name identifies the source.
func (s *RedditSource) Name() string {
	return s.id
}

// Fetch returns top posts from the configured subreddits as raw items.
// A failing subreddit is skipped; the others still report.
func (s *RedditSource) Fetch(ctx context.Context) ([]trend.SourceItem, error) {
	var items []trend.SourceItem

	for _, sub := range s.subreddits {
		posts, err := s.fetchSubreddit(ctx, sub)
		if err != nil {
			// One broken subreddit must not sink the whole source.
			continue
		}

		now := time.Now().UTC()
		for _, p := range posts {
			if p.Title == "" || p.Over18 {
				continue
			}

			observed := now
			if p.Created > 0 {
				observed = time.Unix(int64(p.Created), 0).UTC()
			}

			items = append(items, trend.SourceItem{
				Type:       "reddit_trending",
				Country:    s.country,
				Title:      p.Title,
				URL:        "https://reddit.com" + p.Permalink,
				Seed:       "r/" + sub,
				Metric:     float64(p.Score),
				ObservedAt: observed,
			})
		}
	}

	return items, nil
}

func (s *RedditSource) fetchSubreddit(ctx context.Context, subreddit string) ([]RedditPost, error) {
	url := fmt.Sprintf("%s/r/%s/top.json?limit=%d&t=%s", s.baseURL, subreddit, s.limit, s.timeFilter)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Reddit API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Reddit API returned status code %d", resp.StatusCode)
	}

	var redditResp redditResponse
	if err := json.NewDecoder(resp.Body).Decode(&redditResp); err != nil {
		return nil, fmt.Errorf("failed to decode Reddit API response: %w", err)
	}

	posts := make([]RedditPost, 0, len(redditResp.Data.Children))
	for _, child := range redditResp.Data.Children {
		posts = append(posts, child.Data)
	}

	return posts, nil
}
