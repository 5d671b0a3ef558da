package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// InterestClient fetches keyword interest time series from a
// trends-style HTTP JSON endpoint. It implements trend.InterestProvider
// for deployments that proxy an external interest API; others read
// stored points through the growth store instead.
type InterestClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewInterestClient creates an interest API client.
func NewInterestClient(baseURL, userAgent string, timeout time.Duration) *InterestClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &InterestClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		userAgent:  userAgent,
	}
}

// interestResponse is the endpoint's payload: daily index values,
// oldest first.
type interestResponse struct {
	Keyword string    `json:"keyword"`
	Country string    `json:"country"`
	Values  []float64 `json:"values"`
}

// Series fetches the interest series for every monitored
// keyword/country pair. A pair that fails to fetch is omitted rather
// than failing the run.
func (c *InterestClient) Series(ctx context.Context, keywords map[string][]string) (map[string]map[string][]float64, error) {
	out := make(map[string]map[string][]float64)

	for country, kws := range keywords {
		for _, kw := range kws {
			series, err := c.fetchSeries(ctx, kw, country)
			if err != nil || len(series) == 0 {
				continue
			}
			if out[kw] == nil {
				out[kw] = make(map[string][]float64)
			}
			out[kw][country] = series
		}
	}

	return out, nil
}

func (c *InterestClient) fetchSeries(ctx context.Context, keyword, country string) ([]float64, error) {
	endpoint := fmt.Sprintf("%s/interest?keyword=%s&geo=%s",
		c.baseURL, url.QueryEscape(keyword), url.QueryEscape(country))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interest series: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("interest API returned status code %d", resp.StatusCode)
	}

	var payload interestResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode interest response: %w", err)
	}

	return payload.Values, nil
}
