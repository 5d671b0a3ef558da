package extract

import (
	"sort"
	"time"

	"trendwatch/internal/domain/trend"
)

// GrowthConfig tunes the keyword-growth detector.
type GrowthConfig struct {
	// RecentWindow is the number of trailing data points forming the
	// recent average. Series shorter than the window fall back to the
	// last ShortWindow points.
	RecentWindow int
	ShortWindow  int

	// MinRecentAvg drops keywords whose recent interest is below any
	// real signal. Zero keeps everything.
	MinRecentAvg float64
}

// DefaultGrowthConfig returns the stock window sizes.
func DefaultGrowthConfig() GrowthConfig {
	return GrowthConfig{
		RecentWindow: 7,
		ShortWindow:  3,
		MinRecentAvg: 0,
	}
}

// GrowthDetector computes week-over-week interest growth per monitored
// keyword. It operates on time-series data and is independent of the
// document clustering path.
type GrowthDetector struct {
	cfg GrowthConfig
}

// NewGrowthDetector creates a detector.
func NewGrowthDetector(cfg GrowthConfig) *GrowthDetector {
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = 7
	}
	if cfg.ShortWindow <= 0 {
		cfg.ShortWindow = 3
	}
	return &GrowthDetector{cfg: cfg}
}

// Detect evaluates one keyword/country series, ordered oldest to
// newest. It returns (record, true) only when recent interest outgrew
// the earlier baseline. Absence of growth is a normal outcome, not an
// error. A zero earlier average makes growth undefined; the policy
// here is to skip the keyword for the run rather than report an
// unbounded percentage.
func (d *GrowthDetector) Detect(keyword, country string, series []float64, now time.Time) (trend.KeywordGrowthRecord, bool) {
	if len(series) < 2 {
		return trend.KeywordGrowthRecord{}, false
	}

	recentAvg, earlierAvg := d.split(series)

	if earlierAvg == 0 {
		return trend.KeywordGrowthRecord{}, false
	}
	if recentAvg <= earlierAvg || recentAvg < d.cfg.MinRecentAvg {
		return trend.KeywordGrowthRecord{}, false
	}

	return trend.KeywordGrowthRecord{
		Keyword:    keyword,
		Country:    country,
		RecentAvg:  recentAvg,
		EarlierAvg: earlierAvg,
		GrowthPct:  (recentAvg - earlierAvg) / earlierAvg * 100,
		Score:      recentAvg,
		ComputedAt: now,
	}, true
}

// DetectAll runs Detect over every keyword/country series. Output is
// ordered by keyword then country so runs are reproducible.
func (d *GrowthDetector) DetectAll(series map[string]map[string][]float64, now time.Time) []trend.KeywordGrowthRecord {
	keywords := make([]string, 0, len(series))
	for k := range series {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)

	var out []trend.KeywordGrowthRecord
	for _, kw := range keywords {
		byCountry := series[kw]
		countries := make([]string, 0, len(byCountry))
		for c := range byCountry {
			countries = append(countries, c)
		}
		sort.Strings(countries)

		for _, c := range countries {
			if rec, ok := d.Detect(kw, c, byCountry[c], now); ok {
				out = append(out, rec)
			}
		}
	}

	return out
}

// split divides the series into recent and earlier windows and returns
// their arithmetic means. With fewer points than two full windows the
// earlier half is whatever precedes the recent window, mirroring how
// short interest series were handled upstream.
func (d *GrowthDetector) split(series []float64) (recentAvg, earlierAvg float64) {
	n := len(series)

	recentLen := d.cfg.RecentWindow
	if n < d.cfg.RecentWindow {
		recentLen = d.cfg.ShortWindow
		if recentLen > n {
			recentLen = n
		}
	}

	earlier := series[:n-recentLen]
	if n < 2*d.cfg.RecentWindow {
		earlier = series[:n/2]
	}

	return mean(series[n-recentLen:]), mean(earlier)
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
