package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"trendwatch/internal/domain/trend"
)

// GrowthStore persists keyword growth records and the raw interest
// points they are computed from.
type GrowthStore struct {
	db *pgxpool.Pool
}

// NewGrowthStore creates a new growth store.
func NewGrowthStore(db *pgxpool.Pool) *GrowthStore {
	return &GrowthStore{db: db}
}

// SaveRecords upserts the run's growth records, keyed by
// keyword/country.
func (s *GrowthStore) SaveRecords(ctx context.Context, records []trend.KeywordGrowthRecord) error {
	for _, r := range records {
		_, err := s.db.Exec(ctx, `
			INSERT INTO keyword_growth (keyword, country, recent_avg, earlier_avg, growth_pct, score, computed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (keyword, country) DO UPDATE
			SET recent_avg = $3, earlier_avg = $4, growth_pct = $5, score = $6, computed_at = $7
		`, r.Keyword, r.Country, r.RecentAvg, r.EarlierAvg, r.GrowthPct, r.Score, r.ComputedAt)
		if err != nil {
			return fmt.Errorf("error saving growth record %s/%s: %w", r.Keyword, r.Country, err)
		}
	}

	return nil
}

// ListGrowth returns the stored growth records, strongest growth first.
func (s *GrowthStore) ListGrowth(ctx context.Context, limit int) ([]trend.KeywordGrowthRecord, error) {
	query := `
		SELECT keyword, country, recent_avg, earlier_avg, growth_pct, score, computed_at
		FROM keyword_growth
		ORDER BY growth_pct DESC, keyword, country
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var records []trend.KeywordGrowthRecord
	for rows.Next() {
		var r trend.KeywordGrowthRecord
		if err := rows.Scan(&r.Keyword, &r.Country, &r.RecentAvg, &r.EarlierAvg, &r.GrowthPct, &r.Score, &r.ComputedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// Series loads stored interest points for the monitored keywords,
// ordered oldest to newest, shaped for the growth detector. It backs
// the InterestProvider port when no external interest API is
// configured.
func (s *GrowthStore) Series(ctx context.Context, keywords map[string][]string) (map[string]map[string][]float64, error) {
	out := make(map[string]map[string][]float64)

	for country, kws := range keywords {
		for _, kw := range kws {
			rows, err := s.db.Query(ctx, `
				SELECT value
				FROM interest_points
				WHERE keyword = $1 AND country = $2
				ORDER BY observed_at
			`, kw, country)
			if err != nil {
				return nil, fmt.Errorf("error loading interest series %s/%s: %w", kw, country, err)
			}

			var series []float64
			for rows.Next() {
				var v float64
				if err := rows.Scan(&v); err != nil {
					rows.Close()
					return nil, err
				}
				series = append(series, v)
			}
			if err := rows.Err(); err != nil {
				rows.Close()
				return nil, err
			}
			rows.Close()

			if len(series) == 0 {
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
