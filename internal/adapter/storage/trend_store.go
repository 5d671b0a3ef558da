package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trendwatch/internal/domain/trend"
)

// TrendStore implements storage for scored trends.
type TrendStore struct {
	db *pgxpool.Pool
}

// NewTrendStore creates a new trend store.
func NewTrendStore(db *pgxpool.Pool) *TrendStore {
	return &TrendStore{db: db}
}

// SaveTrend upserts a scored trend. The trend phrase is the natural
// key: re-running over overlapping documents refreshes the record
// instead of duplicating it. The id is refreshed too, so the stored
// row always resolves the id published with the latest detection.
func (s *TrendStore) SaveTrend(ctx context.Context, t trend.ScoredTrend) error {
	query := `
		INSERT INTO trends (
			id, trend, score, factors, lead_to_target,
			markets, country_order, first_seen, source_types,
			member_count, examples, detected_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (trend) DO UPDATE
		SET
			id = $1,
			score = $3,
			factors = $4,
			lead_to_target = $5,
			markets = $6,
			country_order = $7,
			first_seen = $8,
			source_types = $9,
			member_count = $10,
			examples = $11,
			detected_at = $12
	`

	factorsJSON, err := json.Marshal(t.Factors)
	if err != nil {
		return fmt.Errorf("error marshaling factors: %w", err)
	}

	firstSeenJSON, err := json.Marshal(t.FirstSeen)
	if err != nil {
		return fmt.Errorf("error marshaling first seen: %w", err)
	}

	_, err = s.db.Exec(
		ctx,
		query,
		t.ID,
		t.Trend,
		t.Score,
		factorsJSON,
		t.LeadToTarget,
		t.Markets,
		t.CountryOrder,
		firstSeenJSON,
		t.SourceTypes,
		t.MemberCount,
		t.Examples,
		t.DetectedAt,
	)

	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetTrend retrieves a trend by ID.
func (s *TrendStore) GetTrend(ctx context.Context, id string) (*trend.ScoredTrend, error) {
	query := selectColumns + ` FROM trends WHERE id = $1`

	t, err := scanTrend(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, trend.ErrNotFound
		}
		return nil, err
	}

	return t, nil
}

// FindTrends returns stored trends matching the filter, ordered by
// score descending then detection time.
func (s *TrendStore) FindTrends(ctx context.Context, filter trend.Filter) ([]trend.ScoredTrend, error) {
	var (
		conds []string
		args  []interface{}
	)

	if filter.MinScore > 0 {
		args = append(args, filter.MinScore)
		conds = append(conds, fmt.Sprintf("score >= $%d", len(args)))
	}
	if filter.Market != "" {
		args = append(args, strings.ToUpper(filter.Market))
		conds = append(conds, fmt.Sprintf("$%d = ANY(markets)", len(args)))
	}
	if filter.LeadToTarget != nil {
		args = append(args, *filter.LeadToTarget)
		conds = append(conds, fmt.Sprintf("lead_to_target = $%d", len(args)))
	}

	query := selectColumns + ` FROM trends`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY score DESC, detected_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var trends []trend.ScoredTrend
	for rows.Next() {
		t, err := scanTrend(rows)
		if err != nil {
			return nil, err
		}
		trends = append(trends, *t)
	}

	return trends, rows.Err()
}

const selectColumns = `
	SELECT
		id, trend, score, factors, lead_to_target,
		markets, country_order, first_seen, source_types,
		member_count, examples, detected_at
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrend(row rowScanner) (*trend.ScoredTrend, error) {
	var (
		t             trend.ScoredTrend
		factorsJSON   []byte
		firstSeenJSON []byte
	)

	err := row.Scan(
		&t.ID,
		&t.Trend,
		&t.Score,
		&factorsJSON,
		&t.LeadToTarget,
		&t.Markets,
		&t.CountryOrder,
		&firstSeenJSON,
		&t.SourceTypes,
		&t.MemberCount,
		&t.Examples,
		&t.DetectedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(factorsJSON, &t.Factors); err != nil {
		return nil, fmt.Errorf("error unmarshaling factors: %w", err)
	}
	if len(firstSeenJSON) > 0 {
		if err := json.Unmarshal(firstSeenJSON, &t.FirstSeen); err != nil {
			return nil, fmt.Errorf("error unmarshaling first seen: %w", err)
		}
	}

	return &t, nil
}
