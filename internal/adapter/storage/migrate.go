package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Migrate creates the database schema.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	schema := `
	CREATE TABLE IF NOT EXISTS trends (
		id UUID PRIMARY KEY,
		trend TEXT NOT NULL UNIQUE,
		score DOUBLE PRECISION NOT NULL,
		factors JSONB NOT NULL,
		lead_to_target BOOLEAN NOT NULL,
		markets TEXT[] NOT NULL DEFAULT '{}',
		country_order TEXT[] NOT NULL DEFAULT '{}',
		first_seen JSONB,
		source_types TEXT[] NOT NULL DEFAULT '{}',
		member_count INTEGER NOT NULL,
		examples TEXT[] NOT NULL DEFAULT '{}',
		detected_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trends_score ON trends (score DESC, detected_at DESC);

	CREATE TABLE IF NOT EXISTS documents (
		id BIGSERIAL PRIMARY KEY,
		type TEXT NOT NULL,
		country TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		seed TEXT NOT NULL DEFAULT '',
		metric DOUBLE PRECISION NOT NULL DEFAULT 0,
		observed_at TIMESTAMPTZ NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_url ON documents (url) WHERE url <> '';
	CREATE INDEX IF NOT EXISTS idx_documents_observed_at ON documents (observed_at);

	CREATE TABLE IF NOT EXISTS keyword_growth (
		keyword TEXT NOT NULL,
		country TEXT NOT NULL,
		recent_avg DOUBLE PRECISION NOT NULL,
		earlier_avg DOUBLE PRECISION NOT NULL,
		growth_pct DOUBLE PRECISION NOT NULL,
		score DOUBLE PRECISION NOT NULL,
		computed_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (keyword, country)
	);

	CREATE TABLE IF NOT EXISTS interest_points (
		keyword TEXT NOT NULL,
		country TEXT NOT NULL,
		value DOUBLE PRECISION NOT NULL,
		observed_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (keyword, country, observed_at)
	);
	`

	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("error applying schema: %w", err)
	}

	return nil
}
