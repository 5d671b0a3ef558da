package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trendwatch/internal/domain/trend"
)

// DocumentStore persists the raw source items collected per run so
// extraction can operate over a rolling document window instead of a
// single fetch.
type DocumentStore struct {
	db *pgxpool.Pool
}

// NewDocumentStore creates a new document store.
func NewDocumentStore(db *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{db: db}
}

// SaveItems appends collected items in one batch. Duplicate URLs
// within the window are skipped, which is the only identity-based
// dedup the pipeline does.
func (s *DocumentStore) SaveItems(ctx context.Context, items []trend.SourceItem) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(`
			INSERT INTO documents (type, country, title, url, seed, metric, observed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (url) WHERE url <> '' DO NOTHING
		`, item.Type, item.Country, item.Title, item.URL, item.Seed, item.Metric, item.ObservedAt)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("error inserting document: %w", err)
		}
	}

	return nil
}

// LoadWindow returns all items observed after the cutoff, in insertion
// order so clustering stays deterministic across runs.
func (s *DocumentStore) LoadWindow(ctx context.Context, cutoff time.Time) ([]trend.SourceItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT type, country, title, url, seed, metric, observed_at
		FROM documents
		WHERE observed_at >= $1
		ORDER BY id
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var items []trend.SourceItem
	for rows.Next() {
		var item trend.SourceItem
		if err := rows.Scan(&item.Type, &item.Country, &item.Title, &item.URL, &item.Seed, &item.Metric, &item.ObservedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
