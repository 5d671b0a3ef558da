package ingest

import (
	"context"
	"log"
	"sync"

	"trendwatch/internal/domain/trend"
)

// Collector fans fetches out across the configured sources and gathers
// the results. Per-source failures are logged and skipped; the engine
// only ever sees a finished in-memory sequence of items.
type Collector struct {
	sources []trend.Source
	mu      sync.Mutex
}

// NewCollector creates a collector over the given sources.
func NewCollector(sources []trend.Source) *Collector {
	return &Collector{sources: sources}
}

// AddSource registers another source.
func (c *Collector) AddSource(s trend.Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources = append(c.sources, s)
}

// Collect fetches all sources concurrently. Results keep source
// registration order so downstream clustering stays deterministic no
// matter which fetch finished first.
func (c *Collector) Collect(ctx context.Context) []trend.SourceItem {
	c.mu.Lock()
	sources := make([]trend.Source, len(c.sources))
	copy(sources, c.sources)
	c.mu.Unlock()

	results := make([][]trend.SourceItem, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src trend.Source) {
			defer wg.Done()
			items, err := src.Fetch(ctx)
			if err != nil {
				log.Printf("[ingest] source %s failed: %v", src.Name(), err)
				return
			}
			log.Printf("[ingest] source %s: %d items", src.Name(), len(items))
			results[i] = items
		}(i, src)
	}
	wg.Wait()

	var items []trend.SourceItem
	for _, r := range results {
		items = append(items, r...)
	}

	return items
}
