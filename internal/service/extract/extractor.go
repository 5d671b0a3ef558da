package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/robfig/cron/v3"

	"trendwatch/internal/domain/trend"
)

// Collector hands the extractor a finished in-memory batch of raw
// items; whatever concurrency the ingestion layer uses is invisible
// here.
type Collector interface {
	Collect(ctx context.Context) []trend.SourceItem
}

// TrendStore defines storage for scored trends.
type TrendStore interface {
	SaveTrend(ctx context.Context, t trend.ScoredTrend) error
	GetTrend(ctx context.Context, id string) (*trend.ScoredTrend, error)
	FindTrends(ctx context.Context, filter trend.Filter) ([]trend.ScoredTrend, error)
}

// DocumentStore defines storage for the rolling raw-document window.
type DocumentStore interface {
	SaveItems(ctx context.Context, items []trend.SourceItem) error
	LoadWindow(ctx context.Context, cutoff time.Time) ([]trend.SourceItem, error)
}

// GrowthStore defines storage for keyword growth records.
type GrowthStore interface {
	SaveRecords(ctx context.Context, records []trend.KeywordGrowthRecord) error
	ListGrowth(ctx context.Context, limit int) ([]trend.KeywordGrowthRecord, error)
}

// ExtractorConfig configures the run orchestrator.
type ExtractorConfig struct {
	// DocumentWindow is how far back a run reaches for documents.
	DocumentWindow time.Duration

	// RunSpec is the cron expression for scheduled runs; empty
	// disables scheduling, leaving RunOnce callers in charge.
	RunSpec string

	// Timezone anchors the cron schedule.
	Timezone string

	// EventsTopic prefixes the NATS subjects runs publish on.
	EventsTopic string

	// Keywords maps country codes to monitored keywords for the
	// growth path.
	Keywords map[string][]string
}

// Extractor orchestrates collect-extract-persist runs and answers
// queries from storage. It implements trend.Extractor.
type Extractor struct {
	engine    *Engine
	collector Collector
	trends    TrendStore
	documents DocumentStore
	growth    GrowthStore
	interest  trend.InterestProvider
	eventBus  *nats.Conn
	config    ExtractorConfig
	clock     trend.Clock

	cron     *cron.Cron
	handlers []func(trend.ScoredTrend) error
	mu       sync.RWMutex
	runMu    sync.Mutex
}

// NewExtractor creates the run orchestrator. eventBus and interest may
// be nil; the corresponding steps are skipped.
func NewExtractor(
	engine *Engine,
	collector Collector,
	trends TrendStore,
	documents DocumentStore,
	growth GrowthStore,
	interest trend.InterestProvider,
	eventBus *nats.Conn,
	config ExtractorConfig,
) (*Extractor, error) {
	if config.DocumentWindow <= 0 {
		config.DocumentWindow = 30 * 24 * time.Hour
	}
	if config.EventsTopic == "" {
		config.EventsTopic = "trend"
	}

	loc := time.UTC
	if config.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(config.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %s: %w", config.Timezone, err)
		}
	}

	return &Extractor{
		engine:    engine,
		collector: collector,
		trends:    trends,
		documents: documents,
		growth:    growth,
		interest:  interest,
		eventBus:  eventBus,
		config:    config,
		clock:     time.Now,
		cron:      cron.New(cron.WithLocation(loc)),
	}, nil
}

// Start registers the scheduled run and begins the cron loop.
func (e *Extractor) Start(ctx context.Context) error {
	if e.config.RunSpec != "" {
		_, err := e.cron.AddFunc(e.config.RunSpec, func() {
			runCtx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()

			start := time.Now()
			if err := e.RunOnce(runCtx); err != nil {
				log.Printf("[extract] scheduled run failed: %v", err)
				return
			}
			log.Printf("[extract] scheduled run completed in %v", time.Since(start))
		})
		if err != nil {
			return fmt.Errorf("failed to schedule run: %w", err)
		}
	}

	e.cron.Start()
	return nil
}

// Stop halts the schedule and waits for an in-flight run to finish,
// bounded by ctx.
func (e *Extractor) Stop(ctx context.Context) error {
	done := e.cron.Stop().Done()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce performs a single collect-extract-persist run. Runs are
// serialized: a trigger arriving mid-run waits its turn.
func (e *Extractor) RunOnce(ctx context.Context) error {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	now := e.clock().UTC()

	// Collect and persist the new batch, then extract over the whole
	// document window so slow-building trends are not lost between
	// runs.
	fresh := e.collector.Collect(ctx)
	if err := e.documents.SaveItems(ctx, fresh); err != nil {
		return fmt.Errorf("saving collected documents: %w", err)
	}

	items, err := e.documents.LoadWindow(ctx, now.Add(-e.config.DocumentWindow))
	if err != nil {
		return fmt.Errorf("loading document window: %w", err)
	}

	trends, stats := e.engine.ExtractTrends(items, now)
	log.Printf("[extract] run: items=%d docs=%d clusters=%d dropped(unknown=%d empty=%d notfood=%d)",
		stats.ItemsIn, stats.Documents, stats.Clusters,
		stats.DroppedUnknownType, stats.DroppedEmptyTitle, stats.DroppedNotFood)

	for i := range trends {
		trends[i].ID = uuid.New().String()

		if err := e.trends.SaveTrend(ctx, trends[i]); err != nil {
			log.Printf("[extract] error saving trend %q: %v", trends[i].Trend, err)
			continue
		}

		if err := e.publishTrendEvent(trends[i]); err != nil {
			log.Printf("[extract] error publishing trend event: %v", err)
		}

		e.callTrendHandlers(trends[i])
	}

	if err := e.runGrowth(ctx, now); err != nil {
		log.Printf("[extract] growth detection failed: %v", err)
	}

	return nil
}

// runGrowth executes the independent keyword-growth path.
func (e *Extractor) runGrowth(ctx context.Context, now time.Time) error {
	if e.interest == nil || len(e.config.Keywords) == 0 {
		return nil
	}

	series, err := e.interest.Series(ctx, e.config.Keywords)
	if err != nil {
		return fmt.Errorf("loading interest series: %w", err)
	}

	records := e.engine.DetectGrowth(series, now)
	log.Printf("[extract] growth: %d keywords trending", len(records))

	if err := e.growth.SaveRecords(ctx, records); err != nil {
		return fmt.Errorf("saving growth records: %w", err)
	}

	return nil
}

// GetTrends returns stored trends filtered by the provided criteria.
func (e *Extractor) GetTrends(ctx context.Context, filter trend.Filter) ([]trend.ScoredTrend, error) {
	return e.trends.FindTrends(ctx, filter)
}

// GetTrendByID returns a specific trend by ID.
func (e *Extractor) GetTrendByID(ctx context.Context, id string) (*trend.ScoredTrend, error) {
	return e.trends.GetTrend(ctx, id)
}

// GetGrowth returns keyword growth records from the latest runs.
func (e *Extractor) GetGrowth(ctx context.Context, limit int) ([]trend.KeywordGrowthRecord, error) {
	return e.growth.ListGrowth(ctx, limit)
}

// RegisterTrendHandler registers a callback invoked for every trend a
// run emits.
func (e *Extractor) RegisterTrendHandler(handler func(trend.ScoredTrend) error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
}

// publishTrendEvent publishes a trend to the event bus.
func (e *Extractor) publishTrendEvent(t trend.ScoredTrend) error {
	if e.eventBus == nil {
		return nil
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling trend event: %w", err)
	}

	return e.eventBus.Publish(e.config.EventsTopic+".detected", data)
}

func (e *Extractor) callTrendHandlers(t trend.ScoredTrend) {
	e.mu.RLock()
	handlers := make([]func(trend.ScoredTrend) error, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(t); err != nil {
			log.Printf("[extract] error in trend handler: %v", err)
		}
	}
}
