package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"trendwatch/internal/adapter/storage"
	"trendwatch/internal/config"
	"trendwatch/internal/domain/trend"
	"trendwatch/internal/server"
	"trendwatch/internal/service/extract"
	"trendwatch/internal/service/ingest"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	sources, err := config.LoadSources(cfg.SourcesFile)
	if err != nil {
		log.Fatalf("Failed to load sources configuration: %v", err)
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := storage.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	natsConn, err := initNATS(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsConn.Close()

	// Storage adapters
	trendStore := storage.NewTrendStore(db)
	documentStore := storage.NewDocumentStore(db)
	growthStore := storage.NewGrowthStore(db)

	// Extraction engine from configuration
	engineCfg := extract.DefaultEngineConfig()
	engineCfg.Lexicons = sources.Lexicons
	engineCfg.Markets = sources.Markets
	engineCfg.SimilarityThreshold = cfg.Engine.SimilarityThreshold
	engineCfg.Scorer.RecencyWindow = cfg.Engine.RecencyWindow
	engineCfg.Scorer.VelocityWindow = cfg.Engine.VelocityWindow
	engineCfg.Scorer.DietBonus = cfg.Engine.DietBonus
	engineCfg.Growth.RecentWindow = cfg.Engine.GrowthRecentWindow
	engineCfg.Growth.MinRecentAvg = cfg.Engine.GrowthMinRecentAvg

	engine, err := extract.NewEngine(engineCfg)
	if err != nil {
		log.Fatalf("Failed to build extraction engine: %v", err)
	}

	// Ingestion adapters
	collector := ingest.NewCollector(ingest.BuildSources(sources.Sources, cfg.Ingest))

	// Interest series come from the configured API when present,
	// otherwise from points already stored in the database.
	var interest trend.InterestProvider = growthStore
	if cfg.Ingest.InterestAPIURL != "" {
		interest = ingest.NewInterestClient(cfg.Ingest.InterestAPIURL, cfg.Ingest.UserAgent, cfg.Ingest.RequestTimeout)
	}

	runSpec := ""
	if cfg.Scheduler.Enabled {
		runSpec = cfg.Scheduler.RunSpec
	}

	extractor, err := extract.NewExtractor(
		engine,
		collector,
		trendStore,
		documentStore,
		growthStore,
		interest,
		natsConn,
		extract.ExtractorConfig{
			DocumentWindow: cfg.Engine.DocumentWindow,
			RunSpec:        runSpec,
			Timezone:       cfg.Scheduler.Timezone,
			EventsTopic:    cfg.NATS.EventsTopic,
			Keywords:       sources.Keywords,
		},
	)
	if err != nil {
		log.Fatalf("Failed to build extractor: %v", err)
	}

	extractor.RegisterTrendHandler(func(t trend.ScoredTrend) error {
		if t.LeadToTarget {
			log.Printf("[watch] lead-market trend not yet localized: %q score=%.2f markets=%v",
				t.Trend, t.Score, t.Markets)
		}
		return nil
	})

	if err := extractor.Start(ctx); err != nil {
		log.Fatalf("Failed to start extractor: %v", err)
	}

	httpServer := server.NewServer(cfg.Server, natsConn, cfg.NATS.EventsTopic, extractor)

	go func() {
		log.Printf("Starting HTTP server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Println("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	log.Println("Shutting down services...")

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if err := extractor.Stop(shutdownCtx); err != nil {
		log.Printf("Extractor shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
