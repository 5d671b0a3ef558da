package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Engine      EngineConfig
	Ingest      IngestConfig
	Scheduler   SchedulerConfig
	SourcesFile string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	EventsTopic    string
}

// EngineConfig holds the tunables of the extraction engine. Lexicons
// and market sets live in the sources file, not the environment.
type EngineConfig struct {
	SimilarityThreshold int
	RecencyWindow       time.Duration
	VelocityWindow      time.Duration
	DietBonus           float64
	GrowthRecentWindow  int
	GrowthMinRecentAvg  float64
	DocumentWindow      time.Duration
}

// IngestConfig holds ingestion adapter configuration.
type IngestConfig struct {
	UserAgent          string
	RequestTimeout     time.Duration
	RedditBaseURL      string
	InterestAPIURL     string
	TwitterBearerToken string
	BlogMaxAge         time.Duration
}

// SchedulerConfig holds the cron specs for scheduled runs.
type SchedulerConfig struct {
	Enabled  bool
	RunSpec  string
	Timezone string
}

// Load loads configuration from environment variables.
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		SourcesFile: getEnv("SOURCES_FILE", "sources.yaml"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "trendwatch"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
			EventsTopic:    getEnv("NATS_EVENTS_TOPIC", "trend"),
		},
		Engine: EngineConfig{
			SimilarityThreshold: getEnvAsInt("ENGINE_SIMILARITY_THRESHOLD", 88),
			RecencyWindow:       getEnvAsDuration("ENGINE_RECENCY_WINDOW", 7*24*time.Hour),
			VelocityWindow:      getEnvAsDuration("ENGINE_VELOCITY_WINDOW", 7*24*time.Hour),
			DietBonus:           getEnvAsFloat("ENGINE_DIET_BONUS", 2.0),
			GrowthRecentWindow:  getEnvAsInt("ENGINE_GROWTH_RECENT_WINDOW", 7),
			GrowthMinRecentAvg:  getEnvAsFloat("ENGINE_GROWTH_MIN_RECENT_AVG", 0),
			DocumentWindow:      getEnvAsDuration("ENGINE_DOCUMENT_WINDOW", 30*24*time.Hour),
		},
		Ingest: IngestConfig{
			UserAgent:          getEnv("INGEST_USER_AGENT", "trendwatch/1.0"),
			RequestTimeout:     getEnvAsDuration("INGEST_REQUEST_TIMEOUT", 10*time.Second),
			RedditBaseURL:      getEnv("INGEST_REDDIT_BASE_URL", "https://www.reddit.com"),
			InterestAPIURL:     getEnv("INGEST_INTEREST_API_URL", ""),
			TwitterBearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
			BlogMaxAge:         getEnvAsDuration("INGEST_BLOG_MAX_AGE", 30*24*time.Hour),
		},
		Scheduler: SchedulerConfig{
			Enabled:  getEnvAsBool("SCHEDULER_ENABLED", true),
			RunSpec:  getEnv("SCHEDULER_RUN_SPEC", "0 6 * * *"),
			Timezone: getEnv("SCHEDULER_TIMEZONE", "UTC"),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid.
func validate(config Config) error {
	if config.Engine.SimilarityThreshold < 1 || config.Engine.SimilarityThreshold > 100 {
		return fmt.Errorf("similarity threshold must be within 1-100, got %d", config.Engine.SimilarityThreshold)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
