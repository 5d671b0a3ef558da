package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"trendwatch/internal/service/extract"
)

// Sources is the data-driven half of the configuration: lexicons,
// market sets, monitored keywords and source definitions. It is loaded
// from a YAML file so the watchlist can be tuned without touching the
// engine.
type Sources struct {
	Lexicons extract.Lexicons   `yaml:"lexicons"`
	Markets  extract.MarketSets `yaml:"markets"`

	// Keywords maps a country code to the keywords monitored for
	// search-interest growth in that market.
	Keywords map[string][]string `yaml:"keywords"`

	Sources []SourceDef `yaml:"sources"`
}

// SourceDef describes one configured ingestion source.
type SourceDef struct {
	ID         string    `yaml:"id"`
	Type       string    `yaml:"type"`
	Enabled    bool      `yaml:"enabled"`
	Country    string    `yaml:"country"`
	Subreddits []string  `yaml:"subreddits,omitempty"`
	Limit      int       `yaml:"limit,omitempty"`
	TimeFilter string    `yaml:"time_filter,omitempty"`
	Feeds      []FeedDef `yaml:"feeds,omitempty"`
	URL        string    `yaml:"url,omitempty"`
	Query      string    `yaml:"query,omitempty"`
}

// FeedDef is one RSS feed of a food_blog source.
type FeedDef struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// LoadSources reads the sources file. A missing file falls back to the
// built-in lexicons and market sets with no sources configured; a file
// that exists but does not parse is a hard configuration error.
func LoadSources(path string) (Sources, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultSources(), nil
	}
	if err != nil {
		return Sources{}, fmt.Errorf("reading sources file: %w", err)
	}

	var s Sources
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Sources{}, fmt.Errorf("parsing sources file %s: %w", path, err)
	}

	// Partial files inherit the built-in lexicons and markets.
	defaults := defaultSources()
	if len(s.Lexicons.Allow) == 0 {
		s.Lexicons.Allow = defaults.Lexicons.Allow
	}
	if len(s.Lexicons.Veto) == 0 {
		s.Lexicons.Veto = defaults.Lexicons.Veto
	}
	if len(s.Lexicons.Diet) == 0 {
		s.Lexicons.Diet = defaults.Lexicons.Diet
	}
	if len(s.Lexicons.StopWords) == 0 {
		s.Lexicons.StopWords = defaults.Lexicons.StopWords
	}
	if len(s.Markets.Lead) == 0 && len(s.Markets.Target) == 0 {
		s.Markets = defaults.Markets
	}

	return s, nil
}

func defaultSources() Sources {
	return Sources{
		Lexicons: extract.DefaultLexicons(),
		Markets:  extract.DefaultMarketSets(),
	}
}
