package ingest

import (
	"fmt"
	"log"

	"trendwatch/internal/config"
	"trendwatch/internal/domain/trend"
)

// BuildSources turns the source definitions from sources.yaml into
// live ingestion adapters. Definitions of an unknown type are logged
// and skipped so an upgraded config never strands an older binary.
func BuildSources(defs []config.SourceDef, ic config.IngestConfig) []trend.Source {
	var sources []trend.Source

	for _, def := range defs {
		if !def.Enabled {
			continue
		}

		src, err := buildSource(def, ic)
		if err != nil {
			log.Printf("[ingest] skipping source %s: %v", def.ID, err)
			continue
		}
		sources = append(sources, src)
	}

	return sources
}

func buildSource(def config.SourceDef, ic config.IngestConfig) (trend.Source, error) {
	switch def.Type {
	case "reddit":
		return NewRedditSource(RedditOptions{
			ID:         def.ID,
			Country:    def.Country,
			Subreddits: def.Subreddits,
			Limit:      def.Limit,
			TimeFilter: def.TimeFilter,
			BaseURL:    ic.RedditBaseURL,
			UserAgent:  ic.UserAgent,
			Timeout:    ic.RequestTimeout,
		}), nil

	case "food_blog":
		feeds := make([]Feed, 0, len(def.Feeds))
		for _, f := range def.Feeds {
			feeds = append(feeds, Feed{Name: f.Name, URL: f.URL})
		}
		return NewBlogSource(BlogOptions{
			ID:        def.ID,
			Country:   def.Country,
			Feeds:     feeds,
			MaxAge:    ic.BlogMaxAge,
			UserAgent: ic.UserAgent,
		}), nil

	case "competitor":
		return NewCompetitorSource(CompetitorOptions{
			ID:        def.ID,
			Country:   def.Country,
			URL:       def.URL,
			UserAgent: ic.UserAgent,
			Timeout:   ic.RequestTimeout,
		}), nil

	case "search_interest":
		if ic.InterestAPIURL == "" {
			return nil, fmt.Errorf("search interest source %s: interest API not configured", def.ID)
		}
		return NewTrendsSource(TrendsOptions{
			ID:        def.ID,
			Country:   def.Country,
			BaseURL:   ic.InterestAPIURL,
			UserAgent: ic.UserAgent,
			Timeout:   ic.RequestTimeout,
		}), nil

	case "twitter":
		return NewTwitterSource(TwitterOptions{
			ID:          def.ID,
			Country:     def.Country,
			Query:       def.Query,
			Limit:       def.Limit,
			BearerToken: ic.TwitterBearerToken,
			Timeout:     ic.RequestTimeout,
		})

	default:
		return nil, fmt.Errorf("unsupported source type: %s", def.Type)
	}
}
