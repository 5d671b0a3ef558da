package extract

import (
	"strings"
	"unicode"

	"trendwatch/internal/domain/trend"
)

// sourceTypeByItemType maps the item type names the ingestion adapters
// emit onto the canonical source types. Adapters predating the rename
// keep their historical names, so both spellings appear here.
var sourceTypeByItemType = map[string]trend.SourceType{
	"food_blog_post":       trend.SourceBlog,
	"blog":                 trend.SourceBlog,
	"reddit_trending":      trend.SourceSocialPost,
	"twitter_trending":     trend.SourceSocialPost,
	"social_post":          trend.SourceSocialPost,
	"competitor_page":      trend.SourceCompetitorPage,
	"google_trends_rising": trend.SourceSearchInterest,
	"search_interest":      trend.SourceSearchInterest,
}

// Normalizer canonicalizes raw source items into RawDocuments.
type Normalizer struct{}

// NewNormalizer creates a new normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize converts raw items into documents. Items with an
// unrecognized type or an empty title are dropped and counted, never
// treated as an error. Title casing is preserved for display.
func (n *Normalizer) Normalize(items []trend.SourceItem, stats *RunStats) []trend.RawDocument {
	docs := make([]trend.RawDocument, 0, len(items))

	for _, item := range items {
		st, ok := sourceTypeByItemType[item.Type]
		if !ok {
			stats.DroppedUnknownType++
			continue
		}

		title := CollapseWhitespace(item.Title)
		if title == "" {
			stats.DroppedEmptyTitle++
			continue
		}

		docs = append(docs, trend.RawDocument{
			SourceType: st,
			Country:    strings.ToUpper(strings.TrimSpace(item.Country)),
			Title:      title,
			URL:        item.URL,
			Seed:       item.Seed,
			Metric:     item.Metric,
			ObservedAt: item.ObservedAt,
		})
	}

	return docs
}

// CollapseWhitespace trims the string and collapses internal runs of
// whitespace to a single space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeForMatch lowercases a phrase and strips everything but
// letters, digits, hyphens and spaces. This is the comparison form
// shared by the food filter and the clusterer; display text keeps its
// original casing.
func NormalizeForMatch(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return CollapseWhitespace(strings.Trim(b.String(), "- "))
}
