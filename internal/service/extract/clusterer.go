package extract

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"trendwatch/internal/domain/trend"
)

// DefaultSimilarityThreshold is the similarity (0-100) at which two
// phrases are considered the same trend. 85-92 is the sane operating
// range; below that unrelated dishes start merging.
const DefaultSimilarityThreshold = 88

// Clusterer groups near-duplicate phrases into trend clusters with a
// single greedy pass. O(n*k) for k clusters so far; k stays small
// relative to n on real inputs (dozens of clusters from hundreds of
// documents), but this degrades toward O(n^2) on degenerate phrase
// sets where every document founds its own cluster.
type Clusterer struct {
	threshold int
	stopWords map[string]bool
}

// NewClusterer creates a clusterer with the given similarity threshold
// (DefaultSimilarityThreshold when <= 0) and stop words.
func NewClusterer(threshold int, stopWords []string) *Clusterer {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	stop := make(map[string]bool, len(stopWords))
	for _, w := range stopWords {
		if n := NormalizeForMatch(w); n != "" {
			stop[n] = true
		}
	}

	return &Clusterer{threshold: threshold, stopWords: stop}
}

// Cluster assigns every document to exactly one cluster. Assignment is
// deterministic: documents are processed in input order, similarity
// ties go to the earliest-created cluster, and re-running on the same
// input yields identical membership and ordering.
func (c *Clusterer) Cluster(docs []trend.RawDocument) []*trend.TrendCluster {
	var clusters []*trend.TrendCluster

	for _, doc := range docs {
		key := c.matchKey(doc.Title)
		if key == "" {
			continue
		}

		best := -1
		bestScore := 0
		for i, cl := range clusters {
			score := fuzzy.TokenSetRatio(key, cl.MatchKey)
			// Strictly greater keeps the earliest cluster on ties.
			if score > bestScore {
				bestScore = score
				best = i
			}
		}

		if best >= 0 && bestScore >= c.threshold {
			cl := clusters[best]
			cl.Members = append(cl.Members, doc)
			// Longest member phrase becomes canonical; first seen
			// wins ties, so only a strictly longer phrase replaces.
			if len(doc.Title) > len(cl.Canonical) {
				cl.Canonical = doc.Title
				cl.MatchKey = key
			}
			continue
		}

		clusters = append(clusters, &trend.TrendCluster{
			Index:     len(clusters),
			Canonical: doc.Title,
			MatchKey:  key,
			Members:   []trend.RawDocument{doc},
		})
	}

	return clusters
}

// matchKey builds the comparison form of a phrase: lowercased,
// punctuation-stripped, stop words removed.
func (c *Clusterer) matchKey(title string) string {
	norm := NormalizeForMatch(title)
	if norm == "" {
		return ""
	}

	fields := strings.Fields(norm)
	kept := fields[:0]
	for _, f := range fields {
		if !c.stopWords[f] {
			kept = append(kept, f)
		}
	}

	// A phrase made entirely of stop words still has to cluster with
	// its duplicates, so fall back to the unstripped form.
	if len(kept) == 0 {
		return norm
	}

	return strings.Join(kept, " ")
}
