package extract

import (
	"sort"
	"strings"
	"time"
)

// MarketSets partitions countries into lead markets, where food trends
// tend to surface first, and target markets, the ones the business
// wants to anticipate trends for. Countries in neither set still count
// toward a cluster's markets but carry no market role.
type MarketSets struct {
	Lead   []string `yaml:"lead"`
	Target []string `yaml:"target"`
}

// DefaultMarketSets returns the stock lead/target partition.
func DefaultMarketSets() MarketSets {
	return MarketSets{
		Lead:   []string{"US", "GB", "KR", "JP"},
		Target: []string{"NL", "DE", "FR"},
	}
}

// MarketClassifier assigns market roles to a cluster's countries.
type MarketClassifier struct {
	lead   map[string]bool
	target map[string]bool
}

// NewMarketClassifier creates a classifier from the given market sets.
func NewMarketClassifier(sets MarketSets) *MarketClassifier {
	return &MarketClassifier{
		lead:   toSet(sets.Lead),
		target: toSet(sets.Target),
	}
}

// LeadToTarget reports whether a trend originates in a lead market and
// has not yet reached a target market. Any target-market presence
// means the trend is already localized, regardless of lead presence.
func (m *MarketClassifier) LeadToTarget(countries []string) bool {
	hasLead, hasTarget := false, false
	for _, c := range countries {
		cc := strings.ToUpper(c)
		if m.lead[cc] {
			hasLead = true
		}
		if m.target[cc] {
			hasTarget = true
		}
	}
	return hasLead && !hasTarget
}

// CountryOrder returns the countries sorted by when the trend first
// appeared in each, earliest first. Ties sort by country code so the
// order is stable across runs.
func CountryOrder(firstSeen map[string]time.Time) []string {
	out := make([]string, 0, len(firstSeen))
	for c := range firstSeen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := firstSeen[out[i]], firstSeen[out[j]]
		if a.Equal(b) {
			return out[i] < out[j]
		}
		return a.Before(b)
	})
	return out
}

func toSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[strings.ToUpper(strings.TrimSpace(c))] = true
	}
	return set
}
