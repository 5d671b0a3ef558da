package extract

import (
	"reflect"
	"testing"
	"time"
)

func TestLeadToTarget(t *testing.T) {
	m := NewMarketClassifier(DefaultMarketSets())

	tests := []struct {
		name      string
		countries []string
		want      bool
	}{
		{"lead only", []string{"US", "GB"}, true},
		{"lead lowercase", []string{"us"}, true},
		{"lead plus target already localized", []string{"US", "NL"}, false},
		{"target only", []string{"NL"}, false},
		{"unclassified only", []string{"BR", "AU"}, false},
		{"lead plus unclassified", []string{"KR", "BR"}, true},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.LeadToTarget(tt.countries); got != tt.want {
				t.Errorf("LeadToTarget(%v) = %v, want %v", tt.countries, got, tt.want)
			}
		})
	}
}

func TestCountryOrder(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	firstSeen := map[string]time.Time{
		"NL": base.Add(72 * time.Hour),
		"US": base,
		"GB": base.Add(24 * time.Hour),
	}

	if got := CountryOrder(firstSeen); !reflect.DeepEqual(got, []string{"US", "GB", "NL"}) {
		t.Errorf("CountryOrder = %v, want earliest first", got)
	}
}

func TestCountryOrderTieBreaksByCode(t *testing.T) {
	ts := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	firstSeen := map[string]time.Time{"KR": ts, "DE": ts, "JP": ts}

	if got := CountryOrder(firstSeen); !reflect.DeepEqual(got, []string{"DE", "JP", "KR"}) {
		t.Errorf("CountryOrder = %v, want code order on timestamp ties", got)
	}
}
