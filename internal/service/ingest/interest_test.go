package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func TestInterestClientSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kw := r.URL.Query().Get("keyword")
		geo := r.URL.Query().Get("geo")

		if kw == "ube" {
			// Unknown keyword upstream.
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"keyword": %q, "country": %q, "values": [42, 50, 74]}`, kw, geo)
	}))
	defer srv.Close()

	client := NewInterestClient(srv.URL, "trendwatch-test", 5*time.Second)

	series, err := client.Series(context.Background(), map[string][]string{
		"NL": {"ramen", "ube"},
	})
	if err != nil {
		t.Fatalf("Series: %v", err)
	}

	want := map[string]map[string][]float64{
		"ramen": {"NL": {42, 50, 74}},
	}
	if !reflect.DeepEqual(series, want) {
		t.Errorf("series = %v, want %v (failed pairs omitted)", series, want)
	}
}
