package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"trendwatch/internal/domain/trend"
)

// RunHandler triggers extraction runs on demand.
type RunHandler struct {
	extractor trend.Extractor
}

// NewRunHandler creates a new run handler.
func NewRunHandler(extractor trend.Extractor) *RunHandler {
	return &RunHandler{extractor: extractor}
}

// TriggerRun kicks off a run in the background and returns 202. Runs
// are serialized by the extractor, so a second trigger simply queues.
func (h *RunHandler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		if err := h.extractor.RunOnce(ctx); err != nil {
			log.Printf("[http] triggered run failed: %v", err)
		}
	}()

	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "run started"})
}
