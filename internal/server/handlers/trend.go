package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"trendwatch/internal/domain/trend"
)

// TrendHandler handles trend-related HTTP requests.
type TrendHandler struct {
	extractor trend.Extractor
}

// NewTrendHandler creates a new trend handler.
func NewTrendHandler(extractor trend.Extractor) *TrendHandler {
	return &TrendHandler{extractor: extractor}
}

// GetTrends returns the ranked trend list.
func (h *TrendHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	filter := trend.Filter{}

	if v := r.URL.Query().Get("min_score"); v != "" {
		minScore, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid min_score", err)
			return
		}
		filter.MinScore = minScore
	}

	if v := r.URL.Query().Get("market"); v != "" {
		filter.Market = v
	}

	if v := r.URL.Query().Get("lead_to_target"); v != "" {
		ltt, err := strconv.ParseBool(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid lead_to_target", err)
			return
		}
		filter.LeadToTarget = &ltt
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		filter.Limit = limit
	}

	trends, err := h.extractor.GetTrends(r.Context(), filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get trends", err)
		return
	}
	if trends == nil {
		// No trends this run is a valid, reportable state.
		trends = []trend.ScoredTrend{}
	}

	respondWithJSON(w, http.StatusOK, trends)
}

// GetTrend returns a specific trend by ID.
func (h *TrendHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing trend ID", nil)
		return
	}

	t, err := h.extractor.GetTrendByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, trend.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Trend not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get trend", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, t)
}

// Helper for JSON responses.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses.
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}

	if err != nil && code >= 500 {
		log.Printf("[http] %d %s: %v", code, message, err)
	}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
