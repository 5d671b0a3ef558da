package handlers

import (
	"net/http"
	"strconv"

	"trendwatch/internal/domain/trend"
)

// GrowthHandler handles keyword growth HTTP requests.
type GrowthHandler struct {
	extractor trend.Extractor
}

// NewGrowthHandler creates a new growth handler.
func NewGrowthHandler(extractor trend.Extractor) *GrowthHandler {
	return &GrowthHandler{extractor: extractor}
}

// GetGrowth returns the keyword growth records, strongest growth first.
func (h *GrowthHandler) GetGrowth(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = parsed
	}

	records, err := h.extractor.GetGrowth(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get growth records", err)
		return
	}
	if records == nil {
		records = []trend.KeywordGrowthRecord{}
	}

	respondWithJSON(w, http.StatusOK, records)
}
