package http

import (
	"net/http"
	"strconv"

	"rentalfleet-backend/internal/service"
)

// StatsHandler serves the precomputed dashboard aggregates.
type StatsHandler struct {
	stats service.StatsService
}

func NewStatsHandler(stats service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	stats, err := h.stats.Monthly(r.Context(), p, year)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"stats": stats})
}

func (h *StatsHandler) Yearly(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	stats, err := h.stats.Yearly(r.Context(), p)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"stats": stats})
}
