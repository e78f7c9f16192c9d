package rest

import (
	"net/http"
	"strconv"

	"github.com/ajkula/dirtidy/domain/port/inbound"
)

// WithStats enables /api/stats and /api/resources/history; call before SetupRoutes
func (h *Handler) WithStats(stats inbound.StatsService) *Handler {
	h.stats = stats
	return h
}

func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.GetStats(r.Context())
	if err != nil {
		h.logger.Error("Failed to get stats", "error", err)
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) getResourceHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.badRequest(w, "Invalid limit")
			return
		}
		limit = n
	}

	history, err := h.stats.GetResourceHistory(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}
