package handler

import (
	"net/http"

	"github.com/feltworks/poker-ledger/internal/api/response"
	"github.com/feltworks/poker-ledger/internal/services/accounting"
)

// StatsHandler serves game-level aggregates
type StatsHandler struct {
	accounting *accounting.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(accountingService *accounting.Service) *StatsHandler {
	return &StatsHandler{accounting: accountingService}
}

// GameStats handles GET /api/game-stats
func (h *StatsHandler) GameStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.accounting.Stats(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameStatsFromModel(stats))
}

// Health handles GET /api/test
func (h *StatsHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
