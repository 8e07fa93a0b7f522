package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/feltworks/poker-ledger/internal/api/request"
	"github.com/feltworks/poker-ledger/internal/api/response"
	"github.com/feltworks/poker-ledger/internal/events"
	"github.com/feltworks/poker-ledger/internal/model"
	"github.com/feltworks/poker-ledger/internal/services/ledger"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	ledger      *ledger.Controller
	broadcaster *events.Broadcaster
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(ledgerController *ledger.Controller, broadcaster *events.Broadcaster) *PlayerHandler {
	return &PlayerHandler{
		ledger:      ledgerController,
		broadcaster: broadcaster,
	}
}

// List handles GET /api/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.ledger.PlayerSummaries(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	players := make([]response.Player, len(summaries))
	for i, s := range summaries {
		players[i] = response.PlayerFromSummary(s)
	}
	response.JSON(w, http.StatusOK, players)
}

// Create handles POST /api/players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	player, err := h.ledger.CreatePlayer(r.Context(), req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.PlayerCreated(player)
	response.JSON(w, http.StatusCreated, response.PlayerCreatedFromModel(player))
}

// Delete handles DELETE /api/players/{id}
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["id"])

	if err := h.ledger.DeletePlayer(r.Context(), playerID); err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.PlayerDeleted(playerID)
	response.NoContent(w)
}

// PaymentSummary handles GET /api/players/{id}/payment-summary
func (h *PlayerHandler) PaymentSummary(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["id"])

	summary, err := h.ledger.PlayerPaymentSummary(r.Context(), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PaymentSummaryFromModel(summary))
}
