package handler

import (
	"encoding/json"
	"net/http"

	"github.com/feltworks/poker-ledger/internal/api/request"
	"github.com/feltworks/poker-ledger/internal/api/response"
	"github.com/feltworks/poker-ledger/internal/events"
	"github.com/feltworks/poker-ledger/internal/model"
	"github.com/feltworks/poker-ledger/internal/services/ledger"
)

// RebuyHandler handles the mobile rebuy form endpoints
type RebuyHandler struct {
	ledger      *ledger.Controller
	broadcaster *events.Broadcaster
}

// NewRebuyHandler creates a new rebuy handler
func NewRebuyHandler(ledgerController *ledger.Controller, broadcaster *events.Broadcaster) *RebuyHandler {
	return &RebuyHandler{
		ledger:      ledgerController,
		broadcaster: broadcaster,
	}
}

// Process handles POST /api/rebuys. The form submits a name rather than
// an ID, so unknown names implicitly create the player.
func (h *RebuyHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req request.RebuyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	payment, player, created, err := h.ledger.ProcessRebuy(r.Context(), req.PlayerName, req.Amount, model.PaymentMethod(req.Method))
	if err != nil {
		WriteError(w, err)
		return
	}

	if created {
		h.broadcaster.PlayerCreated(player)
	}
	h.broadcaster.PaymentCreated(payment)

	response.JSON(w, http.StatusCreated, response.Rebuy{
		Payment:       response.PaymentFromModel(payment),
		Player:        response.PlayerCreatedFromModel(player),
		PlayerCreated: created,
	})
}

// ListRecent handles GET /api/rebuys/recent
func (h *RebuyHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	recent, err := h.ledger.RecentPayments(r.Context(), limitParam(r), "",
		model.PaymentTypeBuyIn, model.PaymentTypeRebuy)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PaymentsFromModel(recent))
}
