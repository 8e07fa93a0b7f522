package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/feltworks/poker-ledger/internal/api/request"
	"github.com/feltworks/poker-ledger/internal/api/response"
	"github.com/feltworks/poker-ledger/internal/events"
	"github.com/feltworks/poker-ledger/internal/model"
	"github.com/feltworks/poker-ledger/internal/services/confirmation"
	"github.com/feltworks/poker-ledger/internal/services/ledger"
)

// CashOutHandler handles cash-out endpoints
type CashOutHandler struct {
	ledger       *ledger.Controller
	confirmation *confirmation.Controller
	broadcaster  *events.Broadcaster
}

// NewCashOutHandler creates a new cash-out handler
func NewCashOutHandler(ledgerController *ledger.Controller, confirmationController *confirmation.Controller, broadcaster *events.Broadcaster) *CashOutHandler {
	return &CashOutHandler{
		ledger:       ledgerController,
		confirmation: confirmationController,
		broadcaster:  broadcaster,
	}
}

// Request handles POST /api/players/{id}/cashout
func (h *CashOutHandler) Request(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["id"])

	var req request.CashOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	payment, err := h.ledger.RequestCashOut(r.Context(), playerID, req.Amount, model.PaymentMethod(req.Method))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.PaymentCreated(payment)
	response.JSON(w, http.StatusCreated, response.PaymentFromModel(payment))
}

// ListPending handles GET /api/pending-cashouts
func (h *CashOutHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.ledger.PendingPayments(r.Context(), model.PaymentTypeCashOut)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PaymentsFromModel(pending))
}

// Confirm handles PUT /api/cashouts/{id}/confirm with an optional
// method-split body
func (h *CashOutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	paymentID := model.PaymentID(mux.Vars(r)["id"])

	var req request.ConfirmRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, NewInvalidRequestError("invalid request body"))
			return
		}
	}

	payment, err := h.confirmation.Confirm(r.Context(), paymentID, methodSplit(req.MethodSplit))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.PaymentConfirmed(payment)
	response.JSON(w, http.StatusOK, response.PaymentFromModel(payment))
}

// ListRecent handles GET /api/cashouts/recent: confirmed cash-outs,
// newest first
func (h *CashOutHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	recent, err := h.ledger.RecentPayments(r.Context(), limitParam(r), model.StatusConfirmed, model.PaymentTypeCashOut)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PaymentsFromModel(recent))
}

// History handles GET /api/cashouts/history: every cash-out at any
// status, newest first, uncapped
func (h *CashOutHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.ledger.RecentPayments(r.Context(), -1, "", model.PaymentTypeCashOut)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PaymentsFromModel(history))
}
