package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/feltworks/poker-ledger/internal/api/request"
	"github.com/feltworks/poker-ledger/internal/api/response"
	"github.com/feltworks/poker-ledger/internal/events"
	"github.com/feltworks/poker-ledger/internal/model"
	"github.com/feltworks/poker-ledger/internal/services/confirmation"
	"github.com/feltworks/poker-ledger/internal/services/ledger"
)

// PaymentHandler handles buy-in and generic payment endpoints
type PaymentHandler struct {
	ledger       *ledger.Controller
	confirmation *confirmation.Controller
	broadcaster  *events.Broadcaster
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(ledgerController *ledger.Controller, confirmationController *confirmation.Controller, broadcaster *events.Broadcaster) *PaymentHandler {
	return &PaymentHandler{
		ledger:       ledgerController,
		confirmation: confirmationController,
		broadcaster:  broadcaster,
	}
}

// BuyIn handles POST /api/players/{id}/buyin
func (h *PaymentHandler) BuyIn(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["id"])

	var req request.BuyInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	payment, err := h.ledger.AddPayment(r.Context(), playerID, model.PaymentTypeBuyIn, req.Amount, model.PaymentMethod(req.Method))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.PaymentCreated(payment)
	response.JSON(w, http.StatusCreated, response.PaymentFromModel(payment))
}

// ListPending handles GET /api/pending-payments: pending buy-ins and
// rebuys awaiting host verification
func (h *PaymentHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.ledger.PendingPayments(r.Context(), model.PaymentTypeBuyIn, model.PaymentTypeRebuy)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PaymentsFromModel(pending))
}

// ListRecent handles GET /api/transactions/recent
func (h *PaymentHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	recent, err := h.ledger.RecentPayments(r.Context(), limitParam(r), "")
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PaymentsFromModel(recent))
}

// Confirm handles PUT /api/players/{id}/payments/{paymentId}/confirm
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	playerID := model.PlayerID(vars["id"])
	paymentID := model.PaymentID(vars["paymentId"])

	var req request.ConfirmRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, NewInvalidRequestError("invalid request body"))
			return
		}
	}

	payment, err := h.confirmation.ConfirmForPlayer(r.Context(), playerID, paymentID, methodSplit(req.MethodSplit))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.PaymentConfirmed(payment)
	response.JSON(w, http.StatusOK, response.PaymentFromModel(payment))
}

// Delete handles DELETE /api/players/{id}/payments/{paymentId}
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	playerID := model.PlayerID(vars["id"])
	paymentID := model.PaymentID(vars["paymentId"])

	payment, err := h.ledger.DeletePayment(r.Context(), playerID, paymentID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.PaymentDeleted(payment)
	response.NoContent(w)
}

// limitParam parses the optional ?limit query parameter; 0 lets the
// controller apply its default
func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0
	}
	return limit
}

// methodSplit converts a raw string-keyed split into a model.MethodSplit
func methodSplit(raw map[string]decimal.Decimal) model.MethodSplit {
	if len(raw) == 0 {
		return nil
	}
	split := make(model.MethodSplit, len(raw))
	for method, amount := range raw {
		split[model.PaymentMethod(method)] = amount
	}
	return split
}
