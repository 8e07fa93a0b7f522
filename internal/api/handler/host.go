package handler

import (
	"encoding/json"
	"net/http"

	"github.com/feltworks/poker-ledger/internal/api/request"
	"github.com/feltworks/poker-ledger/internal/api/response"
	"github.com/feltworks/poker-ledger/internal/services/auth"
)

// HostHandler handles host authentication
type HostHandler struct {
	auth *auth.Service
}

// NewHostHandler creates a new host handler
func NewHostHandler(authService *auth.Service) *HostHandler {
	return &HostHandler{auth: authService}
}

// Login handles POST /api/host/login
func (h *HostHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.HostLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	session, err := h.auth.Login(req.PIN)
	if err != nil {
		WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "host_session",
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	response.JSON(w, http.StatusOK, response.HostAuthFromSession(session))
}
