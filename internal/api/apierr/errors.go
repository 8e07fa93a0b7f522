package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/feltworks/poker-ledger/internal/model"
	"github.com/feltworks/poker-ledger/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeEmptyName          = "EMPTY_NAME"
	CodeNameTaken          = "NAME_TAKEN"
	CodeInvalidAmount      = "INVALID_AMOUNT"
	CodeInvalidType        = "INVALID_TYPE"
	CodeInvalidMethod      = "INVALID_METHOD"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodePaymentNotFound    = "PAYMENT_NOT_FOUND"
	CodeAlreadyConfirmed   = "ALREADY_CONFIRMED"
	CodeSplitMismatch      = "SPLIT_MISMATCH"
	CodeSplitNotAllowed    = "SPLIT_NOT_ALLOWED"
	CodeCashOutExceedsPot  = "CASHOUT_EXCEEDS_POT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidPIN         = "INVALID_PIN"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError. Detail wrapped around a
// sentinel (amounts, names) is carried through in the message so the
// caller sees what was requested versus what was available.
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrPaymentNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePaymentNotFound, "Payment not found"}}
	case errors.Is(err, model.ErrEmptyPlayerName):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyName, "Player name must not be empty"}}
	case errors.Is(err, model.ErrPlayerNameTaken):
		return &httpError{http.StatusConflict, APIError{CodeNameTaken, err.Error()}}
	case errors.Is(err, model.ErrInvalidAmount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidAmount, "Amount must be a positive number"}}
	case errors.Is(err, model.ErrInvalidPaymentType):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidType, err.Error()}}
	case errors.Is(err, model.ErrInvalidPaymentMethod):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidMethod, err.Error()}}
	case errors.Is(err, model.ErrPaymentAlreadyConfirmed):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyConfirmed, "Payment is already confirmed"}}
	case errors.Is(err, model.ErrSplitMismatch):
		return &httpError{http.StatusBadRequest, APIError{CodeSplitMismatch, err.Error()}}
	case errors.Is(err, model.ErrSplitNotAllowed):
		return &httpError{http.StatusBadRequest, APIError{CodeSplitNotAllowed, "Method split only applies to cash-outs"}}
	case errors.Is(err, model.ErrCashOutExceedsPot):
		return &httpError{http.StatusConflict, APIError{CodeCashOutExceedsPot, err.Error()}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidPIN):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidPIN, "Invalid PIN"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
