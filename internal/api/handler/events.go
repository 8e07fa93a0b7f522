package handler

import (
	"net/http"

	"github.com/feltworks/poker-ledger/internal/events"
)

// EventsHandler serves the live event stream
type EventsHandler struct {
	hub *events.Hub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *events.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream handles GET /api/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	events.ServeSSE(w, r, h.hub)
}
