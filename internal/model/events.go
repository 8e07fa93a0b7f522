package model

import "time"

// EventType identifies the type of ledger mutation event
type EventType string

const (
	EventPlayerCreated    EventType = "player_created"
	EventPlayerDeleted    EventType = "player_deleted"
	EventPaymentCreated   EventType = "payment_created"
	EventPaymentConfirmed EventType = "payment_confirmed"
	EventPaymentDeleted   EventType = "payment_deleted"
)

// Event is published on every store mutation. Clients poll by default;
// the event stream is an additive push channel on top of the same data.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	PlayerID  PlayerID  `json:"player_id,omitempty"`
	PaymentID PaymentID `json:"payment_id,omitempty"`
	Payload   any       `json:"payload,omitempty"`
}
