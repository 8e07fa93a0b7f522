package events

import (
	"encoding/json"
	"log/slog"

	"github.com/feltworks/poker-ledger/internal/dependencies/clock"
	"github.com/feltworks/poker-ledger/internal/model"
)

// Broadcaster translates store mutations into pushed SSE events. It sits
// outside the ledger core: handlers call it after a successful mutation,
// and polling clients see the same state without it.
type Broadcaster struct {
	hub    *Hub
	clock  clock.Clock
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, clk clock.Clock, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		clock:  clk,
		logger: logger.With(slog.String("component", "events")),
	}
}

// PlayerCreated publishes a player creation event
func (b *Broadcaster) PlayerCreated(player *model.Player) {
	b.publish(model.Event{
		Type:      model.EventPlayerCreated,
		PlayerID:  player.ID,
		Payload:   player,
		Timestamp: b.clock.Now(),
	})
}

// PlayerDeleted publishes a player deletion event
func (b *Broadcaster) PlayerDeleted(playerID model.PlayerID) {
	b.publish(model.Event{
		Type:      model.EventPlayerDeleted,
		PlayerID:  playerID,
		Timestamp: b.clock.Now(),
	})
}

// PaymentCreated publishes a payment creation event
func (b *Broadcaster) PaymentCreated(payment *model.Payment) {
	b.publishPayment(model.EventPaymentCreated, payment)
}

// PaymentConfirmed publishes a payment confirmation event
func (b *Broadcaster) PaymentConfirmed(payment *model.Payment) {
	b.publishPayment(model.EventPaymentConfirmed, payment)
}

// PaymentDeleted publishes a payment deletion event
func (b *Broadcaster) PaymentDeleted(payment *model.Payment) {
	b.publishPayment(model.EventPaymentDeleted, payment)
}

func (b *Broadcaster) publishPayment(eventType model.EventType, payment *model.Payment) {
	b.publish(model.Event{
		Type:      eventType,
		PlayerID:  payment.PlayerID,
		PaymentID: payment.ID,
		Payload:   payment,
		Timestamp: b.clock.Now(),
	})
}

func (b *Broadcaster) publish(event model.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("failed to marshal event",
			slog.String("type", string(event.Type)),
			slog.String("error", err.Error()))
		return
	}
	b.hub.BroadcastEvent(string(event.Type), string(data))
}
