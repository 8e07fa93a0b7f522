package events

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feltworks/poker-ledger/internal/dependencies/mocks"
	"github.com/feltworks/poker-ledger/internal/model"
	"github.com/feltworks/poker-ledger/internal/testutil"
)

func receiveMessage(t *testing.T, client *Client) string {
	t.Helper()
	select {
	case msg := <-client.send:
		return string(msg)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive message")
		return ""
	}
}

func TestBroadcaster_PaymentCreated(t *testing.T) {
	logger := testutil.NopLogger()
	hub := NewHub(logger)
	go hub.Run()
	defer hub.Close()

	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 19, 0, 0, 0, time.UTC))
	broadcaster := NewBroadcaster(hub, clk, logger)

	client := NewClient(hub)
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	payment := &model.Payment{
		ID:       "pay-1",
		PlayerID: "player-1",
		Type:     model.PaymentTypeBuyIn,
		Amount:   decimal.NewFromInt(135),
		Method:   model.MethodCash,
		Status:   model.StatusPending,
	}
	broadcaster.PaymentCreated(payment)

	msg := receiveMessage(t, client)
	if !strings.HasPrefix(msg, "event: payment_created\n") {
		t.Errorf("unexpected event name in %q", msg)
	}

	data := strings.TrimPrefix(strings.Split(msg, "\n")[1], "data: ")
	var event model.Event
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		t.Fatalf("event payload is not valid JSON: %v", err)
	}
	if event.Type != model.EventPaymentCreated {
		t.Errorf("event type = %q, want %q", event.Type, model.EventPaymentCreated)
	}
	if event.PaymentID != "pay-1" || event.PlayerID != "player-1" {
		t.Errorf("event ids = %q/%q", event.PlayerID, event.PaymentID)
	}
	if !event.Timestamp.Equal(clk.Now()) {
		t.Errorf("event timestamp = %v, want %v", event.Timestamp, clk.Now())
	}
}

func TestBroadcaster_PlayerDeleted(t *testing.T) {
	logger := testutil.NopLogger()
	hub := NewHub(logger)
	go hub.Run()
	defer hub.Close()

	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 19, 0, 0, 0, time.UTC))
	broadcaster := NewBroadcaster(hub, clk, logger)

	client := NewClient(hub)
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	broadcaster.PlayerDeleted("player-1")

	msg := receiveMessage(t, client)
	if !strings.HasPrefix(msg, "event: player_deleted\n") {
		t.Errorf("unexpected event name in %q", msg)
	}
}
