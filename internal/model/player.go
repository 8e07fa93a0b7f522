package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a seated participant in the game
type Player struct {
	ID        PlayerID  `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeName canonicalizes a player name for lookup and uniqueness
// checks: trimmed and lowercased. Display names keep their original casing.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// PlayerSummary is a player together with their ledger-derived state.
// Total is the gross signed sum of the player's confirmed payments:
// buy-ins and rebuys add, cash-outs subtract. The dealer fee is included
// in the total (the player sees what they put in; only the pot nets it out).
type PlayerSummary struct {
	Player
	Total    decimal.Decimal `json:"total"`
	Payments []*Payment      `json:"payments"`
}

// PlayerPaymentSummary is the per-player reconciliation view used by the
// host dashboard: the summary plus fee and status accounting.
type PlayerPaymentSummary struct {
	PlayerSummary
	DealerFeePaid  decimal.Decimal `json:"dealer_fee_paid"`
	ConfirmedCount int             `json:"confirmed_count"`
	PendingCount   int             `json:"pending_count"`
}
