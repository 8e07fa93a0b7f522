package response

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/feltworks/poker-ledger/internal/model"
	"github.com/feltworks/poker-ledger/internal/services/auth"
)

// Payment represents a payment in API responses
type Payment struct {
	ID               string                     `json:"id"`
	PlayerID         string                     `json:"player_id"`
	Type             string                     `json:"type"`
	Amount           decimal.Decimal            `json:"amount"`
	Method           string                     `json:"method"`
	Status           string                     `json:"status"`
	DealerFeeApplied bool                       `json:"dealer_fee_applied"`
	DealerFee        decimal.Decimal            `json:"dealer_fee"`
	PayoutSplit      map[string]decimal.Decimal `json:"payout_split,omitempty"`
	CreatedAt        time.Time                  `json:"created_at"`
	ConfirmedAt      *time.Time                 `json:"confirmed_at,omitempty"`
}

// PaymentFromModel converts a model.Payment to a response Payment
func PaymentFromModel(p *model.Payment) Payment {
	var split map[string]decimal.Decimal
	if len(p.PayoutSplit) > 0 {
		split = make(map[string]decimal.Decimal, len(p.PayoutSplit))
		for method, amount := range p.PayoutSplit {
			split[string(method)] = amount
		}
	}
	return Payment{
		ID:               string(p.ID),
		PlayerID:         string(p.PlayerID),
		Type:             string(p.Type),
		Amount:           p.Amount,
		Method:           string(p.Method),
		Status:           string(p.Status),
		DealerFeeApplied: p.DealerFeeApplied,
		DealerFee:        p.DealerFee,
		PayoutSplit:      split,
		CreatedAt:        p.CreatedAt,
		ConfirmedAt:      p.ConfirmedAt,
	}
}

// PaymentsFromModel converts a slice of model payments
func PaymentsFromModel(payments []*model.Payment) []Payment {
	result := make([]Payment, len(payments))
	for i, p := range payments {
		result[i] = PaymentFromModel(p)
	}
	return result
}

// Player represents a player with their ledger state in API responses.
// Total is the sum of confirmed payments only; the rebuy form reads it
// to show each player's standing.
type Player struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"created_at"`
	Total     decimal.Decimal `json:"total"`
	Payments  []Payment       `json:"payments"`
}

// PlayerFromSummary converts a model.PlayerSummary to a response Player
func PlayerFromSummary(s *model.PlayerSummary) Player {
	return Player{
		ID:        string(s.ID),
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		Total:     s.Total,
		Payments:  PaymentsFromModel(s.Payments),
	}
}

// PlayerCreated is the response for creating a bare player
type PlayerCreated struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayerCreatedFromModel converts a model.Player
func PlayerCreatedFromModel(p *model.Player) PlayerCreated {
	return PlayerCreated{
		ID:        string(p.ID),
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
	}
}

// PaymentSummary is the per-player reconciliation view
type PaymentSummary struct {
	Player
	DealerFeePaid  decimal.Decimal `json:"dealer_fee_paid"`
	ConfirmedCount int             `json:"confirmed_count"`
	PendingCount   int             `json:"pending_count"`
}

// PaymentSummaryFromModel converts a model.PlayerPaymentSummary
func PaymentSummaryFromModel(s *model.PlayerPaymentSummary) PaymentSummary {
	return PaymentSummary{
		Player:         PlayerFromSummary(&s.PlayerSummary),
		DealerFeePaid:  s.DealerFeePaid,
		ConfirmedCount: s.ConfirmedCount,
		PendingCount:   s.PendingCount,
	}
}

// MethodTotals accumulates amount and count for one payment method
type MethodTotals struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// GameStats is the dashboard's aggregate view
type GameStats struct {
	TotalPot        decimal.Decimal         `json:"total_pot"`
	TotalDealerFees decimal.Decimal         `json:"total_dealer_fees"`
	TotalBuyIns     decimal.Decimal         `json:"total_buy_ins"`
	TotalCashOuts   decimal.Decimal         `json:"total_cash_outs"`
	MethodBreakdown map[string]MethodTotals `json:"payment_method_breakdown"`
	PayoutBreakdown map[string]MethodTotals `json:"payout_method_breakdown"`
	PlayerCount     int                     `json:"player_count"`
	PendingCount    int                     `json:"pending_count"`
}

// GameStatsFromModel converts model.GameStats
func GameStatsFromModel(s *model.GameStats) GameStats {
	return GameStats{
		TotalPot:        s.TotalPot,
		TotalDealerFees: s.TotalDealerFees,
		TotalBuyIns:     s.TotalBuyIns,
		TotalCashOuts:   s.TotalCashOuts,
		MethodBreakdown: breakdownFromModel(s.MethodBreakdown),
		PayoutBreakdown: breakdownFromModel(s.PayoutBreakdown),
		PlayerCount:     s.PlayerCount,
		PendingCount:    s.PendingCount,
	}
}

func breakdownFromModel(breakdown map[model.PaymentMethod]model.MethodTotals) map[string]MethodTotals {
	result := make(map[string]MethodTotals, len(breakdown))
	for method, totals := range breakdown {
		result[string(method)] = MethodTotals{Total: totals.Total, Count: totals.Count}
	}
	return result
}

// Rebuy is the response for a processed rebuy submission
type Rebuy struct {
	Payment       Payment       `json:"payment"`
	Player        PlayerCreated `json:"player"`
	PlayerCreated bool          `json:"player_created"`
}

// HostAuth is the response for a successful host login
type HostAuth struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// HostAuthFromSession creates a HostAuth from a session
func HostAuthFromSession(s *auth.Session) HostAuth {
	return HostAuth{
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}
