package model

import "github.com/shopspring/decimal"

// MethodTotals accumulates amount and count for a single payment method
type MethodTotals struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// GameStats is the derived, never-stored view of the whole ledger,
// computed purely from confirmed payments.
//
// Buy-in inflow and cash-out outflow are bucketed separately
// (MethodBreakdown vs PayoutBreakdown) so a method's totals never mix
// signs.
type GameStats struct {
	TotalPot        decimal.Decimal `json:"total_pot"`
	TotalDealerFees decimal.Decimal `json:"total_dealer_fees"`
	TotalBuyIns     decimal.Decimal `json:"total_buy_ins"`
	TotalCashOuts   decimal.Decimal `json:"total_cash_outs"`

	MethodBreakdown map[PaymentMethod]MethodTotals `json:"payment_method_breakdown"`
	PayoutBreakdown map[PaymentMethod]MethodTotals `json:"payout_method_breakdown"`

	PlayerCount  int `json:"player_count"`
	PendingCount int `json:"pending_count"`
}
