package request

import "github.com/shopspring/decimal"

// CreatePlayerRequest is the request body for creating a player
type CreatePlayerRequest struct {
	Name string `json:"name"`
}

// BuyInRequest is the request body for adding a buy-in to a player
type BuyInRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
}

// RebuyRequest is the request body submitted by the rebuy form. The
// player is resolved by name and created if unknown.
type RebuyRequest struct {
	PlayerName string          `json:"player_name"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
}

// CashOutRequest is the request body for requesting a cash-out
type CashOutRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
}

// ConfirmRequest is the request body for confirming a payment. The
// method split is optional and only valid for cash-outs.
type ConfirmRequest struct {
	MethodSplit map[string]decimal.Decimal `json:"method_split,omitempty"`
}

// HostLoginRequest is the request body for exchanging the host PIN for a
// session token
type HostLoginRequest struct {
	PIN string `json:"pin"`
}
