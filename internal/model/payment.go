package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentID uniquely identifies a payment record
type PaymentID string

// PaymentType classifies a payment's effect on the pot
type PaymentType string

const (
	PaymentTypeBuyIn   PaymentType = "buyin"
	PaymentTypeRebuy   PaymentType = "rebuy"
	PaymentTypeCashOut PaymentType = "cashout"
)

// ValidPaymentType reports whether t is a known payment type
func ValidPaymentType(t PaymentType) bool {
	switch t {
	case PaymentTypeBuyIn, PaymentTypeRebuy, PaymentTypeCashOut:
		return true
	}
	return false
}

// IsContribution reports whether t adds money to the pot
func (t PaymentType) IsContribution() bool {
	return t == PaymentTypeBuyIn || t == PaymentTypeRebuy
}

// PaymentMethod is how money actually moved, off-band from this system
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "Cash"
	MethodVenmo    PaymentMethod = "Venmo"
	MethodApplePay PaymentMethod = "Apple Pay"
	MethodZelle    PaymentMethod = "Zelle"
	MethodOther    PaymentMethod = "Other"
)

// ValidPaymentMethod reports whether m is a known payment method
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCash, MethodVenmo, MethodApplePay, MethodZelle, MethodOther:
		return true
	}
	return false
}

// PaymentStatus is the two-phase verification state of a payment
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusConfirmed PaymentStatus = "confirmed"
)

// MethodSplit maps payment methods to partial amounts. Used when a single
// cash-out is paid back across several methods; it must sum to the
// payment's amount within SplitEpsilon.
type MethodSplit map[PaymentMethod]decimal.Decimal

// SplitEpsilon is the tolerance when validating that a method split sums
// to a payment's amount.
var SplitEpsilon = decimal.NewFromFloat(0.01)

// Sum returns the total amount across all methods in the split
func (s MethodSplit) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range s {
		total = total.Add(amount)
	}
	return total
}

// Payment is a single ledger entry owned by a player. It is created
// pending and transitions once to confirmed via host action; deletion is
// the only way to void it.
type Payment struct {
	ID       PaymentID     `json:"id"`
	PlayerID PlayerID      `json:"player_id"`
	Type     PaymentType   `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Method   PaymentMethod `json:"method"`
	Status   PaymentStatus `json:"status"`

	// DealerFeeApplied is true on at most one payment per player: their
	// first buy-in or rebuy ever recorded. DealerFee snapshots the fee
	// charged at creation time so later config changes don't rewrite
	// history.
	DealerFeeApplied bool            `json:"dealer_fee_applied"`
	DealerFee        decimal.Decimal `json:"dealer_fee"`

	// PayoutSplit records how a cash-out was actually paid back, per
	// method. Nil unless a split was supplied at confirmation.
	PayoutSplit MethodSplit `json:"payout_split,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

// Clone returns a deep copy of the payment
func (p *Payment) Clone() *Payment {
	cp := *p
	if p.PayoutSplit != nil {
		cp.PayoutSplit = make(MethodSplit, len(p.PayoutSplit))
		for m, a := range p.PayoutSplit {
			cp.PayoutSplit[m] = a
		}
	}
	if p.ConfirmedAt != nil {
		t := *p.ConfirmedAt
		cp.ConfirmedAt = &t
	}
	return &cp
}
