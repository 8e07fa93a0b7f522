package accounting

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/feltworks/poker-ledger/internal/model"
	"github.com/feltworks/poker-ledger/internal/storage"
)

// DefaultDealerFee is the fixed charge taken from a player's first
// buy-in or rebuy, routed to the house rather than the pot.
var DefaultDealerFee = decimal.NewFromInt(35)

// Service computes pot totals and game statistics from the ledger. It
// never mutates payment records; everything here is a pure sum over
// confirmed payments, recomputed at read time.
type Service struct {
	storage storage.Storage
}

// New creates a new accounting service
func New(store storage.Storage) *Service {
	return &Service{storage: store}
}

// Stats computes the full GameStats view from stored payments and players
func (s *Service) Stats(ctx context.Context) (*model.GameStats, error) {
	payments, err := s.storage.ListPayments(ctx)
	if err != nil {
		return nil, err
	}
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	stats := Compute(payments)
	stats.PlayerCount = len(players)
	for _, p := range payments {
		if p.Status == model.StatusPending {
			stats.PendingCount++
		}
	}
	return stats, nil
}

// PotTotal computes the current pot from stored payments
func (s *Service) PotTotal(ctx context.Context) (decimal.Decimal, error) {
	payments, err := s.storage.ListPayments(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return Pot(payments), nil
}

// Compute derives GameStats from a set of payments. Only confirmed
// payments count; summation is order-independent.
func Compute(payments []*model.Payment) *model.GameStats {
	stats := &model.GameStats{
		TotalPot:        decimal.Zero,
		TotalDealerFees: decimal.Zero,
		TotalBuyIns:     decimal.Zero,
		TotalCashOuts:   decimal.Zero,
		MethodBreakdown: make(map[model.PaymentMethod]model.MethodTotals),
		PayoutBreakdown: make(map[model.PaymentMethod]model.MethodTotals),
	}

	for _, p := range payments {
		if p.Status != model.StatusConfirmed {
			continue
		}

		switch {
		case p.Type.IsContribution():
			// The pot receives the amount net of the dealer fee; the
			// gross amount stays in the buy-in total and the player's
			// displayed figure.
			stats.TotalPot = stats.TotalPot.Add(p.Amount.Sub(p.DealerFee))
			stats.TotalBuyIns = stats.TotalBuyIns.Add(p.Amount)
			if p.DealerFeeApplied {
				stats.TotalDealerFees = stats.TotalDealerFees.Add(p.DealerFee)
			}
			addMethod(stats.MethodBreakdown, p.Method, p.Amount)

		case p.Type == model.PaymentTypeCashOut:
			stats.TotalPot = stats.TotalPot.Sub(p.Amount)
			stats.TotalCashOuts = stats.TotalCashOuts.Add(p.Amount)
			if len(p.PayoutSplit) > 0 {
				for method, amount := range p.PayoutSplit {
					addMethod(stats.PayoutBreakdown, method, amount)
				}
			} else {
				addMethod(stats.PayoutBreakdown, p.Method, p.Amount)
			}
		}
	}

	return stats
}

// Pot computes the current pot total: confirmed buy-ins and rebuys net of
// dealer fees, minus confirmed cash-outs.
func Pot(payments []*model.Payment) decimal.Decimal {
	pot := decimal.Zero
	for _, p := range payments {
		if p.Status != model.StatusConfirmed {
			continue
		}
		if p.Type.IsContribution() {
			pot = pot.Add(p.Amount.Sub(p.DealerFee))
		} else if p.Type == model.PaymentTypeCashOut {
			pot = pot.Sub(p.Amount)
		}
	}
	return pot
}

// PlayerTotal computes a player's displayed total from their payments:
// the gross signed sum of confirmed amounts. The dealer fee is not
// subtracted here; the player sees what they put in.
func PlayerTotal(payments []*model.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Status != model.StatusConfirmed {
			continue
		}
		if p.Type.IsContribution() {
			total = total.Add(p.Amount)
		} else if p.Type == model.PaymentTypeCashOut {
			total = total.Sub(p.Amount)
		}
	}
	return total
}

func addMethod(breakdown map[model.PaymentMethod]model.MethodTotals, method model.PaymentMethod, amount decimal.Decimal) {
	totals := breakdown[method]
	totals.Total = totals.Total.Add(amount)
	totals.Count++
	breakdown[method] = totals
}
