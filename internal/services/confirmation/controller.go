package confirmation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/feltworks/poker-ledger/internal/dependencies/clock"
	"github.com/feltworks/poker-ledger/internal/model"
	"github.com/feltworks/poker-ledger/internal/services/accounting"
	"github.com/feltworks/poker-ledger/internal/storage"
)

// Controller runs the pending -> confirmed workflow. It is the only
// component allowed to transition payment status; the transition itself
// is a status-guarded conditional update in storage, so a second
// confirmation of the same payment always fails.
type Controller struct {
	storage    storage.Storage
	accounting *accounting.Service
	clock      clock.Clock
	logger     *slog.Logger
}

// NewController creates a new confirmation controller
func NewController(store storage.Storage, acct *accounting.Service, clk clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		storage:    store,
		accounting: acct,
		clock:      clk,
		logger:     logger,
	}
}

// Confirm transitions a payment from pending to confirmed.
//
// For cash-outs an optional method split may record how the payout was
// actually distributed; it must sum to the payment amount within
// model.SplitEpsilon. Cash-out coverage is re-checked against the live
// pot at confirmation time, since the pot may have shrunk while the
// payment sat pending.
func (c *Controller) Confirm(ctx context.Context, paymentID model.PaymentID, split model.MethodSplit) (*model.Payment, error) {
	payment, err := c.storage.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if len(split) > 0 {
		if payment.Type != model.PaymentTypeCashOut {
			return nil, model.ErrSplitNotAllowed
		}
		for method := range split {
			if !model.ValidPaymentMethod(method) {
				return nil, fmt.Errorf("%w: %q", model.ErrInvalidPaymentMethod, method)
			}
		}
		diff := split.Sum().Sub(payment.Amount).Abs()
		if diff.GreaterThan(model.SplitEpsilon) {
			return nil, fmt.Errorf("%w: split totals %s, payment is %s",
				model.ErrSplitMismatch, split.Sum(), payment.Amount)
		}
	}

	if payment.Type == model.PaymentTypeCashOut && payment.Status == model.StatusPending {
		pot, err := c.accounting.PotTotal(ctx)
		if err != nil {
			return nil, err
		}
		if payment.Amount.GreaterThan(pot) {
			return nil, fmt.Errorf("%w: requested %s, available %s",
				model.ErrCashOutExceedsPot, payment.Amount, pot)
		}
	}

	confirmed, err := c.storage.ConfirmPayment(ctx, paymentID, split, c.clock.Now())
	if err != nil {
		return nil, err
	}

	c.logger.Info("payment confirmed",
		slog.String("payment_id", string(confirmed.ID)),
		slog.String("player_id", string(confirmed.PlayerID)),
		slog.String("type", string(confirmed.Type)),
		slog.String("amount", confirmed.Amount.String()))
	return confirmed, nil
}

// ConfirmForPlayer confirms a payment after verifying it belongs to the
// given player, matching the player-scoped confirm route.
func (c *Controller) ConfirmForPlayer(ctx context.Context, playerID model.PlayerID, paymentID model.PaymentID, split model.MethodSplit) (*model.Payment, error) {
	payment, err := c.storage.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.PlayerID != playerID {
		return nil, model.ErrPaymentNotFound
	}
	return c.Confirm(ctx, paymentID, split)
}
