package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/feltworks/poker-ledger/internal/dependencies/clock"
	"github.com/feltworks/poker-ledger/internal/model"
	"github.com/feltworks/poker-ledger/internal/services/accounting"
	"github.com/feltworks/poker-ledger/internal/storage"
)

// DefaultRecentLimit caps recent-payment queries when the caller does not
// supply a limit
const DefaultRecentLimit = 15

// Controller owns all ledger mutations: player lifecycle and payment
// creation/deletion. Confirmation is the confirmation package's job; this
// controller never transitions payment status.
type Controller struct {
	storage    storage.Storage
	accounting *accounting.Service
	clock      clock.Clock
	logger     *slog.Logger
	dealerFee  decimal.Decimal

	// mu serializes payment creation so the first-transaction dealer-fee
	// check and the insert happen as one unit, and the cash-out pot check
	// cannot race another submission.
	mu sync.Mutex
}

// NewController creates a new ledger controller
func NewController(
	store storage.Storage,
	acct *accounting.Service,
	clk clock.Clock,
	logger *slog.Logger,
	dealerFee decimal.Decimal,
) *Controller {
	if dealerFee.IsZero() {
		dealerFee = accounting.DefaultDealerFee
	}
	return &Controller{
		storage:    store,
		accounting: acct,
		clock:      clk,
		logger:     logger,
		dealerFee:  dealerFee,
	}
}

// CreatePlayer adds a new player to the game. Names are unique
// case-insensitively after trimming.
func (c *Controller) CreatePlayer(ctx context.Context, name string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrEmptyPlayerName
	}

	_, err := c.storage.GetPlayerByName(ctx, name)
	if err == nil {
		return nil, fmt.Errorf("%w: %q", model.ErrPlayerNameTaken, name)
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	player := &model.Player{
		ID:        model.PlayerID(uuid.NewString()),
		Name:      name,
		CreatedAt: c.clock.Now(),
	}
	if err := c.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	c.logger.Info("player created",
		slog.String("player_id", string(player.ID)),
		slog.String("name", player.Name))
	return player, nil
}

// GetPlayer retrieves a player by ID
func (c *Controller) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return c.storage.GetPlayer(ctx, id)
}

// DeletePlayer removes a player and all their payments. Their effect on
// the pot disappears with them since totals are recomputed from stored
// payments.
func (c *Controller) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	if err := c.storage.DeletePlayer(ctx, id); err != nil {
		return err
	}
	c.logger.Info("player deleted", slog.String("player_id", string(id)))
	return nil
}

// AddPayment creates a pending payment for a player.
//
// For the player's first buy-in or rebuy ever, the dealer fee is applied
// and snapshot onto the record. Cash-outs are checked against the live
// pot before any state changes: a player may cash out more than they put
// in (winnings), but never more than the pot holds.
func (c *Controller) AddPayment(ctx context.Context, playerID model.PlayerID, paymentType model.PaymentType, amount decimal.Decimal, method model.PaymentMethod) (*model.Payment, error) {
	if !model.ValidPaymentType(paymentType) {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidPaymentType, paymentType)
	}
	if !model.ValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidPaymentMethod, method)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", model.ErrInvalidAmount, amount)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.storage.ListPaymentsForPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	payment := &model.Payment{
		ID:        model.PaymentID(uuid.NewString()),
		PlayerID:  playerID,
		Type:      paymentType,
		Amount:    amount,
		Method:    method,
		Status:    model.StatusPending,
		DealerFee: decimal.Zero,
		CreatedAt: c.clock.Now(),
	}

	switch {
	case paymentType.IsContribution():
		if !hasContribution(existing) {
			payment.DealerFeeApplied = true
			payment.DealerFee = c.dealerFee
		}
	case paymentType == model.PaymentTypeCashOut:
		pot, err := c.accounting.PotTotal(ctx)
		if err != nil {
			return nil, err
		}
		if amount.GreaterThan(pot) {
			return nil, fmt.Errorf("%w: requested %s, available %s",
				model.ErrCashOutExceedsPot, amount, pot)
		}
	}

	if err := c.storage.SavePayment(ctx, payment); err != nil {
		return nil, err
	}

	c.logger.Info("payment created",
		slog.String("payment_id", string(payment.ID)),
		slog.String("player_id", string(playerID)),
		slog.String("type", string(paymentType)),
		slog.String("amount", amount.String()),
		slog.Bool("dealer_fee_applied", payment.DealerFeeApplied))
	return payment, nil
}

// RequestCashOut creates a pending cash-out after checking pot coverage
func (c *Controller) RequestCashOut(ctx context.Context, playerID model.PlayerID, amount decimal.Decimal, method model.PaymentMethod) (*model.Payment, error) {
	return c.AddPayment(ctx, playerID, model.PaymentTypeCashOut, amount, method)
}

// ProcessRebuy handles a submission from the rebuy form: it resolves the
// player by name, creating them if they don't exist yet, and records the
// contribution. The payment is typed buyin for a player's first
// contribution and rebuy afterwards. Returns the payment, the player, and
// whether the player was created by this call.
func (c *Controller) ProcessRebuy(ctx context.Context, playerName string, amount decimal.Decimal, method model.PaymentMethod) (*model.Payment, *model.Player, bool, error) {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return nil, nil, false, model.ErrEmptyPlayerName
	}

	created := false
	player, err := c.storage.GetPlayerByName(ctx, playerName)
	if errors.Is(err, model.ErrPlayerNotFound) {
		player, err = c.CreatePlayer(ctx, playerName)
		created = true
	}
	if err != nil {
		return nil, nil, false, err
	}

	existing, err := c.storage.ListPaymentsForPlayer(ctx, player.ID)
	if err != nil {
		return nil, nil, false, err
	}
	paymentType := model.PaymentTypeRebuy
	if !hasContribution(existing) {
		paymentType = model.PaymentTypeBuyIn
	}

	payment, err := c.AddPayment(ctx, player.ID, paymentType, amount, method)
	if err != nil {
		return nil, nil, false, err
	}
	return payment, player, created, nil
}

// GetPayment retrieves a payment owned by the given player
func (c *Controller) GetPayment(ctx context.Context, playerID model.PlayerID, paymentID model.PaymentID) (*model.Payment, error) {
	payment, err := c.storage.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.PlayerID != playerID {
		return nil, model.ErrPaymentNotFound
	}
	return payment, nil
}

// DeletePayment removes a payment at any status, fully reversing its
// contribution to the derived totals
func (c *Controller) DeletePayment(ctx context.Context, playerID model.PlayerID, paymentID model.PaymentID) (*model.Payment, error) {
	payment, err := c.GetPayment(ctx, playerID, paymentID)
	if err != nil {
		return nil, err
	}
	if err := c.storage.DeletePayment(ctx, paymentID); err != nil {
		return nil, err
	}

	c.logger.Info("payment deleted",
		slog.String("payment_id", string(paymentID)),
		slog.String("player_id", string(playerID)),
		slog.String("status", string(payment.Status)))
	return payment, nil
}

// PlayerSummaries lists all players in seating (insertion) order with
// their payments and confirmed totals
func (c *Controller) PlayerSummaries(ctx context.Context) ([]*model.PlayerSummary, error) {
	players, err := c.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.PlayerSummary, 0, len(players))
	for _, player := range players {
		payments, err := c.storage.ListPaymentsForPlayer(ctx, player.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &model.PlayerSummary{
			Player:   *player,
			Total:    accounting.PlayerTotal(payments),
			Payments: payments,
		})
	}
	return summaries, nil
}

// PlayerPaymentSummary builds the per-player reconciliation view
func (c *Controller) PlayerPaymentSummary(ctx context.Context, playerID model.PlayerID) (*model.PlayerPaymentSummary, error) {
	player, err := c.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	payments, err := c.storage.ListPaymentsForPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	summary := &model.PlayerPaymentSummary{
		PlayerSummary: model.PlayerSummary{
			Player:   *player,
			Total:    accounting.PlayerTotal(payments),
			Payments: payments,
		},
		DealerFeePaid: decimal.Zero,
	}
	for _, p := range payments {
		switch p.Status {
		case model.StatusConfirmed:
			summary.ConfirmedCount++
			if p.DealerFeeApplied {
				summary.DealerFeePaid = summary.DealerFeePaid.Add(p.DealerFee)
			}
		case model.StatusPending:
			summary.PendingCount++
		}
	}
	return summary, nil
}

// PendingPayments lists pending payments in chronological order,
// optionally filtered by type
func (c *Controller) PendingPayments(ctx context.Context, types ...model.PaymentType) ([]*model.Payment, error) {
	payments, err := c.storage.ListPayments(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]*model.Payment, 0)
	for _, p := range payments {
		if p.Status == model.StatusPending && matchesType(p, types) {
			pending = append(pending, p)
		}
	}
	return pending, nil
}

// RecentPayments lists payments newest-first, optionally filtered by type
// and status, capped at limit (0 means DefaultRecentLimit, negative means
// unlimited).
func (c *Controller) RecentPayments(ctx context.Context, limit int, status model.PaymentStatus, types ...model.PaymentType) ([]*model.Payment, error) {
	payments, err := c.storage.ListPayments(ctx)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = DefaultRecentLimit
	}

	recent := make([]*model.Payment, 0)
	for i := len(payments) - 1; i >= 0; i-- {
		p := payments[i]
		if status != "" && p.Status != status {
			continue
		}
		if !matchesType(p, types) {
			continue
		}
		recent = append(recent, p)
		if limit > 0 && len(recent) >= limit {
			break
		}
	}
	return recent, nil
}

func hasContribution(payments []*model.Payment) bool {
	for _, p := range payments {
		if p.Type.IsContribution() {
			return true
		}
	}
	return false
}

func matchesType(p *model.Payment, types []model.PaymentType) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if p.Type == t {
			return true
		}
	}
	return false
}
