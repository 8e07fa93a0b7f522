package storage

import (
	"context"
	"time"

	"github.com/feltworks/poker-ledger/internal/model"
)

// Storage defines the interface for ledger persistence.
//
// Every mutation is atomic with respect to other mutations. Ordered
// queries return insertion order, which is chronological order for
// payments.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	// GetPlayerByName looks up a player by normalized (trimmed,
	// case-insensitive) name.
	GetPlayerByName(ctx context.Context, name string) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	// DeletePlayer removes the player and cascades to all their payments.
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Payment operations
	SavePayment(ctx context.Context, payment *model.Payment) error
	GetPayment(ctx context.Context, id model.PaymentID) (*model.Payment, error)
	DeletePayment(ctx context.Context, id model.PaymentID) error
	ListPaymentsForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Payment, error)
	ListPayments(ctx context.Context) ([]*model.Payment, error)

	// ConfirmPayment transitions a payment pending -> confirmed as a
	// single conditional update: it fails with
	// model.ErrPaymentAlreadyConfirmed unless the current status is still
	// pending, so two concurrent confirmations cannot both succeed. The
	// split (may be nil) and confirmation time are recorded with the
	// transition.
	ConfirmPayment(ctx context.Context, id model.PaymentID, split model.MethodSplit, at time.Time) (*model.Payment, error)
}
