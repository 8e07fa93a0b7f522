package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/feltworks/poker-ledger/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) player(id, name string) *model.Player {
	return &model.Player{
		ID:        model.PlayerID(id),
		Name:      name,
		CreatedAt: time.Date(2024, 1, 1, 19, 0, 0, 0, time.UTC),
	}
}

func (s *StorageSuite) payment(id, playerID string, paymentType model.PaymentType) *model.Payment {
	return &model.Payment{
		ID:        model.PaymentID(id),
		PlayerID:  model.PlayerID(playerID),
		Type:      paymentType,
		Amount:    decimal.NewFromInt(100),
		Method:    model.MethodVenmo,
		Status:    model.StatusPending,
		DealerFee: decimal.Zero,
		CreatedAt: time.Date(2024, 1, 1, 19, 0, 0, 0, time.UTC),
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := s.player("player-1", "Alice")

	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal("Alice", retrieved.Name)
	s.True(player.CreatedAt.Equal(retrieved.CreatedAt))
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGetPlayerByNameIsCaseInsensitive() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.player("player-1", "Alice")))

	retrieved, err := s.storage.GetPlayerByName(s.ctx, " ALICE")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), retrieved.ID)
}

func (s *StorageSuite) TestListPlayersPreservesInsertionOrder() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.player("player-2", "Bob")))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.player("player-1", "Alice")))

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal("Bob", players[0].Name)
	s.Equal("Alice", players[1].Name)
}

func (s *StorageSuite) TestResaveDoesNotDuplicateListEntry() {
	player := s.player("player-1", "Alice")
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 1)
}

func (s *StorageSuite) TestDeletePlayerCascades() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.player("player-1", "Alice")))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.player("player-2", "Bob")))
	s.Require().NoError(s.storage.SavePayment(s.ctx, s.payment("pay-1", "player-1", model.PaymentTypeBuyIn)))
	s.Require().NoError(s.storage.SavePayment(s.ctx, s.payment("pay-2", "player-2", model.PaymentTypeBuyIn)))

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "player-1"))

	_, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.storage.GetPayment(s.ctx, "pay-1")
	s.ErrorIs(err, model.ErrPaymentNotFound)
	_, err = s.storage.GetPlayerByName(s.ctx, "Alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	payments, err := s.storage.ListPayments(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(payments, 1)
	s.Equal(model.PaymentID("pay-2"), payments[0].ID)
}

// Payment tests

func (s *StorageSuite) TestSavePaymentRequiresPlayer() {
	err := s.storage.SavePayment(s.ctx, s.payment("pay-1", "nonexistent", model.PaymentTypeBuyIn))
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestSaveAndGetPaymentRoundTripsAmounts() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.player("player-1", "Alice")))

	payment := s.payment("pay-1", "player-1", model.PaymentTypeBuyIn)
	payment.Amount = decimal.NewFromFloat(135.50)
	payment.DealerFeeApplied = true
	payment.DealerFee = decimal.NewFromInt(35)
	s.Require().NoError(s.storage.SavePayment(s.ctx, payment))

	retrieved, err := s.storage.GetPayment(s.ctx, "pay-1")
	s.Require().NoError(err)
	s.True(payment.Amount.Equal(retrieved.Amount))
	s.True(payment.DealerFee.Equal(retrieved.DealerFee))
	s.True(retrieved.DealerFeeApplied)
}

func (s *StorageSuite) TestListPaymentsForPlayer() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.player("player-1", "Alice")))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.player("player-2", "Bob")))
	s.Require().NoError(s.storage.SavePayment(s.ctx, s.payment("pay-1", "player-1", model.PaymentTypeBuyIn)))
	s.Require().NoError(s.storage.SavePayment(s.ctx, s.payment("pay-2", "player-2", model.PaymentTypeBuyIn)))
	s.Require().NoError(s.storage.SavePayment(s.ctx, s.payment("pay-3", "player-1", model.PaymentTypeRebuy)))

	payments, err := s.storage.ListPaymentsForPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Require().Len(payments, 2)
	s.Equal(model.PaymentID("pay-1"), payments[0].ID)
	s.Equal(model.PaymentID("pay-3"), payments[1].ID)
}

func (s *StorageSuite) TestListPaymentsForUnknownPlayer() {
	_, err := s.storage.ListPaymentsForPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePayment() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.player("player-1", "Alice")))
	s.Require().NoError(s.storage.SavePayment(s.ctx, s.payment("pay-1", "player-1", model.PaymentTypeBuyIn)))

	s.Require().NoError(s.storage.DeletePayment(s.ctx, "pay-1"))

	_, err := s.storage.GetPayment(s.ctx, "pay-1")
	s.ErrorIs(err, model.ErrPaymentNotFound)

	payments, _ := s.storage.ListPaymentsForPlayer(s.ctx, "player-1")
	s.Empty(payments)
}

func (s *StorageSuite) TestDeletePaymentNotFound() {
	s.ErrorIs(s.storage.DeletePayment(s.ctx, "nonexistent"), model.ErrPaymentNotFound)
}

func (s *StorageSuite) TestConfirmPayment() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.player("player-1", "Alice")))
	s.Require().NoError(s.storage.SavePayment(s.ctx, s.payment("pay-1", "player-1", model.PaymentTypeCashOut)))

	at := time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)
	split := model.MethodSplit{
		model.MethodCash:  decimal.NewFromInt(60),
		model.MethodVenmo: decimal.NewFromInt(40),
	}

	confirmed, err := s.storage.ConfirmPayment(s.ctx, "pay-1", split, at)
	s.Require().NoError(err)
	s.Equal(model.StatusConfirmed, confirmed.Status)
	s.Require().NotNil(confirmed.ConfirmedAt)
	s.True(at.Equal(*confirmed.ConfirmedAt))

	// The transition is persisted
	retrieved, err := s.storage.GetPayment(s.ctx, "pay-1")
	s.Require().NoError(err)
	s.Equal(model.StatusConfirmed, retrieved.Status)
	s.Len(retrieved.PayoutSplit, 2)
}

func (s *StorageSuite) TestConfirmPaymentTwiceConflicts() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.player("player-1", "Alice")))
	s.Require().NoError(s.storage.SavePayment(s.ctx, s.payment("pay-1", "player-1", model.PaymentTypeBuyIn)))

	_, err := s.storage.ConfirmPayment(s.ctx, "pay-1", nil, time.Now())
	s.Require().NoError(err)

	_, err = s.storage.ConfirmPayment(s.ctx, "pay-1", nil, time.Now())
	s.ErrorIs(err, model.ErrPaymentAlreadyConfirmed)
}

func (s *StorageSuite) TestConfirmPaymentNotFound() {
	_, err := s.storage.ConfirmPayment(s.ctx, "nonexistent", nil, time.Now())
	s.ErrorIs(err, model.ErrPaymentNotFound)
}
