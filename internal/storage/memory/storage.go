package memory

import (
	"context"
	"sync"
	"time"

	"github.com/feltworks/poker-ledger/internal/model"
	"github.com/feltworks/poker-ledger/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values handed back to callers are copies, so a concurrent confirmation
// never mutates a payment a reader already holds.
type Storage struct {
	mu sync.RWMutex

	players     map[model.PlayerID]*model.Player
	playerOrder []model.PlayerID
	nameIndex   map[string]model.PlayerID

	payments       map[model.PaymentID]*model.Payment
	paymentOrder   []model.PaymentID
	playerPayments map[model.PlayerID][]model.PaymentID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:        make(map[model.PlayerID]*model.Player),
		nameIndex:      make(map[string]model.PlayerID),
		payments:       make(map[model.PaymentID]*model.Payment),
		playerPayments: make(map[model.PlayerID][]model.PaymentID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[player.ID]; !ok {
		s.playerOrder = append(s.playerOrder, player.ID)
	}
	cp := *player
	s.players[player.ID] = &cp
	s.nameIndex[model.NormalizeName(player.Name)] = player.ID
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	cp := *player
	return &cp, nil
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.nameIndex[model.NormalizeName(name)]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	cp := *player
	return &cp, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]*model.Player, 0, len(s.playerOrder))
	for _, id := range s.playerOrder {
		if player, ok := s.players[id]; ok {
			cp := *player
			players = append(players, &cp)
		}
	}
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.players[id]
	if !ok {
		return model.ErrPlayerNotFound
	}

	// Cascade: remove all payments owned by this player
	for _, paymentID := range s.playerPayments[id] {
		delete(s.payments, paymentID)
		s.paymentOrder = removeID(s.paymentOrder, paymentID)
	}
	delete(s.playerPayments, id)

	delete(s.nameIndex, model.NormalizeName(player.Name))
	delete(s.players, id)
	s.playerOrder = removeID(s.playerOrder, id)
	return nil
}

// Payment operations

func (s *Storage) SavePayment(ctx context.Context, payment *model.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[payment.PlayerID]; !ok {
		return model.ErrPlayerNotFound
	}
	if _, ok := s.payments[payment.ID]; !ok {
		s.paymentOrder = append(s.paymentOrder, payment.ID)
		s.playerPayments[payment.PlayerID] = append(s.playerPayments[payment.PlayerID], payment.ID)
	}
	s.payments[payment.ID] = payment.Clone()
	return nil
}

func (s *Storage) GetPayment(ctx context.Context, id model.PaymentID) (*model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payment, ok := s.payments[id]
	if !ok {
		return nil, model.ErrPaymentNotFound
	}
	return payment.Clone(), nil
}

func (s *Storage) DeletePayment(ctx context.Context, id model.PaymentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[id]
	if !ok {
		return model.ErrPaymentNotFound
	}

	delete(s.payments, id)
	s.paymentOrder = removeID(s.paymentOrder, id)
	s.playerPayments[payment.PlayerID] = removeID(s.playerPayments[payment.PlayerID], id)
	return nil
}

func (s *Storage) ListPaymentsForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.players[playerID]; !ok {
		return nil, model.ErrPlayerNotFound
	}

	ids := s.playerPayments[playerID]
	payments := make([]*model.Payment, 0, len(ids))
	for _, id := range ids {
		if payment, ok := s.payments[id]; ok {
			payments = append(payments, payment.Clone())
		}
	}
	return payments, nil
}

func (s *Storage) ListPayments(ctx context.Context) ([]*model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payments := make([]*model.Payment, 0, len(s.paymentOrder))
	for _, id := range s.paymentOrder {
		if payment, ok := s.payments[id]; ok {
			payments = append(payments, payment.Clone())
		}
	}
	return payments, nil
}

func (s *Storage) ConfirmPayment(ctx context.Context, id model.PaymentID, split model.MethodSplit, at time.Time) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[id]
	if !ok {
		return nil, model.ErrPaymentNotFound
	}
	if payment.Status != model.StatusPending {
		return nil, model.ErrPaymentAlreadyConfirmed
	}

	payment.Status = model.StatusConfirmed
	payment.ConfirmedAt = &at
	if len(split) > 0 {
		payment.PayoutSplit = split
	}
	return payment.Clone(), nil
}

// removeID removes the first occurrence of id from ids, preserving order
func removeID[T comparable](ids []T, id T) []T {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
