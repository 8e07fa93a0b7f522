package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/feltworks/poker-ledger/internal/model"
	"github.com/feltworks/poker-ledger/internal/storage"
)

// confirmRetries bounds optimistic-lock retries on ConfirmPayment
const confirmRetries = 3

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	exists, err := s.client.Exists(ctx, playerKey(player.ID)).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, playerKey(player.ID), data, 0)
	pipe.Set(ctx, nameIndexKey(player.Name), string(player.ID), 0)
	if exists == 0 {
		pipe.RPush(ctx, playersKey(), string(player.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	playerID, err := s.client.Get(ctx, nameIndexKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetPlayer(ctx, model.PlayerID(playerID))
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.LRange(ctx, playersKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(ids))
	for _, id := range ids {
		player, err := s.GetPlayer(ctx, model.PlayerID(id))
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				continue
			}
			return nil, err
		}
		players = append(players, player)
	}
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	player, err := s.GetPlayer(ctx, id)
	if err != nil {
		return err
	}

	paymentIDs, err := s.client.LRange(ctx, playerPaymentsKey(id), 0, -1).Result()
	if err != nil {
		return err
	}

	// Cascade: payments, indexes, then the player itself
	pipe := s.client.TxPipeline()
	for _, pid := range paymentIDs {
		pipe.Del(ctx, paymentKey(model.PaymentID(pid)))
		pipe.LRem(ctx, paymentsKey(), 0, pid)
	}
	pipe.Del(ctx, playerPaymentsKey(id))
	pipe.Del(ctx, nameIndexKey(player.Name))
	pipe.Del(ctx, playerKey(id))
	pipe.LRem(ctx, playersKey(), 0, string(id))
	_, err = pipe.Exec(ctx)
	return err
}

// Payment operations

func (s *Storage) SavePayment(ctx context.Context, payment *model.Payment) error {
	exists, err := s.client.Exists(ctx, playerKey(payment.PlayerID)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return model.ErrPlayerNotFound
	}

	data, err := json.Marshal(payment)
	if err != nil {
		return err
	}

	isNew, err := s.client.Exists(ctx, paymentKey(payment.ID)).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, paymentKey(payment.ID), data, 0)
	if isNew == 0 {
		pipe.RPush(ctx, paymentsKey(), string(payment.ID))
		pipe.RPush(ctx, playerPaymentsKey(payment.PlayerID), string(payment.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPayment(ctx context.Context, id model.PaymentID) (*model.Payment, error) {
	data, err := s.client.Get(ctx, paymentKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPaymentNotFound
		}
		return nil, err
	}

	var payment model.Payment
	if err := json.Unmarshal(data, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *Storage) DeletePayment(ctx context.Context, id model.PaymentID) error {
	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, paymentKey(id))
	pipe.LRem(ctx, paymentsKey(), 0, string(id))
	pipe.LRem(ctx, playerPaymentsKey(payment.PlayerID), 0, string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListPaymentsForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Payment, error) {
	exists, err := s.client.Exists(ctx, playerKey(playerID)).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, model.ErrPlayerNotFound
	}

	ids, err := s.client.LRange(ctx, playerPaymentsKey(playerID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return s.getPayments(ctx, ids)
}

func (s *Storage) ListPayments(ctx context.Context) ([]*model.Payment, error) {
	ids, err := s.client.LRange(ctx, paymentsKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return s.getPayments(ctx, ids)
}

func (s *Storage) getPayments(ctx context.Context, ids []string) ([]*model.Payment, error) {
	payments := make([]*model.Payment, 0, len(ids))
	for _, id := range ids {
		payment, err := s.GetPayment(ctx, model.PaymentID(id))
		if err != nil {
			if errors.Is(err, model.ErrPaymentNotFound) {
				continue
			}
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, nil
}

// ConfirmPayment performs the status-guarded transition under an
// optimistic WATCH transaction so concurrent confirmations of the same
// payment cannot both succeed.
func (s *Storage) ConfirmPayment(ctx context.Context, id model.PaymentID, split model.MethodSplit, at time.Time) (*model.Payment, error) {
	var confirmed *model.Payment

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, paymentKey(id)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrPaymentNotFound
			}
			return err
		}

		var payment model.Payment
		if err := json.Unmarshal(data, &payment); err != nil {
			return err
		}
		if payment.Status != model.StatusPending {
			return model.ErrPaymentAlreadyConfirmed
		}

		payment.Status = model.StatusConfirmed
		payment.ConfirmedAt = &at
		if len(split) > 0 {
			payment.PayoutSplit = split
		}

		updated, err := json.Marshal(&payment)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, paymentKey(id), updated, 0)
			return nil
		})
		if err != nil {
			return err
		}

		confirmed = &payment
		return nil
	}

	var err error
	for i := 0; i < confirmRetries; i++ {
		err = s.client.Watch(ctx, txn, paymentKey(id))
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return confirmed, nil
}
