package redis

import (
	"fmt"

	"github.com/feltworks/poker-ledger/internal/model"
)

// Key prefix for all ledger data
const keyPrefix = "pokerledger"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playersKey returns the Redis key for the LIST of player IDs in
// insertion order
func playersKey() string {
	return fmt.Sprintf("%s:players", keyPrefix)
}

// nameIndexKey returns the Redis key for the normalized name -> player_id
// index
func nameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:name:%s", keyPrefix, model.NormalizeName(name))
}

// paymentKey returns the Redis key for a Payment
func paymentKey(id model.PaymentID) string {
	return fmt.Sprintf("%s:payment:%s", keyPrefix, id)
}

// paymentsKey returns the Redis key for the LIST of all payment IDs in
// chronological order
func paymentsKey() string {
	return fmt.Sprintf("%s:payments", keyPrefix)
}

// playerPaymentsKey returns the Redis key for the LIST of a player's
// payment IDs in chronological order
func playerPaymentsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:player_payments:%s", keyPrefix, playerID)
}
