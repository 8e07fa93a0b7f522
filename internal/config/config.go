package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all environment-driven server settings
type Config struct {
	// Port the HTTP server listens on
	Port int
	// StorageType selects the storage backend ("memory" or "redis")
	StorageType string
	// RedisURL is the Redis connection URL (required when StorageType is "redis")
	RedisURL string
	// HostPIN is the shared host PIN; the server refuses to start without one
	HostPIN string
	// SessionDuration is how long a host session stays valid
	SessionDuration time.Duration
	// PublicURL is the externally reachable base URL, used for the rebuy QR code
	PublicURL string
	// DealerFee is charged on each player's first buy-in or rebuy
	DealerFee decimal.Decimal
}

const defaultPort = 8080

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment
// variables take precedence over it.
func Load() (*Config, error) {
	// Missing .env is fine, env vars alone are enough
	_ = godotenv.Load()

	cfg := &Config{
		Port:        defaultPort,
		StorageType: os.Getenv("STORAGE_TYPE"),
		RedisURL:    os.Getenv("REDIS_URL"),
		HostPIN:     os.Getenv("HOST_PIN"),
		PublicURL:   os.Getenv("PUBLIC_URL"),
	}

	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", raw)
		}
		cfg.Port = port
	}

	if raw := os.Getenv("SESSION_DURATION"); raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_DURATION %q: %w", raw, err)
		}
		cfg.SessionDuration = duration
	}

	if raw := os.Getenv("DEALER_FEE"); raw != "" {
		fee, err := decimal.NewFromString(raw)
		if err != nil || fee.IsNegative() {
			return nil, fmt.Errorf("invalid DEALER_FEE %q", raw)
		}
		cfg.DealerFee = fee
	}

	if cfg.HostPIN == "" {
		return nil, fmt.Errorf("HOST_PIN must be set")
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
