package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feltworks/poker-ledger/internal/dependencies/clock"
	"github.com/feltworks/poker-ledger/internal/events"
	"github.com/feltworks/poker-ledger/internal/services/accounting"
	"github.com/feltworks/poker-ledger/internal/services/auth"
	"github.com/feltworks/poker-ledger/internal/services/confirmation"
	"github.com/feltworks/poker-ledger/internal/services/ledger"
	"github.com/feltworks/poker-ledger/internal/storage"
	"github.com/feltworks/poker-ledger/internal/storage/memory"
	redisstorage "github.com/feltworks/poker-ledger/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	AccountingService      *accounting.Service
	LedgerController       *ledger.Controller
	ConfirmationController *confirmation.Controller
	AuthService            *auth.Service
	Hub                    *events.Hub
	Broadcaster            *events.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// HostPIN is the shared host PIN (required)
	HostPIN string
	// SessionDuration for host sessions (optional)
	// If zero, defaults to auth.DefaultSessionDuration
	SessionDuration time.Duration
	// DealerFee charged on first buy-in/rebuy (optional)
	// If zero, defaults to accounting.DefaultDealerFee
	DealerFee decimal.Decimal
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()

	return newWithDependencies(store, clk, cfg, logger)
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, cfg Config, logger *slog.Logger) (*App, error) {
	authService, err := auth.New(auth.Config{
		PIN:             cfg.HostPIN,
		SessionDuration: cfg.SessionDuration,
	}, clk)
	if err != nil {
		return nil, err
	}

	accountingService := accounting.New(store)
	ledgerController := ledger.NewController(store, accountingService, clk, logger, cfg.DealerFee)
	confirmationController := confirmation.NewController(store, accountingService, clk, logger)

	hub := events.NewHub(logger)
	broadcaster := events.NewBroadcaster(hub, clk, logger)

	return &App{
		Storage:                store,
		Clock:                  clk,
		AccountingService:      accountingService,
		LedgerController:       ledgerController,
		ConfirmationController: confirmationController,
		AuthService:            authService,
		Hub:                    hub,
		Broadcaster:            broadcaster,
	}, nil
}
