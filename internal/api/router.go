package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/feltworks/poker-ledger/internal/api/handler"
	apimiddleware "github.com/feltworks/poker-ledger/internal/api/middleware"
	"github.com/feltworks/poker-ledger/internal/events"
	"github.com/feltworks/poker-ledger/internal/middleware"
	"github.com/feltworks/poker-ledger/internal/services/accounting"
	"github.com/feltworks/poker-ledger/internal/services/auth"
	"github.com/feltworks/poker-ledger/internal/services/confirmation"
	"github.com/feltworks/poker-ledger/internal/services/ledger"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger                 *slog.Logger
	AuthService            *auth.Service
	LedgerController       *ledger.Controller
	ConfirmationController *confirmation.Controller
	AccountingService      *accounting.Service
	Hub                    *events.Hub
	Broadcaster            *events.Broadcaster

	// PublicURL is the externally reachable base URL, used for the
	// rebuy QR code
	PublicURL string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.LedgerController, cfg.Broadcaster)
	paymentHandler := handler.NewPaymentHandler(cfg.LedgerController, cfg.ConfirmationController, cfg.Broadcaster)
	rebuyHandler := handler.NewRebuyHandler(cfg.LedgerController, cfg.Broadcaster)
	cashOutHandler := handler.NewCashOutHandler(cfg.LedgerController, cfg.ConfirmationController, cfg.Broadcaster)
	statsHandler := handler.NewStatsHandler(cfg.AccountingService)
	hostHandler := handler.NewHostHandler(cfg.AuthService)
	qrHandler := handler.NewQRHandler(cfg.PublicURL)
	eventsHandler := handler.NewEventsHandler(cfg.Hub)

	// Create middleware
	hostAuthMiddleware := apimiddleware.HostAuth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// API subrouter; every response under /api is uncacheable
	api := r.PathPrefix("/api").Subrouter()
	api.Use(apimiddleware.NoCache)

	// Open routes: anything a player's phone hits directly
	api.HandleFunc("/test", statsHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/host/login", hostHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)

	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}/buyin", paymentHandler.BuyIn).Methods(http.MethodPost)
	api.HandleFunc("/players/{id}/cashout", cashOutHandler.Request).Methods(http.MethodPost)
	api.HandleFunc("/players/{id}/payment-summary", playerHandler.PaymentSummary).Methods(http.MethodGet)
	api.HandleFunc("/rebuys", rebuyHandler.Process).Methods(http.MethodPost)
	api.HandleFunc("/rebuys/recent", rebuyHandler.ListRecent).Methods(http.MethodGet)
	api.HandleFunc("/pending-payments", paymentHandler.ListPending).Methods(http.MethodGet)
	api.HandleFunc("/pending-cashouts", cashOutHandler.ListPending).Methods(http.MethodGet)
	api.HandleFunc("/cashouts/recent", cashOutHandler.ListRecent).Methods(http.MethodGet)
	api.HandleFunc("/cashouts/history", cashOutHandler.History).Methods(http.MethodGet)
	api.HandleFunc("/game-stats", statsHandler.GameStats).Methods(http.MethodGet)
	api.HandleFunc("/transactions/recent", paymentHandler.ListRecent).Methods(http.MethodGet)

	// Host routes: mutations that change what counts toward the pot
	host := api.NewRoute().Subrouter()
	host.Use(hostAuthMiddleware)
	host.HandleFunc("/players", playerHandler.Create).Methods(http.MethodPost)
	host.HandleFunc("/players/{id}", playerHandler.Delete).Methods(http.MethodDelete)
	host.HandleFunc("/cashouts/{id}/confirm", cashOutHandler.Confirm).Methods(http.MethodPut)
	host.HandleFunc("/players/{id}/payments/{paymentId}/confirm", paymentHandler.Confirm).Methods(http.MethodPut)
	host.HandleFunc("/players/{id}/payments/{paymentId}", paymentHandler.Delete).Methods(http.MethodDelete)

	// QR code for the rebuy page, outside /api so it stays cacheable
	r.HandleFunc("/rebuy/qr.png", qrHandler.RebuyQR).Methods(http.MethodGet)

	return r
}
