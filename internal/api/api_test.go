package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feltworks/poker-ledger/internal/api"
	"github.com/feltworks/poker-ledger/internal/api/apierr"
	"github.com/feltworks/poker-ledger/internal/api/response"
	"github.com/feltworks/poker-ledger/internal/factory"
	"github.com/feltworks/poker-ledger/internal/testutil"
)

// testServer wires the full router over an in-memory app
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	go app.Hub.Run()
	t.Cleanup(app.Hub.Close)

	router := api.NewRouter(api.RouterConfig{
		Logger:                 testutil.NopLogger(),
		AuthService:            app.AuthService,
		LedgerController:       app.LedgerController,
		ConfirmationController: app.ConfirmationController,
		AccountingService:      app.AccountingService,
		Hub:                    app.Hub,
		Broadcaster:            app.Broadcaster,
		PublicURL:              "http://localhost:8080",
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func hostLogin(t *testing.T, ts *testServer) string {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/host/login", map[string]string{"pin": factory.TestHostPIN}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.HostAuth
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionToken)
	return resp.SessionToken
}

func createPlayer(t *testing.T, ts *testServer, token, name string) string {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/players", map[string]string{"name": name}, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.PlayerCreated
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.ID
}

// confirmedBuyIn creates a player, submits a buy-in, and confirms it
func confirmedBuyIn(t *testing.T, ts *testServer, token, name string, amount float64) string {
	t.Helper()

	playerID := createPlayer(t, ts, token, name)
	rr := ts.request(http.MethodPost, "/api/players/"+playerID+"/buyin",
		map[string]any{"amount": amount, "method": "Cash"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var payment response.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payment))

	rr = ts.request(http.MethodPut, "/api/players/"+playerID+"/payments/"+payment.ID+"/confirm", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	return playerID
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/test", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestHostLogin(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/host/login", map[string]string{"pin": factory.TestHostPIN}, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.HostAuth
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionToken)
	assert.True(t, resp.ExpiresAt.After(ts.app.MockClock.Now()))

	// The session also comes back as a cookie for browser clients
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "host_session", cookies[0].Name)
	assert.Equal(t, resp.SessionToken, cookies[0].Value)
}

func TestHostLoginWrongPIN(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/host/login", map[string]string{"pin": "0000"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidPIN, errorCode(t, rr))
}

func TestHostRoutesRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/players", map[string]string{"name": "Alice"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeUnauthorized, errorCode(t, rr))

	rr = ts.request(http.MethodDelete, "/api/players/some-id", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPut, "/api/cashouts/some-id/confirm", nil, "bogus-token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCookieAuthWorksForHostRoutes(t *testing.T) {
	ts := newTestServer(t)
	token := hostLogin(t, ts)

	body, _ := json.Marshal(map[string]string{"name": "Alice"})
	req := httptest.NewRequest(http.MethodPost, "/api/players", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "host_session", Value: token})

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestCreatePlayer(t *testing.T) {
	ts := newTestServer(t)
	token := hostLogin(t, ts)

	rr := ts.request(http.MethodPost, "/api/players", map[string]string{"name": "Alice"}, token)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.PlayerCreated
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Alice", resp.Name)

	// Duplicate name, case-insensitive
	rr = ts.request(http.MethodPost, "/api/players", map[string]string{"name": " alice "}, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNameTaken, errorCode(t, rr))
}

func TestListPlayers(t *testing.T) {
	ts := newTestServer(t)
	token := hostLogin(t, ts)

	createPlayer(t, ts, token, "Alice")
	createPlayer(t, ts, token, "Bob")

	rr := ts.request(http.MethodGet, "/api/players", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var players []response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	require.Len(t, players, 2)
	assert.Equal(t, "Alice", players[0].Name)
	assert.Equal(t, "Bob", players[1].Name)
}

func TestBuyInAndConfirmFlow(t *testing.T) {
	ts := newTestServer(t)
	token := hostLogin(t, ts)
	playerID := createPlayer(t, ts, token, "Alice")

	// First buy-in carries the dealer fee and starts pending
	rr := ts.request(http.MethodPost, "/api/players/"+playerID+"/buyin",
		map[string]any{"amount": 135, "method": "Cash"}, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var payment response.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payment))
	assert.Equal(t, "buyin", payment.Type)
	assert.Equal(t, "pending", payment.Status)
	assert.True(t, payment.DealerFeeApplied)
	assert.True(t, payment.DealerFee.Equal(decimal.NewFromInt(35)))

	// Shows up in the host's pending queue
	rr = ts.request(http.MethodGet, "/api/pending-payments", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	var pending []response.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, payment.ID, pending[0].ID)

	// Pending money is not in the pot yet
	rr = ts.request(http.MethodGet, "/api/game-stats", nil, "")
	var stats response.GameStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.True(t, stats.TotalPot.IsZero())
	assert.Equal(t, 1, stats.PendingCount)

	// Host confirms
	rr = ts.request(http.MethodPut, "/api/players/"+playerID+"/payments/"+payment.ID+"/confirm", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var confirmed response.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &confirmed))
	assert.Equal(t, "confirmed", confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)

	// Confirming again conflicts
	rr = ts.request(http.MethodPut, "/api/players/"+playerID+"/payments/"+payment.ID+"/confirm", nil, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeAlreadyConfirmed, errorCode(t, rr))

	// Pot is the buy-in net of the dealer fee
	rr = ts.request(http.MethodGet, "/api/game-stats", nil, "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.True(t, stats.TotalPot.Equal(decimal.NewFromInt(100)))
	assert.True(t, stats.TotalDealerFees.Equal(decimal.NewFromInt(35)))
	assert.True(t, stats.TotalBuyIns.Equal(decimal.NewFromInt(135)))
	assert.Equal(t, 0, stats.PendingCount)
}

func TestBuyInValidation(t *testing.T) {
	ts := newTestServer(t)
	token := hostLogin(t, ts)
	playerID := createPlayer(t, ts, token, "Alice")

	rr := ts.request(http.MethodPost, "/api/players/"+playerID+"/buyin",
		map[string]any{"amount": -5, "method": "Cash"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidAmount, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/players/"+playerID+"/buyin",
		map[string]any{"amount": 50, "method": "IOU"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidMethod, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/players/unknown/buyin",
		map[string]any{"amount": 50, "method": "Cash"}, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodePlayerNotFound, errorCode(t, rr))
}

func TestRebuyCreatesUnknownPlayer(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/rebuys",
		map[string]any{"player_name": "Carol", "amount": 135, "method": "Venmo"}, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.Rebuy
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.PlayerCreated)
	assert.Equal(t, "Carol", resp.Player.Name)
	assert.True(t, resp.Payment.DealerFeeApplied)

	// Same name again resolves to the existing player, no fee this time
	rr = ts.request(http.MethodPost, "/api/rebuys",
		map[string]any{"player_name": "  carol ", "amount": 50, "method": "Cash"}, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.PlayerCreated)
	assert.Equal(t, resp.Player.Name, "Carol")
	assert.False(t, resp.Payment.DealerFeeApplied)

	rr = ts.request(http.MethodGet, "/api/rebuys/recent", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	var recent []response.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recent))
	assert.Len(t, recent, 2)
}

func TestCashOutFlow(t *testing.T) {
	ts := newTestServer(t)
	token := hostLogin(t, ts)

	// 135 buy-in confirmed, 35 fee, pot is 100
	playerID := confirmedBuyIn(t, ts, token, "Alice", 135)

	// Request beyond the pot is rejected outright
	rr := ts.request(http.MethodPost, "/api/players/"+playerID+"/cashout",
		map[string]any{"amount": 150, "method": "Cash"}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeCashOutExceedsPot, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/players/"+playerID+"/cashout",
		map[string]any{"amount": 100, "method": "Cash"}, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var payment response.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payment))
	assert.Equal(t, "cashout", payment.Type)
	assert.Equal(t, "pending", payment.Status)

	rr = ts.request(http.MethodGet, "/api/pending-cashouts", nil, "")
	var pending []response.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pending))
	require.Len(t, pending, 1)

	// Host pays out 60 cash and 40 Venmo
	rr = ts.request(http.MethodPut, "/api/cashouts/"+payment.ID+"/confirm",
		map[string]any{"method_split": map[string]float64{"Cash": 60, "Venmo": 40}}, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var confirmed response.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &confirmed))
	assert.Equal(t, "confirmed", confirmed.Status)
	require.Len(t, confirmed.PayoutSplit, 2)
	assert.True(t, confirmed.PayoutSplit["Cash"].Equal(decimal.NewFromInt(60)))

	// Pot drained to zero
	rr = ts.request(http.MethodGet, "/api/game-stats", nil, "")
	var stats response.GameStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.True(t, stats.TotalPot.IsZero())
	assert.True(t, stats.TotalCashOuts.Equal(decimal.NewFromInt(100)))

	rr = ts.request(http.MethodGet, "/api/cashouts/recent", nil, "")
	var recent []response.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recent))
	assert.Len(t, recent, 1)

	rr = ts.request(http.MethodGet, "/api/cashouts/history", nil, "")
	var history []response.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &history))
	assert.Len(t, history, 1)
}

func TestCashOutSplitMismatch(t *testing.T) {
	ts := newTestServer(t)
	token := hostLogin(t, ts)
	playerID := confirmedBuyIn(t, ts, token, "Alice", 135)

	rr := ts.request(http.MethodPost, "/api/players/"+playerID+"/cashout",
		map[string]any{"amount": 100, "method": "Cash"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	var payment response.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payment))

	rr = ts.request(http.MethodPut, "/api/cashouts/"+payment.ID+"/confirm",
		map[string]any{"method_split": map[string]float64{"Cash": 60, "Venmo": 30}}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeSplitMismatch, errorCode(t, rr))

	// Still pending after the failed confirmation
	rr = ts.request(http.MethodGet, "/api/pending-cashouts", nil, "")
	var pending []response.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pending))
	assert.Len(t, pending, 1)
}

func TestDeletePaymentReversesPot(t *testing.T) {
	ts := newTestServer(t)
	token := hostLogin(t, ts)
	playerID := createPlayer(t, ts, token, "Alice")

	rr := ts.request(http.MethodPost, "/api/players/"+playerID+"/buyin",
		map[string]any{"amount": 135, "method": "Cash"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	var payment response.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payment))

	rr = ts.request(http.MethodDelete, "/api/players/"+playerID+"/payments/"+payment.ID, nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/pending-payments", nil, "")
	var pending []response.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pending))
	assert.Empty(t, pending)
}

func TestDeletePlayerCascades(t *testing.T) {
	ts := newTestServer(t)
	token := hostLogin(t, ts)
	playerID := confirmedBuyIn(t, ts, token, "Alice", 135)

	rr := ts.request(http.MethodDelete, "/api/players/"+playerID, nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/game-stats", nil, "")
	var stats response.GameStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.True(t, stats.TotalPot.IsZero())
	assert.Equal(t, 0, stats.PlayerCount)
}

func TestPlayerPaymentSummary(t *testing.T) {
	ts := newTestServer(t)
	token := hostLogin(t, ts)
	playerID := confirmedBuyIn(t, ts, token, "Alice", 135)

	rr := ts.request(http.MethodGet, "/api/players/"+playerID+"/payment-summary", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var summary response.PaymentSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.ConfirmedCount)
	assert.Equal(t, 0, summary.PendingCount)
	assert.True(t, summary.DealerFeePaid.Equal(decimal.NewFromInt(35)))
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(135)))
}

func TestRecentTransactionsLimit(t *testing.T) {
	ts := newTestServer(t)
	token := hostLogin(t, ts)
	playerID := createPlayer(t, ts, token, "Alice")

	for i := 0; i < 3; i++ {
		rr := ts.request(http.MethodPost, "/api/players/"+playerID+"/buyin",
			map[string]any{"amount": 50, "method": "Cash"}, "")
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := ts.request(http.MethodGet, "/api/transactions/recent?limit=2", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var recent []response.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recent))
	assert.Len(t, recent, 2)
}

func TestAPIResponsesAreUncacheable(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/players", nil, "")
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
}

func TestRebuyQRCode(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/rebuy/qr.png", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Body.Bytes())

	rr = ts.request(http.MethodGet, "/rebuy/qr.png?size=4096", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
