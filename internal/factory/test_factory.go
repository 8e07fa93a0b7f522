package factory

import (
	"time"

	"github.com/feltworks/poker-ledger/internal/dependencies/mocks"
	"github.com/feltworks/poker-ledger/internal/storage/memory"
	"github.com/feltworks/poker-ledger/internal/testutil"
)

// TestHostPIN is the host PIN every test app accepts
const TestHostPIN = "1234"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	app, err := newWithDependencies(store, mockClock, Config{
		HostPIN: TestHostPIN,
	}, testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}
