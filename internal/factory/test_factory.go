package factory

import (
	"time"

	"github.com/mcoot/partyscore/internal/dependencies/mocks"
	"github.com/mcoot/partyscore/internal/services/auth"
	"github.com/mcoot/partyscore/internal/services/housekeeping"
	"github.com/mcoot/partyscore/internal/storage/memory"
	"github.com/mcoot/partyscore/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App backed by memory storage and a mock clock
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2025, 12, 31, 21, 0, 0, 0, time.UTC))

	app, err := newWithDependencies(store, mockClock, auth.DefaultConfig(), housekeeping.DefaultConfig(), testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}
