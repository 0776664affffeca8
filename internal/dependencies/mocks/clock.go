package mocks

import (
	"sync"
	"time"

	"github.com/mcoot/partyscore/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing.
// It is safe to share between a test and the HTTP handlers it drives.
type MockClock struct {
	mu      sync.Mutex
	current time.Time
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{current: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	c.mu.Unlock()
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}
