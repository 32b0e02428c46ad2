package shared

import (
	"context"
	"sync"
	"time"
)

// Clock is the time source of everything that stamps or waits: estimate
// timestamps, retry backoff, circuit breaker windows
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
	// SleepContext waits d unless ctx ends first, returning ctx's error then
	SleepContext(ctx context.Context, d time.Duration) error
}

// RealClock reads the system clock in UTC
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

func (RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (RealClock) SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewRealClock creates a RealClock instance
func NewRealClock() Clock {
	return RealClock{}
}

// MockClock is a manually driven Clock. Sleep advances it instantly, so retry
// loops under test finish without waiting. Safe for concurrent use.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock creates a MockClock starting at start, or at the current time
// when start is zero
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now()
	}
	return &MockClock{now: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *MockClock) Sleep(d time.Duration) {
	m.Advance(d)
}

// SleepContext advances the clock unless ctx has already ended
func (m *MockClock) SleepContext(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.Advance(d)
	return nil
}

// Advance moves the clock forward by d
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Set moves the clock to t
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}
