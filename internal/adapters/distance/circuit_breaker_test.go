package distance_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/distance"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

var errBoom = errors.New("boom")

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	cb := distance.NewCircuitBreaker(2, time.Minute, clock)
	failing := func() error { return errBoom }

	// Act
	first := cb.Call(failing)
	second := cb.Call(failing)
	called := false
	third := cb.Call(func() error { called = true; return nil })

	// Assert
	assert.ErrorIs(t, first, errBoom)
	assert.ErrorIs(t, second, errBoom)
	assert.ErrorIs(t, third, distance.ErrCircuitOpen)
	assert.False(t, called)
	assert.Equal(t, distance.CircuitOpen, cb.State())
}

func TestCircuitBreaker_HalfOpenTrial(t *testing.T) {
	clock := shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	cb := distance.NewCircuitBreaker(1, time.Minute, clock)
	_ = cb.Call(func() error { return errBoom })
	assert.Equal(t, distance.CircuitOpen, cb.State())

	clock.Advance(time.Minute)
	err := cb.Call(func() error { return nil })

	assert.NoError(t, err)
	assert.Equal(t, distance.CircuitClosed, cb.State())
	assert.Zero(t, cb.FailureCount())
}

func TestCircuitBreaker_FailedTrialReopens(t *testing.T) {
	clock := shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	cb := distance.NewCircuitBreaker(3, time.Minute, clock)
	for i := 0; i < 3; i++ {
		_ = cb.Call(func() error { return errBoom })
	}

	clock.Advance(2 * time.Minute)
	err := cb.Call(func() error { return errBoom })

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, distance.CircuitOpen, cb.State())
	assert.ErrorIs(t, cb.Call(func() error { return nil }), distance.ErrCircuitOpen)

	cb.Reset()
	assert.Equal(t, "closed", cb.State().String())
}

func TestCircuitBreaker_SingleProbeWhileHalfOpen(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	cb := distance.NewCircuitBreaker(1, time.Minute, clock)
	_ = cb.Call(func() error { return errBoom })
	clock.Advance(time.Minute)

	// Act
	var concurrent error
	err := cb.Call(func() error {
		concurrent = cb.Call(func() error { return nil })
		return nil
	})

	// Assert
	assert.NoError(t, err)
	assert.ErrorIs(t, concurrent, distance.ErrCircuitOpen, "only the probe runs while half-open")
	assert.Equal(t, distance.CircuitClosed, cb.State())
}

func TestCircuitBreaker_CancellationIsNotAFailure(t *testing.T) {
	cb := distance.NewCircuitBreaker(1, time.Minute, shared.NewMockClock(time.Time{}))

	err := cb.Call(func() error { return fmt.Errorf("lookup: %w", context.Canceled) })

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, distance.CircuitClosed, cb.State())
	assert.Zero(t, cb.FailureCount())
}

func TestCircuitBreaker_RejectionIsNotAFailure(t *testing.T) {
	cb := distance.NewCircuitBreaker(1, time.Minute, shared.NewMockClock(time.Time{}))

	err := cb.Call(func() error { return &distance.RejectedError{StatusCode: 400, Body: "bad batch"} })

	assert.Error(t, err)
	assert.Equal(t, distance.CircuitClosed, cb.State())
	assert.Zero(t, cb.FailureCount())
}
