package distance

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

// CircuitState represents the state of the circuit breaker
type CircuitState int

const (
	// CircuitClosed lets every distance request through
	CircuitClosed CircuitState = iota
	// CircuitOpen fails requests immediately until the reset timeout elapses
	CircuitOpen
	// CircuitHalfOpen lets a single trial request probe the service
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// ErrCircuitOpen is returned while the distance service is considered down
var ErrCircuitOpen = errors.New("circuit breaker open")

// CircuitBreaker stops hammering a distance service that keeps failing
type CircuitBreaker struct {
	maxFailures     int
	resetTimeout    time.Duration
	state           CircuitState
	failureCount    int
	lastFailureTime time.Time
	probing         bool
	mu              sync.RWMutex
	clock           shared.Clock
}

// NewCircuitBreaker creates a closed circuit breaker.
// If clock is nil, uses RealClock.
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration, clock shared.Clock) *CircuitBreaker {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if maxFailures < 1 {
		maxFailures = 1
	}
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
		clock:        clock,
	}
}

// Call runs fn unless the circuit is open. fn runs without the lock held so
// retries and backoff inside it do not block other callers. While half-open
// only the probing call runs. A cancelled call or a rejected request says
// nothing about the service's health and is not counted.
func (cb *CircuitBreaker) Call(fn func() error) error {
	if !cb.admit() {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	var rejected *RejectedError
	switch {
	case errors.Is(err, context.Canceled), errors.As(err, &rejected):
		cb.probing = false
	case err != nil:
		cb.onFailure()
	default:
		cb.onSuccess()
	}
	return err
}

func (cb *CircuitBreaker) admit() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	switch cb.state {
	case CircuitOpen:
		if cb.clock.Now().Sub(cb.lastFailureTime) < cb.resetTimeout {
			return false
		}
		cb.state = CircuitHalfOpen
		cb.probing = true
		return true
	case CircuitHalfOpen:
		if cb.probing {
			return false
		}
		cb.probing = true
		return true
	}
	return true
}

func (cb *CircuitBreaker) onFailure() {
	cb.probing = false
	cb.failureCount++
	cb.lastFailureTime = cb.clock.Now()

	if cb.state == CircuitHalfOpen || cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) onSuccess() {
	cb.probing = false
	cb.failureCount = 0
	cb.state = CircuitClosed
}

// State returns the current circuit state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// FailureCount returns the current consecutive failure count
func (cb *CircuitBreaker) FailureCount() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.failureCount
}

// Reset closes the circuit and forgets past failures
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = CircuitClosed
	cb.failureCount = 0
	cb.probing = false
}
