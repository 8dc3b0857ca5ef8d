package reliability

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerError is returned when the breaker blocks a call.
type CircuitBreakerError struct {
	Name      string
	State     State
	Failures  int
	NextRetry time.Time
}

func (e *CircuitBreakerError) Error() string {
	if e.State == StateOpen {
		return fmt.Sprintf("circuit breaker %s open (failures=%d, retry in %v)",
			e.Name, e.Failures, time.Until(e.NextRetry).Round(time.Second))
	}
	return fmt.Sprintf("circuit breaker %s limited in state %v", e.Name, e.State)
}

// CircuitBreaker guards a transport client. After failureThreshold
// consecutive failures it opens and fails fast until the timeout
// elapses, then allows probe calls in half-open state.
type CircuitBreaker struct {
	mu               sync.Mutex
	name             string
	state            State
	failures         int
	successes        int
	lastFailure      time.Time
	failureThreshold int
	successThreshold int
	timeout          time.Duration
}

// CircuitBreakerOption configures the circuit breaker.
type CircuitBreakerOption func(*CircuitBreaker)

// WithName sets the breaker name used in errors and logs.
func WithName(name string) CircuitBreakerOption {
	return func(cb *CircuitBreaker) { cb.name = name }
}

// WithFailureThreshold sets consecutive failures before opening.
func WithFailureThreshold(n int) CircuitBreakerOption {
	return func(cb *CircuitBreaker) { cb.failureThreshold = n }
}

// WithSuccessThreshold sets successes required to close from half-open.
func WithSuccessThreshold(n int) CircuitBreakerOption {
	return func(cb *CircuitBreaker) { cb.successThreshold = n }
}

// WithOpenTimeout sets how long the breaker stays open before probing.
func WithOpenTimeout(d time.Duration) CircuitBreakerOption {
	return func(cb *CircuitBreaker) { cb.timeout = d }
}

// NewCircuitBreaker creates a closed circuit breaker.
func NewCircuitBreaker(options ...CircuitBreakerOption) *CircuitBreaker {
	cb := &CircuitBreaker{
		name:             "default",
		failureThreshold: 5,
		successThreshold: 2,
		timeout:          30 * time.Second,
	}
	for _, opt := range options {
		opt(cb)
	}
	return cb
}

// Execute runs fn under breaker protection. A blocked call returns
// *CircuitBreakerError without invoking fn.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := cb.allow(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := fn()
	cb.record(err)
	return err
}

// State returns the current breaker state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

func (cb *CircuitBreaker) stateLocked() State {
	if cb.state == StateOpen && time.Since(cb.lastFailure) >= cb.timeout {
		cb.state = StateHalfOpen
		cb.successes = 0
	}
	return cb.state
}

func (cb *CircuitBreaker) allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.stateLocked() == StateOpen {
		return &CircuitBreakerError{
			Name:      cb.name,
			State:     StateOpen,
			Failures:  cb.failures,
			NextRetry: cb.lastFailure.Add(cb.timeout),
		}
	}
	return nil
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failures++
		cb.successes = 0
		cb.lastFailure = time.Now()
		if cb.failures >= cb.failureThreshold {
			cb.state = StateOpen
		}
		return
	}
	switch cb.state {
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.successThreshold {
			cb.state = StateClosed
			cb.failures = 0
		}
	default:
		cb.failures = 0
	}
}
