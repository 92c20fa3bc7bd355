package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrCircuitOpen is returned by CircuitBreaker.Do when the breaker is open
// and the recovery timeout has not yet elapsed.
var ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

// CircuitState is the failure-isolation state of a CircuitBreaker.
type CircuitState string

const (
	// CircuitClosed is the normal state: calls pass through.
	CircuitClosed CircuitState = "closed"

	// CircuitOpen rejects calls immediately until the recovery timeout
	// elapses.
	CircuitOpen CircuitState = "open"

	// CircuitHalfOpen allows a trial call after the recovery timeout; its
	// outcome decides whether the breaker closes again or re-opens.
	CircuitHalfOpen CircuitState = "half_open"
)

// BreakerStatus is a point-in-time snapshot of a breaker, suitable for
// printing in demos or exporting as metrics.
type BreakerStatus struct {
	// State is the current circuit state.
	State CircuitState `json:"state"`

	// FailureCount is the number of consecutive failures observed.
	FailureCount int `json:"failure_count"`

	// LastFailure is the time of the most recent failure; zero when the
	// breaker has never tripped.
	LastFailure time.Time `json:"last_failure,omitzero"`

	// Threshold is the consecutive-failure count that opens the circuit.
	Threshold int `json:"threshold"`

	// RecoveryTimeout is how long the breaker stays open before allowing
	// a trial call.
	RecoveryTimeout time.Duration `json:"recovery_timeout"`
}

// CircuitBreaker isolates a failing dependency using the classic
// closed/open/half-open state machine. On each call: an open breaker whose
// recovery timeout has elapsed moves to half-open and allows one trial call;
// an open breaker within the timeout fails fast with ErrCircuitOpen. Success
// resets the failure counter and closes the circuit; failure increments the
// counter and opens the circuit once the threshold is reached.
//
// The breaker is safe for concurrent use.
type CircuitBreaker struct {
	mu              sync.Mutex
	failureCount    int
	state           CircuitState
	lastFailure     time.Time
	threshold       int
	recoveryTimeout time.Duration
}

// BreakerOption tunes a CircuitBreaker at construction time.
type BreakerOption func(*CircuitBreaker)

// WithFailureThreshold sets the consecutive-failure count that opens the
// circuit. Default: 3.
func WithFailureThreshold(threshold int) BreakerOption {
	return func(breaker *CircuitBreaker) {
		if threshold > 0 {
			breaker.threshold = threshold
		}
	}
}

// WithRecoveryTimeout sets how long the breaker stays open before allowing
// a half-open trial call. Default: 60s.
func WithRecoveryTimeout(timeout time.Duration) BreakerOption {
	return func(breaker *CircuitBreaker) {
		if timeout > 0 {
			breaker.recoveryTimeout = timeout
		}
	}
}

// NewCircuitBreaker creates a closed breaker with the default threshold (3)
// and recovery timeout (60s) unless overridden by options.
func NewCircuitBreaker(opts ...BreakerOption) *CircuitBreaker {
	breaker := &CircuitBreaker{
		state:           CircuitClosed,
		threshold:       3,
		recoveryTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(breaker)
	}
	return breaker
}

// Do invokes fn under the breaker's protection and records the outcome.
// When the circuit is open and the recovery timeout has not elapsed, fn is
// not called and ErrCircuitOpen is returned.
func (breaker *CircuitBreaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := breaker.beforeCall(); err != nil {
		return err
	}

	err := fn(ctx)
	breaker.afterCall(err)

	return err
}

// beforeCall gates entry: open circuits either fail fast or transition to
// half-open for a trial call.
func (breaker *CircuitBreaker) beforeCall() error {
	breaker.mu.Lock()
	defer breaker.mu.Unlock()

	if breaker.state != CircuitOpen {
		return nil
	}

	if time.Since(breaker.lastFailure) < breaker.recoveryTimeout {
		return fmt.Errorf("%w: retry after %s", ErrCircuitOpen, breaker.recoveryTimeout-time.Since(breaker.lastFailure).Round(time.Second))
	}

	breaker.state = CircuitHalfOpen
	return nil
}

// afterCall records the call outcome and drives the state transitions.
func (breaker *CircuitBreaker) afterCall(err error) {
	breaker.mu.Lock()
	defer breaker.mu.Unlock()

	if err == nil {
		breaker.failureCount = 0
		breaker.state = CircuitClosed
		return
	}

	breaker.failureCount++
	breaker.lastFailure = time.Now()

	if breaker.failureCount >= breaker.threshold || breaker.state == CircuitHalfOpen {
		breaker.state = CircuitOpen
	}
}

// Status returns a snapshot of the breaker.
func (breaker *CircuitBreaker) Status() BreakerStatus {
	breaker.mu.Lock()
	defer breaker.mu.Unlock()

	return BreakerStatus{
		State:           breaker.state,
		FailureCount:    breaker.failureCount,
		LastFailure:     breaker.lastFailure,
		Threshold:       breaker.threshold,
		RecoveryTimeout: breaker.recoveryTimeout,
	}
}
