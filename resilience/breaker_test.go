package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingCall(_ context.Context) error { return errors.New("downstream failure") }

func succeedingCall(_ context.Context) error { return nil }

func TestBreakerOpensAtThreshold(t *testing.T) {
	breaker := NewCircuitBreaker(WithFailureThreshold(3))
	ctx := context.Background()

	for range 3 {
		require.Error(t, breaker.Do(ctx, failingCall))
	}

	status := breaker.Status()
	assert.Equal(t, CircuitOpen, status.State)
	assert.Equal(t, 3, status.FailureCount)

	// Open circuit fails fast without invoking the function.
	called := false
	err := breaker.Do(ctx, func(_ context.Context) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerStaysClosedBelowThreshold(t *testing.T) {
	breaker := NewCircuitBreaker(WithFailureThreshold(3))
	ctx := context.Background()

	require.Error(t, breaker.Do(ctx, failingCall))
	require.Error(t, breaker.Do(ctx, failingCall))

	assert.Equal(t, CircuitClosed, breaker.Status().State)
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	breaker := NewCircuitBreaker(WithFailureThreshold(3))
	ctx := context.Background()

	require.Error(t, breaker.Do(ctx, failingCall))
	require.Error(t, breaker.Do(ctx, failingCall))
	require.NoError(t, breaker.Do(ctx, succeedingCall))

	status := breaker.Status()
	assert.Equal(t, CircuitClosed, status.State)
	assert.Zero(t, status.FailureCount)
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	breaker := NewCircuitBreaker(
		WithFailureThreshold(1),
		WithRecoveryTimeout(10*time.Millisecond),
	)
	ctx := context.Background()

	require.Error(t, breaker.Do(ctx, failingCall))
	require.Equal(t, CircuitOpen, breaker.Status().State)

	time.Sleep(20 * time.Millisecond)

	// Trial call after the recovery timeout closes the circuit on success.
	require.NoError(t, breaker.Do(ctx, succeedingCall))
	assert.Equal(t, CircuitClosed, breaker.Status().State)
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	breaker := NewCircuitBreaker(
		WithFailureThreshold(5),
		WithRecoveryTimeout(10*time.Millisecond),
	)
	ctx := context.Background()

	for range 5 {
		require.Error(t, breaker.Do(ctx, failingCall))
	}
	require.Equal(t, CircuitOpen, breaker.Status().State)

	time.Sleep(20 * time.Millisecond)

	// The trial call fails, so the circuit opens again immediately even
	// though the failure count is below the threshold after a reset.
	require.Error(t, breaker.Do(ctx, failingCall))
	assert.Equal(t, CircuitOpen, breaker.Status().State)
}
