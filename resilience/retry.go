package resilience

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrRetriesExhausted wraps the last error after all retry attempts failed.
// Use errors.Is to detect exhaustion and errors.Unwrap to reach the
// underlying failure.
var ErrRetriesExhausted = errors.New("resilience: retries exhausted")

// retryConfig holds the tuning parameters for Retry. Defaults match the
// classic 3-attempts / 1s / doubling schedule.
type retryConfig struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	backoff     float64
	retryable   func(error) bool
	onRetry     func(attempt int, wait time.Duration, err error)
}

// RetryOption tunes the behavior of Retry.
type RetryOption func(*retryConfig)

// WithMaxAttempts sets the total number of attempts, including the first
// call. Default: 3.
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) {
		if attempts > 0 {
			config.maxAttempts = attempts
		}
	}
}

// WithBaseDelay sets the wait before the first retry. Default: 1s.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) {
		config.baseDelay = delay
	}
}

// WithMaxDelay caps the computed backoff. Zero (the default) means no cap.
func WithMaxDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) {
		config.maxDelay = delay
	}
}

// WithBackoffFactor sets the exponential growth multiplier applied to the
// base delay on successive retries
// (wait = baseDelay * factor^attempt). Default: 2.0.
func WithBackoffFactor(factor float64) RetryOption {
	return func(config *retryConfig) {
		if factor > 0 {
			config.backoff = factor
		}
	}
}

// WithRetryableFunc restricts which errors trigger a retry. Errors the
// classifier rejects are returned immediately. By default every error is
// retried.
func WithRetryableFunc(retryable func(error) bool) RetryOption {
	return func(config *retryConfig) {
		config.retryable = retryable
	}
}

// WithOnRetry registers a callback invoked before each retry sleep, carrying
// the upcoming attempt number (1-based), the wait duration, and the error
// that caused the retry. The tutorials use it to print progress.
func WithOnRetry(onRetry func(attempt int, wait time.Duration, err error)) RetryOption {
	return func(config *retryConfig) {
		config.onRetry = onRetry
	}
}

// Retry invokes fn until it succeeds, the attempts are exhausted, or the
// context is canceled. Between attempts it sleeps
// baseDelay * backoff^attempt, honoring ctx cancellation during the sleep.
// After exhaustion the returned error wraps both ErrRetriesExhausted and the
// last error from fn.
func Retry[T any](ctx context.Context, fn func(ctx context.Context) (T, error), opts ...RetryOption) (T, error) {
	var zero T

	config := &retryConfig{
		maxAttempts: 3,
		baseDelay:   time.Second,
		backoff:     2.0,
	}
	for _, opt := range opts {
		opt(config)
	}

	var lastErr error

	for attempt := 0; attempt < config.maxAttempts; attempt++ {
		if attempt > 0 {
			wait := config.wait(attempt - 1)

			if config.onRetry != nil {
				config.onRetry(attempt, wait, lastErr)
			}

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(wait):
			}
		}

		value, err := fn(ctx)
		if err == nil {
			return value, nil
		}

		lastErr = err

		if config.retryable != nil && !config.retryable(err) {
			return zero, err
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, config.maxAttempts, lastErr)
}

// wait computes the sleep before retry number attempt (0-indexed).
func (config *retryConfig) wait(attempt int) time.Duration {
	delay := float64(config.baseDelay) * math.Pow(config.backoff, float64(attempt))
	if config.maxDelay > 0 && delay > float64(config.maxDelay) {
		delay = float64(config.maxDelay)
	}
	return time.Duration(delay)
}
