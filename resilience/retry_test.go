package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0

	value, err := Retry(context.Background(), func(_ context.Context) (string, error) {
		calls++
		return "done", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "done", value)
	assert.Equal(t, 1, calls)
}

func TestRetryRecoversAfterTransientFailures(t *testing.T) {
	calls := 0

	value, err := Retry(context.Background(), func(_ context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	}, WithBaseDelay(time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, 42, value)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	underlying := errors.New("persistent failure")
	calls := 0

	_, err := Retry(context.Background(), func(_ context.Context) (int, error) {
		calls++
		return 0, underlying
	}, WithBaseDelay(time.Millisecond), WithMaxAttempts(4))

	require.ErrorIs(t, err, ErrRetriesExhausted)
	require.ErrorIs(t, err, underlying)
	assert.Equal(t, 4, calls)
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	fatal := errors.New("bad request")
	calls := 0

	_, err := Retry(context.Background(), func(_ context.Context) (int, error) {
		calls++
		return 0, fatal
	}, WithBaseDelay(time.Millisecond), WithRetryableFunc(func(err error) bool {
		return !errors.Is(err, fatal)
	}))

	require.ErrorIs(t, err, fatal)
	assert.NotErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 1, calls)
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Retry(ctx, func(_ context.Context) (int, error) {
		calls++
		return 0, errors.New("failing")
	}, WithBaseDelay(time.Hour))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetryBackoffSchedule(t *testing.T) {
	var waits []time.Duration

	_, err := Retry(context.Background(), func(_ context.Context) (int, error) {
		return 0, errors.New("failing")
	},
		WithBaseDelay(10*time.Millisecond),
		WithBackoffFactor(2.0),
		WithMaxAttempts(4),
		WithMaxDelay(30*time.Millisecond),
		WithOnRetry(func(_ int, wait time.Duration, _ error) {
			waits = append(waits, wait)
		}),
	)

	require.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		30 * time.Millisecond, // capped by WithMaxDelay
	}, waits)
}
