package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("rate limited")

func alwaysTransient(error) bool { return true }

func TestDo_TransientThenSuccess(t *testing.T) {
	var slept []time.Duration
	attempts := 0

	err := Do(context.Background(), Config{
		MaxAttempts: 5,
		BaseDelay:   100 * time.Millisecond,
		IsTransient: alwaysTransient,
		Sleep: func(ctx context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		},
	}, func() error {
		attempts++
		if attempts < 3 {
			return errFlaky
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, slept)
}

func TestDo_PermanentErrorNoRetry(t *testing.T) {
	permanent := errors.New("bad request")
	attempts := 0
	sleeps := 0

	err := Do(context.Background(), Config{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		IsTransient: func(err error) bool { return !errors.Is(err, permanent) },
		Sleep: func(ctx context.Context, d time.Duration) error {
			sleeps++
			return nil
		},
	}, func() error {
		attempts++
		return permanent
	})

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 0, sleeps)
}

func TestDo_ExhaustsMaxAttempts(t *testing.T) {
	attempts := 0

	err := Do(context.Background(), Config{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		IsTransient: alwaysTransient,
		Sleep:       func(ctx context.Context, d time.Duration) error { return nil },
	}, func() error {
		attempts++
		return errFlaky
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 3, attempts)
}

func TestDo_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := Do(ctx, Config{
		MaxAttempts: 3,
		BaseDelay:   time.Hour,
		IsTransient: alwaysTransient,
	}, func() error {
		attempts++
		return errFlaky
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestDo_SuccessFirstTry(t *testing.T) {
	err := Do(context.Background(), Config{MaxAttempts: 3, BaseDelay: time.Second}, func() error {
		return nil
	})
	require.NoError(t, err)
}
