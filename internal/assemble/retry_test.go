package assemble

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trancheScope/internal/insurance"
)

func TestRetryDoSucceedsWithinBudget(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond}

	attempts := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return rpcError("getRound")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryDoExhaustsBudget(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 2, Delay: time.Millisecond}

	attempts := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		attempts++
		return rpcError("getRound")
	})
	require.Error(t, err)
	assert.Equal(t, 2, attempts)

	re, ok := insurance.AsReadError(err)
	require.True(t, ok, "the last attempt's error must surface unwrapped")
	assert.Equal(t, insurance.KindRPCError, re.Kind)
}

func TestRetryDoNotFoundShortCircuits(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, Delay: time.Millisecond}

	attempts := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		attempts++
		return notFoundError("getTranche")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts, "a missing entity will not appear between attempts")
	assert.True(t, insurance.IsNotFound(err))
}

func TestRetryDoZeroAttemptsRunsOnce(t *testing.T) {
	policy := RetryPolicy{}

	attempts := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		attempts++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryDoStopsOnCanceledContext(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 10, Delay: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := policy.Do(ctx, func(context.Context) error {
		attempts++
		return rpcError("getRound")
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, attempts, "cancellation during the backoff must not spend another attempt")
}
