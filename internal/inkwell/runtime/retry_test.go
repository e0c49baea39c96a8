package runtime

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrierSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	r := Retrier{MaxAttempts: 3, BaseWait: time.Millisecond}

	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("connection reset by peer")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetrierStopsOnNonTransientError(t *testing.T) {
	attempts := 0
	r := Retrier{MaxAttempts: 5, BaseWait: time.Millisecond}

	wantErr := errors.New("invalid request body")
	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, attempts)
}

func TestRetrierExhaustsBudget(t *testing.T) {
	attempts := 0
	r := Retrier{MaxAttempts: 3, BaseWait: time.Millisecond}

	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		return fmt.Errorf("503 service unavailable")
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetrierRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	r := Retrier{MaxAttempts: 3, BaseWait: time.Millisecond}
	err := r.Do(ctx, func(context.Context) error {
		attempts++
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, attempts)
}

func TestRetrierZeroAttemptsMeansOne(t *testing.T) {
	attempts := 0
	r := Retrier{}

	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}
