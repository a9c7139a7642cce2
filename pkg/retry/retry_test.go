package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/feedbackdashboard/pkg/retry"
)

var errFlaky = errors.New("flaky")

func TestDo_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	var retried []int
	cfg := retry.Fixed(3, time.Millisecond)
	cfg.OnRetry = func(attempt int, err error, _ time.Duration) {
		retried = append(retried, attempt)
	}

	err := retry.Do(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errFlaky
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_SingleAttemptReturnsErrorUnwrapped(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), retry.Fixed(1, time.Second), func(ctx context.Context) error {
		calls++
		return errFlaky
	})

	assert.Equal(t, 1, calls)
	assert.Same(t, errFlaky, err)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), retry.Fixed(4, time.Millisecond), func(ctx context.Context) error {
		calls++
		return errFlaky
	})

	assert.Equal(t, 4, calls)
	assert.ErrorIs(t, err, errFlaky)
	assert.Contains(t, err.Error(), "max retry attempts (4) exceeded")
}

func TestDo_StopsOnNonRetryableError(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	cfg := retry.Fixed(5, time.Millisecond)
	cfg.ShouldRetry = func(err error) bool { return !errors.Is(err, permanent) }

	err := retry.Do(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		return permanent
	})

	assert.Equal(t, 1, calls)
	assert.Same(t, permanent, err)
}

func TestDo_HonoursContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retry.Do(ctx, retry.Fixed(5, time.Hour), func(ctx context.Context) error {
		calls++
		cancel()
		return errFlaky
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}
