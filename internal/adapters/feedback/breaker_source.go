package feedback

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"github.com/zatekoja/feedbackdashboard/internal/domain/providers"
	"github.com/zatekoja/feedbackdashboard/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/feedbackdashboard/pkg/errors"
)

// BreakerSource stops calling the upstream after maxFailures consecutive
// transient failures, until openTimeout has passed.
type BreakerSource struct {
	next providers.RawFeedbackSource
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerSource wraps next in a circuit breaker.
func NewBreakerSource(next providers.RawFeedbackSource, maxFailures uint32, openTimeout time.Duration) *BreakerSource {
	settings := gobreaker.Settings{
		Name:        "feedback-api",
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			observability.GetLogger().Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
		// Only upstream outages count against the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || !apperrors.IsRetryable(err)
		},
	}
	return &BreakerSource{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// FetchFeedbacksJSON implements providers.RawFeedbackSource.
func (s *BreakerSource) FetchFeedbacksJSON(ctx context.Context) ([]byte, error) {
	out, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.FetchFeedbacksJSON(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, apperrors.NewNetworkError("feedback api circuit open", err)
		}
		return nil, err
	}
	return out.([]byte), nil
}

// State reports the breaker state.
func (s *BreakerSource) State() gobreaker.State {
	return s.cb.State()
}

var _ providers.RawFeedbackSource = (*BreakerSource)(nil)
