package feedback_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/feedbackdashboard/internal/adapters/feedback"
	apperrors "github.com/zatekoja/feedbackdashboard/pkg/errors"
)

func TestBreakerSource_OpensAfterConsecutiveFailures(t *testing.T) {
	raw := &stubRaw{errs: []error{apperrors.NewNetworkError("fetch feedbacks", errors.New("connection refused"))}}
	src := feedback.NewBreakerSource(raw, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := src.FetchFeedbacksJSON(ctx)
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, src.State())

	_, err := src.FetchFeedbacksJSON(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, apperrors.ErrorTypeNetwork, apperrors.TypeOf(err))
	assert.Equal(t, int32(2), raw.calls.Load())
}

func TestBreakerSource_ClientErrorsDoNotTrip(t *testing.T) {
	raw := &stubRaw{errs: []error{apperrors.NewUpstreamStatusError("feedback api returned status 404", 404)}}
	src := feedback.NewBreakerSource(raw, 1, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := src.FetchFeedbacksJSON(context.Background())
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeUpstreamStatus, apperrors.TypeOf(err))
	}
	assert.Equal(t, gobreaker.StateClosed, src.State())
}

func TestBreakerSource_PassesBodyThrough(t *testing.T) {
	raw := &stubRaw{bodies: []string{`[{"id":1}]`}}
	body, err := feedback.NewBreakerSource(raw, 1, time.Minute).FetchFeedbacksJSON(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(body))
}
