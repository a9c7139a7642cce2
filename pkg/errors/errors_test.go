package errors_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	apperrors "github.com/zatekoja/feedbackdashboard/pkg/errors"
)

func TestAppError_Error(t *testing.T) {
	err := apperrors.NewUpstreamStatusError("feedback api rejected request", http.StatusBadGateway)
	assert.Equal(t, "UPSTREAM_STATUS: feedback api rejected request (status 502)", err.Error())

	wrapped := apperrors.NewNetworkError("feedback api unreachable", context.DeadlineExceeded)
	assert.Equal(t, "NETWORK: feedback api unreachable: context deadline exceeded", wrapped.Error())
	assert.ErrorIs(t, wrapped, context.DeadlineExceeded)
}

func TestTypeOf(t *testing.T) {
	err := fmt.Errorf("load: %w", apperrors.NewDecodeError("bad body", nil))
	assert.Equal(t, apperrors.ErrorTypeDecode, apperrors.TypeOf(err))
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.TypeOf(fmt.Errorf("plain")))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"network", apperrors.NewNetworkError("dial", nil), true},
		{"server error", apperrors.NewUpstreamStatusError("x", http.StatusServiceUnavailable), true},
		{"too many requests", apperrors.NewUpstreamStatusError("x", http.StatusTooManyRequests), true},
		{"not found", apperrors.NewUpstreamStatusError("x", http.StatusNotFound), false},
		{"decode", apperrors.NewDecodeError("x", nil), false},
		{"wrapped network", fmt.Errorf("outer: %w", apperrors.NewNetworkError("dial", nil)), true},
		{"plain", fmt.Errorf("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.IsRetryable(tt.err))
		})
	}
}
