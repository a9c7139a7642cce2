package feedback_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubRaw serves canned bodies and errors in order, repeating the last one.
type stubRaw struct {
	mu      sync.Mutex
	bodies  []string
	errs    []error
	calls   atomic.Int32
	release chan struct{}
}

func (s *stubRaw) FetchFeedbacksJSON(ctx context.Context) ([]byte, error) {
	n := int(s.calls.Add(1)) - 1
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := min(n, len(s.errs)-1); i >= 0 && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if len(s.bodies) == 0 {
		return []byte(`[]`), nil
	}
	return []byte(s.bodies[min(n, len(s.bodies)-1)]), nil
}
