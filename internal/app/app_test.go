package app

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/feedbackdashboard/internal/adapters/feedback"
	"github.com/zatekoja/feedbackdashboard/pkg/config"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: 5 * time.Second},
		FeedbackAPI: config.FeedbackAPIConfig{
			BaseURL:       baseURL,
			RetryAttempts: 1,
			RetryDelay:    time.Millisecond,
		},
		Dashboard: config.DashboardConfig{Title: "Feedback Dashboard", ChartJSURL: "https://cdn.example/chart.js"},
		Cache:     config.CacheConfig{TTL: time.Minute, Backend: config.CacheBackendMemory},
		Redis:     config.RedisConfig{Host: "127.0.0.1", Port: 1},
	}
}

func upstream(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestNewFeedbackSource_Chain(t *testing.T) {
	ctx := context.Background()

	t.Run("no cache", func(t *testing.T) {
		source, closeFn, err := NewFeedbackSource(ctx, testConfig("http://localhost:8000"), nil)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &feedback.Source{}, source)
	})

	t.Run("memory cache", func(t *testing.T) {
		cfg := testConfig("http://localhost:8000")
		cfg.Cache.Enabled = true
		source, closeFn, err := NewFeedbackSource(ctx, cfg, nil)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &feedback.CachedSource{}, source)
	})

	t.Run("unreachable redis falls back to memory", func(t *testing.T) {
		cfg := testConfig("http://localhost:8000")
		cfg.Cache.Enabled = true
		cfg.Cache.Backend = config.CacheBackendRedis
		source, closeFn, err := NewFeedbackSource(ctx, cfg, nil)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &feedback.CachedSource{}, source)
	})
}

func TestRenderOnce_RetriesAndCaches(t *testing.T) {
	var calls atomic.Int32
	server := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"name":"A","email":"a@x","feedback_text":"fine","sentiment":"Positive","created_at":"2024-01-01"}]`))
	})

	cfg := testConfig(server.URL)
	cfg.FeedbackAPI.RetryAttempts = 3
	cfg.Cache.Enabled = true

	ctx := context.Background()
	a, err := New(ctx, cfg)
	require.NoError(t, err)
	defer a.Close(ctx)

	var out bytes.Buffer
	report, err := a.RenderOnce(ctx, &out)
	require.NoError(t, err)
	require.NoError(t, report.Err)
	assert.Equal(t, 1, report.Rows)
	assert.Contains(t, out.String(), "<td>fine</td>")

	_, err = a.RenderOnce(ctx, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRenderOnce_FailureIsReported(t *testing.T) {
	server := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	ctx := context.Background()
	a, err := New(ctx, testConfig(server.URL))
	require.NoError(t, err)
	defer a.Close(ctx)

	var out bytes.Buffer
	report, err := a.RenderOnce(ctx, &out)
	require.NoError(t, err)
	assert.True(t, report.Failed())
	assert.Contains(t, out.String(), `<canvas id="sentimentChart"></canvas>`)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	server := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	a, err := New(context.Background(), testConfig(server.URL))
	require.NoError(t, err)
	defer a.Close(context.Background())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/dashboard/tally")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"labels":["Positive","Neutral","Negative"],"counts":[0,0,0],"total":0}`, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
