package routes_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/feedbackdashboard/internal/adapters/render"
	"github.com/zatekoja/feedbackdashboard/internal/api/handlers"
	"github.com/zatekoja/feedbackdashboard/internal/api/routes"
	"github.com/zatekoja/feedbackdashboard/internal/application/services"
	"github.com/zatekoja/feedbackdashboard/internal/domain/entities"
	"github.com/zatekoja/feedbackdashboard/internal/domain/providers"
)

func newTestServer(t *testing.T, origins []string) *httptest.Server {
	t.Helper()
	source := providers.FeedbackSourceFunc(func(ctx context.Context) ([]entities.FeedbackRecord, error) {
		return entities.DecodeFeedbackRecords([]byte(`[{"id":1,"name":"A","email":"a@x","feedback_text":"hi","sentiment":"Neutral","created_at":"t"}]`))
	})
	loader := services.NewDashboardLoader(source, services.WithLogger(zerolog.New(io.Discard)))
	handler := handlers.NewDashboardHandler(loader, render.NewDocumentRenderer("Feedback Dashboard", "https://cdn.example/chart.js"))

	server := httptest.NewServer(routes.NewRouter(handler, origins, nil).SetupRoutes())
	t.Cleanup(server.Close)
	return server
}

func get(t *testing.T, url string, header map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		Transport:     &http.Transport{DisableCompression: true},
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRouter_Health(t *testing.T) {
	server := newTestServer(t, nil)
	resp := get(t, server.URL+"/health", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "OK", string(body))
}

func TestRouter_RootRedirectsToDashboard(t *testing.T) {
	server := newTestServer(t, nil)
	resp := get(t, server.URL+"/", nil)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestRouter_DashboardGzipAndETag(t *testing.T) {
	server := newTestServer(t, nil)
	resp := get(t, server.URL+"/dashboard", map[string]string{"Accept-Encoding": "gzip"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	etag := resp.Header.Get("ETag")
	assert.NotEmpty(t, etag)

	zr, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	html, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(html, []byte(`<tbody id="feedbackTableBody">`)))
}

func TestRouter_TallyNotModified(t *testing.T) {
	server := newTestServer(t, nil)
	first := get(t, server.URL+"/dashboard/tally", nil)
	require.Equal(t, http.StatusOK, first.StatusCode)
	etag := first.Header.Get("ETag")
	require.NotEmpty(t, etag)

	second := get(t, server.URL+"/dashboard/tally", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, second.StatusCode)
}

func TestRouter_CORS(t *testing.T) {
	server := newTestServer(t, []string{"https://ops.example.com"})

	allowed := get(t, server.URL+"/dashboard/tally", map[string]string{"Origin": "https://ops.example.com"})
	assert.Equal(t, "https://ops.example.com", allowed.Header.Get("Access-Control-Allow-Origin"))

	denied := get(t, server.URL+"/dashboard/tally", map[string]string{"Origin": "https://evil.example.com"})
	assert.Empty(t, denied.Header.Get("Access-Control-Allow-Origin"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	server := newTestServer(t, nil)
	resp := get(t, server.URL+"/api/feedbacks", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
