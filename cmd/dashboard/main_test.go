package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderCommand_WritesDocumentToStdout(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"A","email":"a@x","feedback_text":"<em>nice</em>","sentiment":"Positive","created_at":"2024-01-01"}]`))
	}))
	defer upstream.Close()

	out, err := runCLI(t, "--api", upstream.URL, "render")
	require.NoError(t, err)
	assert.Contains(t, out, `<tbody id="feedbackTableBody">`)
	assert.Contains(t, out, "<td>&lt;em&gt;nice&lt;/em&gt;</td>")
	assert.Contains(t, out, "new Chart(")
}

func TestRenderCommand_WritesFile(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	path := filepath.Join(t.TempDir(), "dashboard.html")
	out, err := runCLI(t, "--api", upstream.URL, "render", "--out", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<canvas id="sentimentChart"></canvas>`)
}

func TestRenderCommand_Strict(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	_, err := runCLI(t, "--api", upstream.URL, "render")
	require.NoError(t, err, "failures are swallowed without --strict")

	_, err = runCLI(t, "--api", upstream.URL, "render", "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dashboard load failed")
}

func TestRootCommand_RejectsInvalidAPIURL(t *testing.T) {
	_, err := runCLI(t, "--api", "not-a-url", "render")
	require.Error(t, err)
}
