package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/feedbackdashboard/internal/adapters/render"
	"github.com/zatekoja/feedbackdashboard/internal/domain/entities"
)

func TestDocumentRenderer_EscapesCellMarkup(t *testing.T) {
	page := render.NewPage()
	require.NoError(t, page.TableBody().AppendRow([]string{
		"1", "<b>Mallory</b>", "m@example.com", `<script>alert("x")</script>`, "Negative", "2024-01-01",
	}))

	var buf bytes.Buffer
	require.NoError(t, render.NewDocumentRenderer("Feedback Dashboard", "https://cdn.example/chart.js").Render(&buf, page))
	out := buf.String()

	assert.Contains(t, out, "&lt;b&gt;Mallory&lt;/b&gt;")
	assert.Contains(t, out, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;")
	assert.NotContains(t, out, "<b>Mallory</b>")
	assert.NotContains(t, out, `<script>alert("x")</script>`)
}

func TestDocumentRenderer_Structure(t *testing.T) {
	page := render.NewPage()
	require.NoError(t, page.TableBody().AppendRow(row("1")))
	tally := entities.NewSentimentTally()
	tally.Add("Positive")
	require.NoError(t, page.ChartCanvas().NewChart(entities.NewSentimentBarChart(tally)))

	var buf bytes.Buffer
	require.NoError(t, render.NewDocumentRenderer("Team <Feedback>", "https://cdn.example/chart.js").Render(&buf, page))
	out := buf.String()

	assert.Contains(t, out, `<tbody id="feedbackTableBody">`)
	assert.Contains(t, out, `<canvas id="sentimentChart"></canvas>`)
	assert.Contains(t, out, `<script src="https://cdn.example/chart.js"></script>`)
	assert.Contains(t, out, "<title>Team &lt;Feedback&gt;</title>")
	assert.Equal(t, 1, strings.Count(out, "<tr><td>"))
	assert.Contains(t, out, "new Chart(")
	assert.Contains(t, out, `"Feedback Count"`)
	assert.Contains(t, out, `"beginAtZero":true`)
}

func TestDocumentRenderer_NoChartScriptWithoutChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.NewDocumentRenderer("Feedback Dashboard", "https://cdn.example/chart.js").Render(&buf, render.NewPage()))

	assert.Contains(t, buf.String(), `<canvas id="sentimentChart"></canvas>`)
	assert.NotContains(t, buf.String(), "new Chart(")
}
