package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/zatekoja/feedbackdashboard/internal/domain/entities"
	"github.com/zatekoja/feedbackdashboard/internal/domain/providers"
	apperrors "github.com/zatekoja/feedbackdashboard/pkg/errors"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// columnHeadings are the table headings, aligned with entities.FeedbackColumns.
var columnHeadings = []string{"ID", "Name", "Email", "Feedback", "Sentiment", "Created At"}

type documentData struct {
	Title       string
	ChartJSURL  string
	Columns     []string
	TableBodyID string
	ChartID     string
	Rows        [][]string
	Chart       *entities.ChartConfig
}

// DocumentRenderer writes a page as a standalone HTML document.
type DocumentRenderer struct {
	title      string
	chartJSURL string
}

// NewDocumentRenderer creates a renderer. chartJSURL is where the page loads
// Chart.js from.
func NewDocumentRenderer(title, chartJSURL string) *DocumentRenderer {
	return &DocumentRenderer{title: title, chartJSURL: chartJSURL}
}

// Render writes the page. Output is buffered so a template failure writes
// nothing to w.
func (r *DocumentRenderer) Render(w io.Writer, page *Page) error {
	data := documentData{
		Title:       r.title,
		ChartJSURL:  r.chartJSURL,
		Columns:     columnHeadings,
		TableBodyID: providers.FeedbackTableBodyID,
		ChartID:     providers.SentimentChartID,
		Rows:        page.Rows(),
		Chart:       page.Chart(),
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, data); err != nil {
		return apperrors.NewRenderError("execute dashboard template", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return apperrors.NewRenderError("write dashboard document", err)
	}
	return nil
}
