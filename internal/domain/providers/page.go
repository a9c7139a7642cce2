package providers

import "github.com/zatekoja/feedbackdashboard/internal/domain/entities"

// Element identifiers the dashboard markup must provide.
const (
	FeedbackTableBodyID = "feedbackTableBody"
	SentimentChartID    = "sentimentChart"
)

// TableBody is the feedback table body rows are appended to.
// Cell values are text: implementations must never interpret them as markup.
type TableBody interface {
	AppendRow(cells []string) error
	// Clear removes every row.
	Clear() error
	Len() int
}

// ChartCanvas is the drawing surface the sentiment chart is created on.
// The charting library behind it is opaque to the loader.
type ChartCanvas interface {
	// NewChart fails if a chart is already bound to the canvas.
	NewChart(cfg entities.ChartConfig) error
	// Destroy unbinds the current chart, if any.
	Destroy()
}

// Page bundles the page elements the dashboard loader writes to.
type Page interface {
	TableBody() TableBody
	ChartCanvas() ChartCanvas
}
