package render

import (
	"fmt"
	"sync"

	"github.com/zatekoja/feedbackdashboard/internal/domain/entities"
	"github.com/zatekoja/feedbackdashboard/internal/domain/providers"
	apperrors "github.com/zatekoja/feedbackdashboard/pkg/errors"
)

// TableBody is an in-memory feedback table body. Cells are kept as text
// and escaped only when the document is written.
type TableBody struct {
	mu   sync.Mutex
	rows [][]string
}

// AppendRow appends a copy of cells as a new row.
func (t *TableBody) AppendRow(cells []string) error {
	if len(cells) != len(entities.FeedbackColumns) {
		return apperrors.NewRenderError(
			fmt.Sprintf("row has %d cells, table has %d columns", len(cells), len(entities.FeedbackColumns)), nil)
	}
	row := make([]string, len(cells))
	copy(row, cells)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, row)
	return nil
}

// Clear removes every row.
func (t *TableBody) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = nil
	return nil
}

// Len returns the number of rows.
func (t *TableBody) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

// Rows returns a copy of the rows in insertion order.
func (t *TableBody) Rows() [][]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// ChartCanvas holds at most one chart, the way a Chart.js canvas does.
type ChartCanvas struct {
	mu    sync.Mutex
	chart *entities.ChartConfig
}

// NewChart binds cfg to the canvas.
func (c *ChartCanvas) NewChart(cfg entities.ChartConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chart != nil {
		return apperrors.NewRenderError(
			fmt.Sprintf("canvas %q is already in use", providers.SentimentChartID), nil)
	}
	if cfg.Type == "" {
		return apperrors.NewRenderError("chart type is required", nil)
	}
	for _, ds := range cfg.Data.Datasets {
		if len(ds.Data) != len(cfg.Data.Labels) {
			return apperrors.NewRenderError(
				fmt.Sprintf("dataset %q has %d values for %d labels", ds.Label, len(ds.Data), len(cfg.Data.Labels)), nil)
		}
	}
	c.chart = &cfg
	return nil
}

// Destroy unbinds the current chart.
func (c *ChartCanvas) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chart = nil
}

// Chart returns the bound chart, or nil.
func (c *ChartCanvas) Chart() *entities.ChartConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chart == nil {
		return nil
	}
	cfg := *c.chart
	return &cfg
}

// Page is a dashboard page rendered to HTML.
type Page struct {
	table  TableBody
	canvas ChartCanvas
}

// NewPage returns an empty page: no rows, no chart.
func NewPage() *Page {
	return &Page{}
}

// TableBody implements providers.Page.
func (p *Page) TableBody() providers.TableBody {
	return &p.table
}

// ChartCanvas implements providers.Page.
func (p *Page) ChartCanvas() providers.ChartCanvas {
	return &p.canvas
}

// Rows returns the table rows.
func (p *Page) Rows() [][]string {
	return p.table.Rows()
}

// Chart returns the bound chart, or nil.
func (p *Page) Chart() *entities.ChartConfig {
	return p.canvas.Chart()
}

var _ providers.Page = (*Page)(nil)
