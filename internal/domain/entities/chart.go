package entities

// ChartConfig is a chart description in the shape Chart.js accepts for
// `new Chart(ctx, config)`.
type ChartConfig struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

// ChartData holds the x-axis labels and the plotted datasets.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// ChartDataset is one series of values aligned with ChartData.Labels.
type ChartDataset struct {
	Label       string `json:"label"`
	Data        []int  `json:"data"`
	BorderWidth int    `json:"borderWidth"`
}

// ChartOptions holds axis options.
type ChartOptions struct {
	Scales ChartScales `json:"scales"`
}

// ChartScales holds per-axis options.
type ChartScales struct {
	Y ChartAxis `json:"y"`
}

// ChartAxis configures a single axis.
type ChartAxis struct {
	BeginAtZero bool `json:"beginAtZero"`
}

// SentimentChartDatasetLabel is the legend text of the sentiment dataset.
const SentimentChartDatasetLabel = "Feedback Count"

// NewSentimentBarChart builds the bar chart of a tally: one bar per
// recognized label, y-axis starting at zero.
func NewSentimentBarChart(tally *SentimentTally) ChartConfig {
	return ChartConfig{
		Type: "bar",
		Data: ChartData{
			Labels: tally.Labels(),
			Datasets: []ChartDataset{{
				Label:       SentimentChartDatasetLabel,
				Data:        tally.Counts(),
				BorderWidth: 1,
			}},
		},
		Options: ChartOptions{
			Scales: ChartScales{Y: ChartAxis{BeginAtZero: true}},
		},
	}
}
