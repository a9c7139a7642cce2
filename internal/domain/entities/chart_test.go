package entities_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/feedbackdashboard/internal/domain/entities"
)

func TestNewSentimentBarChart_ChartJSShape(t *testing.T) {
	tally := entities.NewSentimentTally()
	tally.Add("Positive")
	tally.Add("Negative")

	data, err := json.Marshal(entities.NewSentimentBarChart(tally))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "bar",
		"data": {
			"labels": ["Positive", "Neutral", "Negative"],
			"datasets": [{"label": "Feedback Count", "data": [1, 0, 1], "borderWidth": 1}]
		},
		"options": {"scales": {"y": {"beginAtZero": true}}}
	}`, string(data))
}
