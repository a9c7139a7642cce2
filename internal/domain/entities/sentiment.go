package entities

// Recognized sentiment labels.
const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"
)

// SentimentLabels lists the tally buckets in chart order.
var SentimentLabels = []string{SentimentPositive, SentimentNeutral, SentimentNegative}

// SentimentTally counts feedback records per recognized sentiment label.
// The zero value is not usable; build one with NewSentimentTally.
type SentimentTally struct {
	counts map[string]int
}

// NewSentimentTally returns a tally with every recognized label at zero.
func NewSentimentTally() *SentimentTally {
	counts := make(map[string]int, len(SentimentLabels))
	for _, label := range SentimentLabels {
		counts[label] = 0
	}
	return &SentimentTally{counts: counts}
}

// TallyRecords builds a tally from one pass over records.
func TallyRecords(records []FeedbackRecord) *SentimentTally {
	tally := NewSentimentTally()
	for _, r := range records {
		tally.Add(r.Sentiment)
	}
	return tally
}

// Add counts label if it exactly matches a recognized label (case-sensitive)
// and reports whether it was counted.
func (t *SentimentTally) Add(label string) bool {
	if _, ok := t.counts[label]; !ok {
		return false
	}
	t.counts[label]++
	return true
}

// Count returns the count for label, zero for unrecognized labels.
func (t *SentimentTally) Count(label string) int {
	return t.counts[label]
}

// Labels returns the bucket labels in chart order.
func (t *SentimentTally) Labels() []string {
	out := make([]string, len(SentimentLabels))
	copy(out, SentimentLabels)
	return out
}

// Counts returns the bucket counts aligned with Labels.
func (t *SentimentTally) Counts() []int {
	out := make([]int, len(SentimentLabels))
	for i, label := range SentimentLabels {
		out[i] = t.counts[label]
	}
	return out
}

// Total returns the number of counted records.
func (t *SentimentTally) Total() int {
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Map returns a copy of the counts keyed by label.
func (t *SentimentTally) Map() map[string]int {
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}
