package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Column names of the feedback table, in display order.
const (
	FieldID           = "id"
	FieldName         = "name"
	FieldEmail        = "email"
	FieldFeedbackText = "feedback_text"
	FieldSentiment    = "sentiment"
	FieldCreatedAt    = "created_at"
)

// FeedbackColumns is the fixed column order of a rendered feedback row.
var FeedbackColumns = []string{
	FieldID,
	FieldName,
	FieldEmail,
	FieldFeedbackText,
	FieldSentiment,
	FieldCreatedAt,
}

// ProblemKind classifies how a field deviated from the expected schema.
type ProblemKind string

const (
	ProblemMissing   ProblemKind = "missing"
	ProblemMalformed ProblemKind = "malformed"
	ProblemCoerced   ProblemKind = "coerced"
)

// FieldProblem records a schema deviation found while decoding a record.
type FieldProblem struct {
	Field string
	Kind  ProblemKind
	Raw   string
}

func (p FieldProblem) String() string {
	if p.Raw == "" {
		return fmt.Sprintf("%s:%s", p.Field, p.Kind)
	}
	return fmt.Sprintf("%s:%s(%s)", p.Field, p.Kind, p.Raw)
}

// FeedbackRecord is one feedback entry as served by /api/feedbacks.
type FeedbackRecord struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	FeedbackText string `json:"feedback_text"`
	Sentiment    string `json:"sentiment"`
	CreatedAt    string `json:"created_at"`

	// idText is the display text of an id that could not be read as an
	// integer.
	idText   string
	problems []FieldProblem
}

// Problems returns the schema deviations found while decoding.
func (r FeedbackRecord) Problems() []FieldProblem {
	return r.problems
}

// Valid reports whether the record matched the schema exactly.
func (r FeedbackRecord) Valid() bool {
	return len(r.problems) == 0
}

// Cells returns the six display values in FeedbackColumns order, unmodified.
func (r FeedbackRecord) Cells() []string {
	return []string{
		r.idCell(),
		r.Name,
		r.Email,
		r.FeedbackText,
		r.Sentiment,
		r.CreatedAt,
	}
}

func (r FeedbackRecord) idCell() string {
	for _, p := range r.problems {
		if p.Field != FieldID {
			continue
		}
		switch p.Kind {
		case ProblemMissing:
			return ""
		case ProblemMalformed:
			return r.idText
		}
	}
	return strconv.FormatInt(r.ID, 10)
}

// UnmarshalJSON decodes a record leniently: every field falls back to a
// displayable value and the deviation is recorded instead of failing.
// A null element is not a record and fails the decode.
func (r *FeedbackRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("feedback record must be a JSON object: %w", err)
	}
	if fields == nil {
		return fmt.Errorf("feedback record must be a JSON object, got null")
	}

	out := FeedbackRecord{}
	out.decodeID(fields[FieldID])
	out.Name = out.decodeString(FieldName, fields[FieldName])
	out.Email = out.decodeString(FieldEmail, fields[FieldEmail])
	out.FeedbackText = out.decodeString(FieldFeedbackText, fields[FieldFeedbackText])
	out.Sentiment = out.decodeString(FieldSentiment, fields[FieldSentiment])
	out.CreatedAt = out.decodeString(FieldCreatedAt, fields[FieldCreatedAt])

	*r = out
	return nil
}

func (r *FeedbackRecord) addProblem(field string, kind ProblemKind, raw string) {
	r.problems = append(r.problems, FieldProblem{Field: field, Kind: kind, Raw: raw})
}

func (r *FeedbackRecord) decodeString(field string, raw json.RawMessage) string {
	if isAbsent(raw) {
		r.addProblem(field, ProblemMissing, "")
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	text := string(bytes.TrimSpace(raw))
	r.addProblem(field, ProblemMalformed, text)
	return text
}

func (r *FeedbackRecord) decodeID(raw json.RawMessage) {
	if isAbsent(raw) {
		r.addProblem(FieldID, ProblemMissing, "")
		return
	}

	trimmed := bytes.TrimSpace(raw)
	if trimmed[0] != '"' {
		var num json.Number
		if err := json.Unmarshal(trimmed, &num); err == nil {
			if id, ok := integral(num.String()); ok {
				r.ID = id
				return
			}
		}
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		if id, ok := integral(strings.TrimSpace(s)); ok {
			r.ID = id
			r.addProblem(FieldID, ProblemCoerced, s)
			return
		}
		r.idText = s
		r.addProblem(FieldID, ProblemMalformed, s)
		return
	}

	text := string(trimmed)
	r.idText = text
	r.addProblem(FieldID, ProblemMalformed, text)
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// integral parses s as an integer, accepting float notation with no
// fractional part (1, 1.0, 1e3).
func integral(s string) (int64, bool) {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// DecodeFeedbackRecords decodes the /api/feedbacks body. The body must be a
// JSON array of objects; individual field deviations are tolerated.
func DecodeFeedbackRecords(data []byte) ([]FeedbackRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("feedback list must be a JSON array")
	}

	var records []FeedbackRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []FeedbackRecord{}
	}
	return records, nil
}
