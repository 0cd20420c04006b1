package models

import "fmt"

// LineFailure describes one rejected line of a batch import.
type LineFailure struct {
	Line   int    `json:"line"` // 1-based position in the input
	Text   string `json:"text"`
	Reason error  `json:"-"`
}

// Message returns the failure reason as text.
func (f LineFailure) Message() string {
	if f.Reason == nil {
		return ""
	}
	return f.Reason.Error()
}

// BatchSummary counts the outcome of a batch import.
//
// Blank lines are neither added nor failed.
type BatchSummary struct {
	Added    int           `json:"added"`
	Failed   int           `json:"failed"`
	Failures []LineFailure `json:"failures,omitempty"`
}

// Fail records a rejected line.
func (s *BatchSummary) Fail(line int, text string, reason error) {
	s.Failed++
	s.Failures = append(s.Failures, LineFailure{Line: line, Text: text, Reason: reason})
}

// String renders the summary line shown to users.
func (s BatchSummary) String() string {
	return fmt.Sprintf("Batch Load Complete: %d added, %d failed.", s.Added, s.Failed)
}
