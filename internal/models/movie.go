package models

import (
	"time"

	"github.com/desertthunder/moviedb/internal/shared"
)

// Movie represents a single catalog entry.
type Movie struct {
	Title       string  `json:"title" yaml:"title"`
	ReleaseDate string  `json:"release_date" yaml:"release_date"` // YYYY-MM-DD
	Phase       int     `json:"phase" yaml:"phase"`               // Grouping category
	Director    string  `json:"director" yaml:"director"`
	RunningTime int     `json:"running_time" yaml:"running_time"` // Minutes
	Rating      float64 `json:"rating" yaml:"rating"`
}

// Key returns the normalized title used for uniqueness and lookups.
func (m Movie) Key() string {
	return TitleKey(m.Title)
}

// TitleKey returns the normalized form of a title: trimmed and lowercased.
func TitleKey(title string) string {
	return shared.NormalizeTitle(title)
}

// CategoryStats summarizes the ratings of all records in one phase.
//
// Count distinguishes a phase with no records from one whose mean happens to be a given value.
type CategoryStats struct {
	Phase   int     `json:"phase"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// Empty reports whether no record matched the phase.
func (s CategoryStats) Empty() bool {
	return s.Count == 0
}

// ImportStatus is the terminal state of an [ImportJob].
type ImportStatus string

const (
	ImportCompleted ImportStatus = "completed"
	ImportFailed    ImportStatus = "failed"
)

// ImportJob records one batch import run.
type ImportJob struct {
	ID          string       `json:"id"`
	Sequence    int          `json:"sequence"`
	Source      string       `json:"source"`
	Status      ImportStatus `json:"status"`
	Added       int          `json:"added"`
	Failed      int          `json:"failed"`
	Error       string       `json:"error,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}
