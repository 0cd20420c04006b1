// package models defines the data model for the movie catalog
package models

import (
	"context"
)

// MovieStore defines the persistence port for movie records.
//
// Titles passed to a store are raw user input; implementations compare them by normalized key
// (see [TitleKey]). Duplicate keys are reported as shared.ErrDuplicateKey, absent records as
// shared.ErrNotFound, and any other backend failure wraps shared.ErrStoreUnavailable.
type MovieStore interface {
	// Insert stores a new record.
	Insert(ctx context.Context, movie Movie) error
	// DeleteByTitle removes the record with the given title and returns the rows affected.
	DeleteByTitle(ctx context.Context, title string) (int64, error)
	// SelectAll returns every record ordered by title key.
	SelectAll(ctx context.Context) ([]Movie, error)
	// SelectByTitle returns the record with the given title.
	SelectByTitle(ctx context.Context, title string) (Movie, error)
	// UpdateColumn changes the single field named by update on the record with the given title.
	UpdateColumn(ctx context.Context, title string, update FieldUpdate) (int64, error)
	// AverageRating returns the mean rating and the number of records in a phase.
	AverageRating(ctx context.Context, phase int) (float64, int, error)
	// DeleteAll removes every record and returns the rows affected.
	DeleteAll(ctx context.Context) (int64, error)
}
