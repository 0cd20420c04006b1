// Package repositories implements database-backed persistence for the movie catalog.
//
// Key Implementations:
//   - [MovieRepository] : SQLite [models.MovieStore] over database/sql and go-sqlite3
//   - [PostgresMovieRepository] : PostgreSQL [models.MovieStore] over a pgx pool (or any [DBTX])
//   - [ImportRepository] : SQLite batch import history, used as catalog.Recorder
//
// Both movie stores key rows by title_key, the trimmed lowercase title, under a UNIQUE constraint so
// the catalog's uniqueness rule holds even with concurrent writers. Driver errors are classified
// into the shared store errors: unique violations are shared.ErrDuplicateKey, everything that is not
// a constraint violation wraps shared.ErrStoreUnavailable.
//
// Sequence numbers provide stable, human-readable ordering for import history independent of UUIDs
// and timestamps. The [NextSequence] function atomically increments per-table counters kept in
// dedicated sequence tables.
package repositories

import "github.com/desertthunder/moviedb/internal/models"

var (
	_ models.MovieStore = (*MovieRepository)(nil)
	_ models.MovieStore = (*PostgresMovieRepository)(nil)
)
