// Package models defines the movie catalog's entities and the persistence port the catalog manager depends on.
//
// The package contains three categories of types:
//
// 1. Records: the data the catalog stores
//   - [Movie] : a single catalog entry, identified by its normalized title
//   - [ImportJob] : history entry for one batch import run
//
// 2. Field updates: a tagged variant naming exactly one [Field] and a value of that field's type
//   - [FieldUpdate] : built with [SetTitle], [SetReleaseDate], [SetPhase], [SetDirector], [SetRunningTime], [SetRating]
//   - [NewFieldUpdate] and [ParseFieldUpdate] bridge untyped input (CLI flags, JSON) into a [FieldUpdate]
//
// 3. Results: values returned to presentation layers
//   - [BatchSummary] : added/failed counts for a batch import with per-line diagnostics
//   - [CategoryStats] : record count and mean rating for a phase
//
// The [MovieStore] interface is the persistence port. Implementations normalize titles themselves and
// report backend failures wrapped with shared.ErrStoreUnavailable, so callers can tell an empty catalog
// apart from an unreachable one.
package models
