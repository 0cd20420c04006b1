// Package rules holds the field-level predicates every persisted movie must satisfy.
//
// The functions here are pure: no storage access, no logging, no error detail. They return
// a verdict only; the caller knows which field failed and is responsible for reporting it.
//
//   - [IsValidDate] : strict YYYY-MM-DD, real calendar date, year within [MinYear, MaxYear]
//   - [IsValidDuration] : running time in minutes within [MinDuration, MaxDuration]
//   - [IsValidRating] : rating within [MinRating, MaxRating]
//   - [IsValidCategory] : phase number greater than zero
//   - [IsNonBlank] : text that is not empty after trimming
package rules
