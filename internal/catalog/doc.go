// Package catalog implements the movie catalog's record validation and mutation engine.
//
// # Operations
//
// [Manager] exposes the catalog contract over an injected models.MovieStore:
//
//  1. Queries: [Manager.List], [Manager.FindByTitle], [Manager.Count]
//  2. Mutations: [Manager.Create], [Manager.RemoveByTitle], [Manager.UpdateField], [Manager.Clear]
//  3. Aggregates: [Manager.AverageRating] and the disambiguated [Manager.CategoryAverage]
//  4. Batch import: [Manager.ImportBatch], [Manager.ImportFile] with per-line fault isolation
//
// Every mutation validates its input with the rules package before the store is touched.
//
// # Errors
//
// Refused requests return a [*RejectionError]. It matches [ErrRejected] and one reason
// sentinel ([ErrInvalidValue], [ErrDuplicateTitle], [ErrNotFound], [ErrUnknownField],
// [ErrTypeMismatch]) through errors.Is. Backend failures match shared.ErrStoreUnavailable instead.
//
// # Import History
//
// The optional [Recorder] (repositories.ImportRepository) stores one models.ImportJob per
// [Manager.ImportFile] run. Recording errors are logged and never fail the import.
package catalog
