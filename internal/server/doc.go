// Package server exposes the movie catalog as a JSON HTTP API built on chi.
//
// # Router Infrastructure
//
// [NewRouter] assembles a [chi.Mux] with request IDs, real client IPs, request logging via [Logger], and panic
// recovery, then mounts every [Handler]. [Middleware] values follow the standard func(http.Handler) http.Handler
// shape so chi and project middleware compose freely.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, registering their own routes on a [chi.Router] so route
// definitions stay with the implementation. [MovieHandler] is the catalog handler:
//
//	GET    /healthz
//	GET    /movies
//	POST   /movies
//	GET    /movies/{title}
//	PATCH  /movies/{title}             {"field": "...", "value": ...}
//	DELETE /movies/{title}
//	GET    /phases/{phase}/average
//	POST   /imports                    text/plain batch body
//
// # Errors
//
// Catalog rejections map to 404 (not found), 409 (duplicate title) and 422 (every other reason). An unavailable
// store maps to 503. Bodies are [ErrorResponse] values carrying the rejection reason and message.
//
// # Lifecycle
//
// [Server.Start] listens until its context is cancelled and then shuts down gracefully.
package server
