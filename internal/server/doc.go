// Package server provides HTTP routing, middleware and the offline collections backend.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [BasicRouter] implements it over [http.ServeMux] with "METHOD /path" patterns.
// The first [Middleware] added is the outermost.
//
// # Offline Backend
//
// [OfflineHandler] answers every endpoint of the collections site from an in-memory [OfflineStore]:
// the index and collection pages (rendered with the same data-* attributes as the live site) and the
// JSON endpoints for remove, reorder, add, devices, play and search. It is what `albumctl offline` serves
// and what integration tests point a services.Client at.
//
// Semantics follow the live site: reorder places the moved album in front of next_album_id, or last when
// it is null; adding an incomplete album completes it in place; a search for something that looks like a
// link but is not a valid one answers invalid_link. [OfflineStore.FailNext] injects an exception for the
// next request to a path.
//
// # Middleware
//
// [LoggingMiddleware] logs each request through charmbracelet/log. [SessionMiddleware] rejects requests
// without the expected session cookie.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
