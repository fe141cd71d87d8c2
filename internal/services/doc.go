// Package services implements the HTTP client for the album collections site.
//
// # Backend Interface
//
// [Backend] lists every operation the site offers to its pages. [Client] implements it against a live site
// (or the offline backend in internal/server); controllers in internal/tasks depend on narrow slices of it so they
// can be tested with doubles.
//
// # Pages
//
// The site renders collection state into HTML data attributes instead of exposing a read API.
// [ParseCollectionPage] and [ParseIndexPage] recover [models.Collection] and [models.CollectionSummary] values
// from those pages using golang.org/x/net/html.
//
// # Error Handling
//
// Two error classes come back from every call:
//   - [*APIError] : the request arrived and the site reported a failure (falsy success flag or an exception string).
//     The message is the server text, shown to users verbatim. Wraps [shared.ErrApplication].
//   - [shared.ErrTransport] : the request did not complete (network error, non-2xx status, undecodable body).
//     Users see [shared.GenericFailureMessage].
//
// Neither class is retried.
package services
