// Package tasks holds the controllers behind a collection page.
//
// # Page State
//
// [CollectionPage] is the explicit form of what a browser page keeps in scope: the collection id and name,
// the visible albums in order, each album's [models.ItemState], and whether reorder mode is on.
// It is safe for concurrent use; a revision counter lets controllers notice concurrent edits.
//
// # Controllers
//
//   - [ReorderController] : drag-and-drop reordering of complete albums, one request per drop
//   - [AlbumControl] with [Selection] : the per-album modal (remove, move, play from here, open link)
//   - [RemoveAction] : confirmed removal addressed by album id
//   - [PlaybackController] : play mode selection, device listing and playback
//   - [SearchController] with [Debouncer] : debounced search and single-result picking
//
// # Progress Reporting
//
// Long requests report through [ProgressUpdate] values sent with select/default, so a slow
// or absent reader never blocks a request.
//
// # Activity Journal
//
// Controllers accept an optional [ActivityRecorder] (repositories.ActivityRepository) and record
// every request with its outcome. Journal errors are ignored.
package tasks
