// Package repositories implements SQLite persistence for the local activity journal.
//
// [ActivityRepository] stores one row per request the client sent to the collections site
// (remove, reorder, add, move, play, search) with its outcome. It satisfies tasks.ActivityRecorder,
// so controllers journal their requests directly; the history command reads it back.
//
// The schema is created by the embedded migrations in internal/shared.
package repositories
