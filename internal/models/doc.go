// Package models defines the domain types shared by the client, the controllers and the TUI.
//
// Everything here is transient page state: [Collection] and [Album] are rebuilt from the
// server-rendered pages on every load, [Device] maps are fetched fresh for each play request and
// [SearchResult] lists are replaced wholesale by each search.
package models
