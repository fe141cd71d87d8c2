// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for managing album collections:
//  1. [CollectionsView] : Browse and filter collections
//  2. [AlbumsView] : List albums, toggle reorder mode and drag albums with grab/drop
//  3. [ModalView] : Act on one album (remove, move, play from here, open link)
//  4. [ConfirmView] : Confirm an album removal
//  5. [MoveTargetView] : Pick the destination collection for a move
//  6. [DevicesView] : Pick a playback device
//  7. [SearchView] : Debounced music search with album/track toggle
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Requests run as commands against the tasks controllers. Progress updates flow through a channel
// shared by every controller and drive the loading line.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
