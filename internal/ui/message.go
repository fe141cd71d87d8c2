package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgCollectionsFetched MsgKind = iota
	MsgCollectionLoaded
	MsgReorderSettled
	MsgRemoved
	MsgMoved
	MsgDevicesFetched
	MsgPlayed
	MsgSearchState
	MsgProgressUpdate
)

type collectionsResult struct {
	collections []models.CollectionSummary
	err         error
}

type albumResult struct {
	album models.Album
	err   error
}

type devicesResult struct {
	devices []models.Device
	err     error
}

type pageResult struct {
	page *tasks.CollectionPage
	err  error
}

// collectionsFetchedMsg is the constructor for [MsgCollectionsFetched]
func collectionsFetchedMsg(collections []models.CollectionSummary, err error) Msg {
	return Msg{kind: MsgCollectionsFetched, data: collectionsResult{collections, err}}
}

// collectionLoadedMsg is the constructor for [MsgCollectionLoaded]
func collectionLoadedMsg(page *tasks.CollectionPage, err error) Msg {
	return Msg{kind: MsgCollectionLoaded, data: pageResult{page, err}}
}

// reorderSettledMsg is the constructor for [MsgReorderSettled]
func reorderSettledMsg(album models.Album, err error) Msg {
	return Msg{kind: MsgReorderSettled, data: albumResult{album, err}}
}

// removedMsg is the constructor for [MsgRemoved]
func removedMsg(album models.Album, err error) Msg {
	return Msg{kind: MsgRemoved, data: albumResult{album, err}}
}

// movedMsg is the constructor for [MsgMoved]
func movedMsg(album models.Album, err error) Msg {
	return Msg{kind: MsgMoved, data: albumResult{album, err}}
}

// devicesFetchedMsg is the constructor for [MsgDevicesFetched]
func devicesFetchedMsg(devices []models.Device, err error) Msg {
	return Msg{kind: MsgDevicesFetched, data: devicesResult{devices, err}}
}

// playedMsg is the constructor for [MsgPlayed]
func playedMsg(err error) Msg {
	return Msg{kind: MsgPlayed, data: err}
}

// searchStateMsg is the constructor for [MsgSearchState]
func searchStateMsg(state tasks.SearchState) Msg {
	return Msg{kind: MsgSearchState, data: state}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}
