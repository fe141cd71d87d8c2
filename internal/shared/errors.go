package shared

import "fmt"

// GenericFailureMessage is shown for transport failures, where the server gave no usable reason.
const GenericFailureMessage = "Sorry, something went wrong. Please try again."

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig  = fmt.Errorf("configuration not found")
	ErrInvalidConfig  = fmt.Errorf("invalid configuration")
	ErrMissingSession = fmt.Errorf("missing session cookie")

	// API and service errors
	ErrTransport          = fmt.Errorf("transport failure")
	ErrApplication        = fmt.Errorf("application failure")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrCollectionNotFound = fmt.Errorf("collection not found")
	ErrAlbumNotFound      = fmt.Errorf("album not found")
	ErrNoDevices          = fmt.Errorf("no playback devices available")
	ErrDeviceNotFound     = fmt.Errorf("playback device not found")

	// Page interaction errors
	ErrReorderModeOff  = fmt.Errorf("reorder mode is off")
	ErrReorderModeOn   = fmt.Errorf("reorder mode is on")
	ErrIncompleteAlbum = fmt.Errorf("album is incomplete")
	ErrNotConfirmed    = fmt.Errorf("action not confirmed")
	ErrNoSelection     = fmt.Errorf("no album selected")
	ErrNoSearchResult  = fmt.Errorf("no such search result")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
