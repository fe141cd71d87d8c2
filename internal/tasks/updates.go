package tasks

import (
	"fmt"

	"github.com/desertthunder/albumctl/internal/models"
)

// ProgressUpdate represents a progress event during a request.
//
// Used to drive loading indicators in the CLI or UI layer.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Done reports whether the update closes its phase.
func (u ProgressUpdate) Done() bool { return u.Total > 0 && u.Step >= u.Total }

// Operation phase enumeration
type Phase int

const (
	LoadCollection Phase = iota
	RemoveAlbum
	MoveAlbum
	FetchDevices
	Play
)

func (p Phase) String() string {
	switch p {
	case LoadCollection:
		return "load_collection"
	case RemoveAlbum:
		return "remove_album"
	case MoveAlbum:
		return "move_album"
	case FetchDevices:
		return "fetch_devices"
	case Play:
		return "play"
	default:
		return ""
	}
}

// sendProgress sends update on progress if a receiver is ready.
//
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func loadingCollectionUpdate(id string) ProgressUpdate {
	return ProgressUpdate{Phase: LoadCollection, Step: 0, Total: 1, Message: fmt.Sprintf("Loading collection %s...", id)}
}

func loadedCollectionUpdate(c *models.Collection) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadCollection,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %s (%d albums)", c.Name, len(c.Albums)),
		Data:    c,
	}
}

func removingUpdate(a models.Album) ProgressUpdate {
	return ProgressUpdate{Phase: RemoveAlbum, Step: 0, Total: 1, Message: fmt.Sprintf("Removing %s...", a.Name), Data: a}
}

func removedUpdate(a models.Album, err error) ProgressUpdate {
	msg := fmt.Sprintf("Removed %s", a.Name)
	if err != nil {
		msg = fmt.Sprintf("Failed to remove %s", a.Name)
	}
	return ProgressUpdate{Phase: RemoveAlbum, Step: 1, Total: 1, Message: msg, Data: a}
}

func movingUpdate(step int, a models.Album, dest string) ProgressUpdate {
	msgs := []string{
		fmt.Sprintf("Adding %s to %s...", a.Name, dest),
		fmt.Sprintf("Removing %s from this collection...", a.Name),
		fmt.Sprintf("Moved %s", a.Name),
	}
	return ProgressUpdate{Phase: MoveAlbum, Step: step, Total: 2, Message: msgs[step], Data: a}
}

func fetchingDevicesUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: FetchDevices, Step: 0, Total: 1, Message: "Fetching devices..."}
}

func fetchedDevicesUpdate(devices []models.Device) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDevices,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d devices", len(devices)),
		Data:    devices,
	}
}

func playingUpdate(deviceID string) ProgressUpdate {
	return ProgressUpdate{Phase: Play, Step: 0, Total: 1, Message: fmt.Sprintf("Starting playback on %s...", deviceID)}
}

func playedUpdate(err error) ProgressUpdate {
	msg := "Playback started"
	if err != nil {
		msg = "Playback failed"
	}
	return ProgressUpdate{Phase: Play, Step: 1, Total: 1, Message: msg}
}
