package tasks

import (
	"testing"

	"github.com/desertthunder/albumctl/internal/models"
)

func TestProgressUpdates(t *testing.T) {
	album := models.Album{ID: "a1", Name: "Blue"}

	tests := []struct {
		name   string
		update ProgressUpdate
		phase  string
		done   bool
	}{
		{"Loading", loadingCollectionUpdate("c1"), "load_collection", false},
		{"Loaded", loadedCollectionUpdate(&models.Collection{Name: "Jazz"}), "load_collection", true},
		{"Removing", removingUpdate(album), "remove_album", false},
		{"Removed", removedUpdate(album, nil), "remove_album", true},
		{"Moving", movingUpdate(0, album, "Rock"), "move_album", false},
		{"Moved", movingUpdate(2, album, "Rock"), "move_album", true},
		{"Fetching Devices", fetchingDevicesUpdate(), "fetch_devices", false},
		{"Fetched Devices", fetchedDevicesUpdate(nil), "fetch_devices", true},
		{"Playing", playingUpdate("d1"), "play", false},
		{"Played", playedUpdate(nil), "play", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.update.Phase.String(); got != tt.phase {
				t.Errorf("expected phase %q, got %q", tt.phase, got)
			}
			if tt.update.Done() != tt.done {
				t.Errorf("expected done=%v for %q", tt.done, tt.update.Message)
			}
		})
	}

	if got := Phase(99).String(); got != "" {
		t.Errorf("expected unknown phase to be unnamed, got %q", got)
	}
}
