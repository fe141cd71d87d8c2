package models

import "testing"

func TestAlbumIDFromLink(t *testing.T) {
	tc := []struct {
		name   string
		link   string
		want   string
		wantOK bool
	}{
		{name: "web link", link: "https://open.spotify.com/album/4aawyAB9vmqN3uQ7FjRGTy", want: "4aawyAB9vmqN3uQ7FjRGTy", wantOK: true},
		{name: "web link with query", link: "https://open.spotify.com/album/4aawy?si=abc", want: "4aawy", wantOK: true},
		{name: "localised link", link: "https://open.spotify.com/intl-de/album/4aawy", want: "4aawy", wantOK: true},
		{name: "uri", link: "spotify:album:4aawy", want: "4aawy", wantOK: true},
		{name: "track link", link: "https://open.spotify.com/track/4aawy"},
		{name: "other host", link: "https://example.com/album/4aawy"},
		{name: "free text", link: "abbey road"},
		{name: "empty uri id", link: "spotify:album:"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AlbumIDFromLink(tt.link)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("AlbumIDFromLink(%q) = %q, %v; want %q, %v", tt.link, got, ok, tt.want, tt.wantOK)
			}
		})
	}

	t.Run("track", func(t *testing.T) {
		if id, ok := TrackIDFromLink("spotify:track:xyz"); !ok || id != "xyz" {
			t.Errorf("TrackIDFromLink() = %q, %v", id, ok)
		}
	})
}

func TestParseMediaType(t *testing.T) {
	if mt, err := ParseMediaType("Album"); err != nil || mt != MediaAlbum {
		t.Errorf("ParseMediaType(Album) = %v, %v", mt, err)
	}
	if _, err := ParseMediaType("podcast"); err == nil {
		t.Error("expected error for unknown media type")
	}
}

func TestLooksLikeLink(t *testing.T) {
	for text, want := range map[string]bool{
		"https://open.spotify.com/album/x": true,
		"  spotify:album:x":                true,
		"abbey road":                       false,
		"":                                 false,
	} {
		if got := LooksLikeLink(text); got != want {
			t.Errorf("LooksLikeLink(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestCollectionIncompleteCount(t *testing.T) {
	c := Collection{Albums: []Album{{ID: "a", Complete: true}, {ID: "b"}, {ID: "c"}}}
	if got := c.IncompleteCount(); got != 2 {
		t.Errorf("IncompleteCount() = %d, want 2", got)
	}
}

func TestItemStateString(t *testing.T) {
	if StateInFlight.String() != "in_flight" || StateError.String() != "error" || ItemState(42).String() != "idle" {
		t.Error("unexpected ItemState strings")
	}
}
