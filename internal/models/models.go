package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// MaxSearchResults is the most result rows a search response can fill.
const MaxSearchResults = 20

// Album is one entry of a collection, as carried by the data-album_* attributes of the collection page.
type Album struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Artists  string `json:"artists"`
	ImageURL string `json:"img_url"`
	Link     string `json:"link"`
	Complete bool   `json:"complete"` // every track of the album is in the playlist
}

// Collection is a named, ordered list of albums backed by a streaming-service playlist.
type Collection struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Albums []Album `json:"albums"`
}

// CollectionSummary is a collection as listed on the index page.
type CollectionSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IncompleteCount returns how many albums still lack tracks.
func (c *Collection) IncompleteCount() int {
	n := 0
	for _, a := range c.Albums {
		if !a.Complete {
			n++
		}
	}
	return n
}

// Device is a playback target offered by the streaming service.
type Device struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SearchResult is one row of a music search.
type SearchResult struct {
	Name     string `json:"music_name"`
	ImageURL string `json:"music_img_url"`
	Link     string `json:"music_link"`
}

// MediaType selects what a search looks for.
type MediaType string

const (
	MediaAlbum MediaType = "album"
	MediaTrack MediaType = "track"
)

// ParseMediaType validates s as a [MediaType].
func ParseMediaType(s string) (MediaType, error) {
	switch MediaType(strings.ToLower(s)) {
	case MediaAlbum:
		return MediaAlbum, nil
	case MediaTrack:
		return MediaTrack, nil
	default:
		return "", fmt.Errorf("unknown media type %q", s)
	}
}

// ItemState is the visual state of an album while a reorder request is outstanding.
type ItemState int

const (
	StateIdle ItemState = iota
	StateInFlight
	StateSettled
	StateError
)

func (s ItemState) String() string {
	switch s {
	case StateInFlight:
		return "in_flight"
	case StateSettled:
		return "settled"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// AlbumIDFromLink extracts the album id from an open.spotify.com/album/<id> link or a spotify:album:<id> URI.
func AlbumIDFromLink(link string) (string, bool) {
	return idFromLink(link, "album")
}

// TrackIDFromLink is [AlbumIDFromLink] for tracks.
func TrackIDFromLink(link string) (string, bool) {
	return idFromLink(link, "track")
}

func idFromLink(link, kind string) (string, bool) {
	link = strings.TrimSpace(link)

	if rest, ok := strings.CutPrefix(link, "spotify:"+kind+":"); ok {
		return rest, rest != ""
	}

	u, err := url.Parse(link)
	if err != nil || u.Host != "open.spotify.com" {
		return "", false
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	// Localised links look like /intl-de/album/<id>
	if len(parts) == 3 && strings.HasPrefix(parts[0], "intl-") {
		parts = parts[1:]
	}
	if len(parts) != 2 || parts[0] != kind || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// LooksLikeLink reports whether text is meant as a link rather than free search text.
func LooksLikeLink(text string) bool {
	text = strings.TrimSpace(text)
	return strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") || strings.HasPrefix(text, "spotify:")
}

// ActivityKind names the request an [Activity] records.
type ActivityKind string

const (
	ActivityRemove  ActivityKind = "remove"
	ActivityReorder ActivityKind = "reorder"
	ActivityAdd     ActivityKind = "add"
	ActivityMove    ActivityKind = "move"
	ActivityPlay    ActivityKind = "play"
	ActivitySearch  ActivityKind = "search"
)

// Activity is one journaled request and its outcome.
type Activity struct {
	ID           string       `json:"id"`
	Kind         ActivityKind `json:"kind"`
	CollectionID string       `json:"collection_id,omitempty"`
	AlbumID      string       `json:"album_id,omitempty"`
	Detail       string       `json:"detail,omitempty"`
	Success      bool         `json:"success"`
	Error        string       `json:"error,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
