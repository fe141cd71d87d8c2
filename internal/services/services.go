package services

import (
	"context"

	"github.com/desertthunder/albumctl/internal/models"
)

// Endpoint paths on the collections site.
const (
	PathIndex             = "/"
	PathCollection        = "/collection/"
	PathRemoveAlbum       = "/collection/remove_album"
	PathReorderCollection = "/collection/reorder_collection"
	PathAddAlbum          = "/collection/add_album"
	PathGetDevices        = "/collection/get_devices"
	PathPlayCollection    = "/collection/play_collection"
	PathSearch            = "/round/spotify_search"
)

// Backend defines every operation the collections site exposes to its pages.
type Backend interface {
	// Collections lists the user's collections from the index page.
	Collections(ctx context.Context) ([]models.CollectionSummary, error)

	// Collection loads one collection page with its albums in playlist order.
	Collection(ctx context.Context, collectionID string) (*models.Collection, error)

	// RemoveAlbum removes every track of an album from a collection.
	RemoveAlbum(ctx context.Context, req RemoveAlbumRequest) error

	// ReorderCollection moves an album in front of another one, or to the end.
	ReorderCollection(ctx context.Context, req ReorderRequest) error

	// AddAlbum adds an album to a collection, completing it in place if it was partially present.
	AddAlbum(ctx context.Context, req AddAlbumRequest) error

	// Devices returns the currently available playback devices.
	Devices(ctx context.Context) ([]models.Device, error)

	// PlayCollection starts playback of a collection on a device.
	PlayCollection(ctx context.Context, req PlayRequest) error

	// Search runs a music search or resolves a pasted link.
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// RemoveAlbumRequest is the body of [PathRemoveAlbum].
type RemoveAlbumRequest struct {
	CollectionID string `json:"collection_id"`
	AlbumID      string `json:"album_id"`
}

// ReorderRequest is the body of [PathReorderCollection].
//
// NextAlbumID is nil when the album moved to the end; it is sent as JSON null.
type ReorderRequest struct {
	CollectionID string  `json:"collection_id"`
	MovedAlbumID string  `json:"moved_album_id"`
	NextAlbumID  *string `json:"next_album_id"`
}

// AddAlbumRequest is the body of [PathAddAlbum].
type AddAlbumRequest struct {
	DestCollectionID string `json:"dest_collection_id"`
	AlbumID          string `json:"album_id"`
}

// PlayRequest is the body of [PathPlayCollection].
type PlayRequest struct {
	CollectionID string `json:"collection_id"`
	DeviceID     string `json:"device_id"`
	StartAlbumID string `json:"start_album_id,omitempty"`
	Shuffle      bool   `json:"shuffle,omitempty"`
}

// SearchRequest is the body of [PathSearch].
type SearchRequest struct {
	Text      string           `json:"search_text"`
	MediaType models.MediaType `json:"music_type"`
}

// SearchResponse is the decoded reply of [PathSearch].
type SearchResponse struct {
	InvalidLink bool                  `json:"invalid_link"`
	Results     []models.SearchResult `json:"music_results"`
}

// envelope holds the status fields shared by every JSON reply.
type envelope struct {
	Success   *bool   `json:"success"`
	Played    *bool   `json:"played"`
	Exception *string `json:"exception"`
}

func (e envelope) err(endpoint string) error {
	if e.Exception != nil && *e.Exception != "" {
		return &APIError{Endpoint: endpoint, Message: *e.Exception}
	}
	if (e.Success != nil && !*e.Success) || (e.Played != nil && !*e.Played) {
		return &APIError{Endpoint: endpoint, Message: "The request was not successful."}
	}
	return nil
}
