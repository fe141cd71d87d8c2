package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/shared"
	"golang.org/x/net/html"
)

// Attribute names carried by the server-rendered pages.
const (
	AttrCollectionID   = "data-collection_id"
	AttrCollectionName = "data-collection_name"
	AttrAlbumID        = "data-album_id"
	AttrAlbumName      = "data-album_name"
	AttrAlbumArtists   = "data-album_artists"
	AttrAlbumImageURL  = "data-album_img_url"
	AttrAlbumLink      = "data-album_link"
	AttrAlbumComplete  = "data-album_complete"
)

// ParseIndexPage returns every collection listed on the index page, in document order.
func ParseIndexPage(r io.Reader) ([]models.CollectionSummary, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse index page: %v", shared.ErrTransport, err)
	}

	seen := make(map[string]bool)
	collections := []models.CollectionSummary{}
	walk(doc, func(n *html.Node) {
		id, ok := attr(n, AttrCollectionID)
		if !ok || id == "" || seen[id] {
			return
		}
		name, _ := attr(n, AttrCollectionName)
		seen[id] = true
		collections = append(collections, models.CollectionSummary{ID: id, Name: name})
	})
	return collections, nil
}

// ParseCollectionPage returns the collection described by a collection page, albums in document order.
//
// Album elements are those carrying data-album_id; the first data-collection_name found names the collection.
func ParseCollectionPage(r io.Reader) (*models.Collection, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse collection page: %v", shared.ErrTransport, err)
	}

	collection := &models.Collection{Albums: []models.Album{}}
	seen := make(map[string]bool)

	walk(doc, func(n *html.Node) {
		if collection.Name == "" {
			if name, ok := attr(n, AttrCollectionName); ok {
				collection.Name = name
			}
		}
		if collection.ID == "" {
			if id, ok := attr(n, AttrCollectionID); ok {
				collection.ID = id
			}
		}

		id, ok := attr(n, AttrAlbumID)
		if !ok || id == "" || seen[id] {
			return
		}
		seen[id] = true

		album := models.Album{ID: id, Complete: true}
		album.Name, _ = attr(n, AttrAlbumName)
		album.Artists, _ = attr(n, AttrAlbumArtists)
		album.ImageURL, _ = attr(n, AttrAlbumImageURL)
		album.Link, _ = attr(n, AttrAlbumLink)
		if v, ok := attr(n, AttrAlbumComplete); ok {
			album.Complete = parseFlag(v)
		}
		collection.Albums = append(collection.Albums, album)
	})
	return collection, nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val), true
		}
	}
	return "", false
}

// parseFlag accepts the boolean spellings templates tend to emit (true, True, 1, yes).
func parseFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
