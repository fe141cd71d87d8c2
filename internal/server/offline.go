package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/services"
)

// CatalogItem is an album or track the offline backend can find and add.
type CatalogItem struct {
	Type     models.MediaType
	ID       string
	Name     string
	Artists  string
	ImageURL string
}

// Link returns the open.spotify.com link of the item.
func (c CatalogItem) Link() string {
	return fmt.Sprintf("https://open.spotify.com/%s/%s", c.Type, c.ID)
}

// Playback is the last play request the offline backend accepted.
type Playback struct {
	CollectionID string
	DeviceID     string
	StartAlbumID string
	Shuffle      bool
}

// OfflineStore holds the state of the offline backend.
type OfflineStore struct {
	mu          sync.RWMutex
	order       []string
	collections map[string]*models.Collection
	devices     map[string]string // name → id
	catalog     []CatalogItem
	lastPlay    *Playback
	failures    map[string]string // path → exception for the next request
}

// NewOfflineStore creates a store over copies of collections.
func NewOfflineStore(collections []models.Collection, devices map[string]string, catalog []CatalogItem) *OfflineStore {
	s := &OfflineStore{
		collections: make(map[string]*models.Collection),
		devices:     make(map[string]string),
		catalog:     append([]CatalogItem(nil), catalog...),
		failures:    make(map[string]string),
	}
	for _, c := range collections {
		c.Albums = append([]models.Album(nil), c.Albums...)
		s.order = append(s.order, c.ID)
		s.collections[c.ID] = &c
	}
	for name, id := range devices {
		s.devices[name] = id
	}
	return s
}

// DemoStore returns a store seeded with two collections, two devices and a small catalog.
func DemoStore() *OfflineStore {
	img := func(id string) string { return "https://i.scdn.co/image/" + id }
	album := func(id, name, artists string, complete bool) models.Album {
		return models.Album{
			ID:       id,
			Name:     name,
			Artists:  artists,
			ImageURL: img(id),
			Link:     "https://open.spotify.com/album/" + id,
			Complete: complete,
		}
	}

	collections := []models.Collection{
		{
			ID:   "offline",
			Name: "Offline Favourites",
			Albums: []models.Album{
				album("1WLxvd8Wv8KJwF1fz5uQBN", "Blue", "Joni Mitchell", true),
				album("4FjS1Fk2m5L5dkd3o8YFqV", "Hejira", "Joni Mitchell", true),
				album("2PZtWaQbAEF6QXjkSWk3A6", "Pink Moon", "Nick Drake", false),
				album("0ETFjACtuP2ADo6LFhL6HN", "Abbey Road", "The Beatles", true),
				album("6QaVfG1pHYl1z15ZxkvVDW", "Sticky Fingers", "The Rolling Stones", true),
			},
		},
		{
			ID:   "sunday",
			Name: "Sunday Morning",
			Albums: []models.Album{
				album("1weenld61qoidwYuZ1GESA", "Kind of Blue", "Miles Davis", true),
				album("7dxKtc08dYeRVHt3p9CZJn", "A Love Supreme", "John Coltrane", true),
			},
		},
	}

	catalog := []CatalogItem{}
	for _, c := range collections {
		for _, a := range c.Albums {
			catalog = append(catalog, CatalogItem{Type: models.MediaAlbum, ID: a.ID, Name: a.Name, Artists: a.Artists, ImageURL: a.ImageURL})
		}
	}
	catalog = append(catalog,
		CatalogItem{Type: models.MediaAlbum, ID: "2guirTSEqLizK7j9i1MTTZ", Name: "Nevermind", Artists: "Nirvana", ImageURL: img("2guirTSEqLizK7j9i1MTTZ")},
		CatalogItem{Type: models.MediaAlbum, ID: "6dVIqQ8qmQ5GBnJ9shOYGE", Name: "OK Computer", Artists: "Radiohead", ImageURL: img("6dVIqQ8qmQ5GBnJ9shOYGE")},
		CatalogItem{Type: models.MediaTrack, ID: "5ghIJDpPoe3CfHMGu71E6T", Name: "Smells Like Teen Spirit", Artists: "Nirvana", ImageURL: img("2guirTSEqLizK7j9i1MTTZ")},
		CatalogItem{Type: models.MediaTrack, ID: "3SVAN3BRByDmHOhKyIDxfC", Name: "River", Artists: "Joni Mitchell", ImageURL: img("1WLxvd8Wv8KJwF1fz5uQBN")},
	)

	devices := map[string]string{"Kitchen Speaker": "offline-kitchen", "Laptop": "offline-laptop"}
	return NewOfflineStore(collections, devices, catalog)
}

// Collection returns a copy of a stored collection.
func (s *OfflineStore) Collection(id string) (models.Collection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[id]
	if !ok {
		return models.Collection{}, false
	}
	out := *c
	out.Albums = append([]models.Album(nil), c.Albums...)
	return out, true
}

// Summaries lists the stored collections in insertion order.
func (s *OfflineStore) Summaries() []models.CollectionSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CollectionSummary, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, models.CollectionSummary{ID: id, Name: s.collections[id].Name})
	}
	return out
}

// LastPlay returns the last accepted play request.
func (s *OfflineStore) LastPlay() (Playback, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastPlay == nil {
		return Playback{}, false
	}
	return *s.lastPlay, true
}

// FailNext makes the next request to path answer with exception.
func (s *OfflineStore) FailNext(path, exception string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = exception
}

func (s *OfflineStore) takeFailure(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.failures[path]
	delete(s.failures, path)
	return msg, ok
}

// applicationError is reported to clients as {"success": false, "exception": msg}.
type applicationError string

func (e applicationError) Error() string { return string(e) }

const (
	errCollectionMissing applicationError = "Collection not found."
	errAlbumMissing      applicationError = "Album is not in this collection."
	errAlbumUnknown      applicationError = "Album not found."
	errAlbumPresent      applicationError = "Album is already in this collection."
	errDeviceMissing     applicationError = "Device not found. Open Spotify on the device and try again."
)

func (s *OfflineStore) removeAlbum(req services.RemoveAlbumRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[req.CollectionID]
	if !ok {
		return errCollectionMissing
	}
	i := albumIndex(c.Albums, req.AlbumID)
	if i < 0 {
		return errAlbumMissing
	}
	c.Albums = slices.Delete(c.Albums, i, i+1)
	return nil
}

func (s *OfflineStore) reorder(req services.ReorderRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[req.CollectionID]
	if !ok {
		return errCollectionMissing
	}
	from := albumIndex(c.Albums, req.MovedAlbumID)
	if from < 0 {
		return errAlbumMissing
	}
	if req.NextAlbumID != nil && *req.NextAlbumID == req.MovedAlbumID {
		return applicationError("An album cannot be moved in front of itself.")
	}
	if req.NextAlbumID != nil && albumIndex(c.Albums, *req.NextAlbumID) < 0 {
		return errAlbumMissing
	}

	moved := c.Albums[from]
	rest := slices.Delete(c.Albums, from, from+1)
	to := len(rest)
	if req.NextAlbumID != nil {
		to = albumIndex(rest, *req.NextAlbumID)
	}
	c.Albums = slices.Insert(rest, to, moved)
	return nil
}

func (s *OfflineStore) addAlbum(req services.AddAlbumRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[req.DestCollectionID]
	if !ok {
		return errCollectionMissing
	}

	if i := albumIndex(c.Albums, req.AlbumID); i >= 0 {
		if c.Albums[i].Complete {
			return errAlbumPresent
		}
		c.Albums[i].Complete = true
		return nil
	}

	album, ok := s.lookupAlbum(req.AlbumID)
	if !ok {
		return errAlbumUnknown
	}
	album.Complete = true
	c.Albums = append(c.Albums, album)
	return nil
}

// lookupAlbum searches every collection, then the catalog. Callers hold s.mu.
func (s *OfflineStore) lookupAlbum(id string) (models.Album, bool) {
	for _, c := range s.collections {
		if i := albumIndex(c.Albums, id); i >= 0 {
			return c.Albums[i], true
		}
	}
	for _, item := range s.catalog {
		if item.Type == models.MediaAlbum && item.ID == id {
			return models.Album{ID: item.ID, Name: item.Name, Artists: item.Artists, ImageURL: item.ImageURL, Link: item.Link()}, true
		}
	}
	return models.Album{}, false
}

func (s *OfflineStore) play(req services.PlayRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[req.CollectionID]
	if !ok {
		return errCollectionMissing
	}
	found := false
	for _, id := range s.devices {
		if id == req.DeviceID {
			found = true
			break
		}
	}
	if !found {
		return errDeviceMissing
	}
	if req.StartAlbumID != "" && albumIndex(c.Albums, req.StartAlbumID) < 0 {
		return errAlbumMissing
	}

	s.lastPlay = &Playback{CollectionID: req.CollectionID, DeviceID: req.DeviceID, StartAlbumID: req.StartAlbumID, Shuffle: req.Shuffle}
	return nil
}

func (s *OfflineStore) search(req services.SearchRequest) services.SearchResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text := strings.TrimSpace(req.Text)
	resp := services.SearchResponse{Results: []models.SearchResult{}}

	if models.LooksLikeLink(text) {
		var (
			id string
			ok bool
		)
		if req.MediaType == models.MediaTrack {
			id, ok = models.TrackIDFromLink(text)
		} else {
			id, ok = models.AlbumIDFromLink(text)
		}
		if !ok {
			resp.InvalidLink = true
			return resp
		}
		for _, item := range s.catalog {
			if item.Type == req.MediaType && item.ID == id {
				resp.Results = append(resp.Results, item.result())
			}
		}
		return resp
	}

	needle := strings.ToLower(text)
	for _, item := range s.catalog {
		if item.Type != req.MediaType {
			continue
		}
		if strings.Contains(strings.ToLower(item.Name), needle) || strings.Contains(strings.ToLower(item.Artists), needle) {
			resp.Results = append(resp.Results, item.result())
			if len(resp.Results) == models.MaxSearchResults {
				break
			}
		}
	}
	return resp
}

func (c CatalogItem) result() models.SearchResult {
	return models.SearchResult{Name: fmt.Sprintf("%s - %s", c.Name, c.Artists), ImageURL: c.ImageURL, Link: c.Link()}
}

func (s *OfflineStore) deviceMap() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.devices))
	for k, v := range s.devices {
		out[k] = v
	}
	return out
}

func albumIndex(albums []models.Album, id string) int {
	return slices.IndexFunc(albums, func(a models.Album) bool { return a.ID == id })
}

var (
	indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>Album Collections</title></head>
<body>
<h1>Collections</h1>
<ul>
{{- range .}}
  <li data-collection_id="{{.ID}}" data-collection_name="{{.Name}}"><a href="/collection/{{.ID}}">{{.Name}}</a></li>
{{- end}}
</ul>
</body>
</html>
`))

	collectionTemplate = template.Must(template.New("collection").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Name}}</title></head>
<body>
<h1 id="collection" data-collection_id="{{.ID}}" data-collection_name="{{.Name}}">{{.Name}}</h1>
<div id="albums">
{{- range .Albums}}
  <div class="album{{if not .Complete}} incomplete{{end}}" data-album_id="{{.ID}}" data-album_name="{{.Name}}"
       data-album_artists="{{.Artists}}" data-album_img_url="{{.ImageURL}}" data-album_link="{{.Link}}"
       data-album_complete="{{.Complete}}">
    <img src="{{.ImageURL}}" alt="{{.Name}}">
  </div>
{{- end}}
</div>
</body>
</html>
`))
)

// OfflineHandler serves the collections site from an [OfflineStore].
type OfflineHandler struct {
	store  *OfflineStore
	logger *log.Logger
	mux    *http.ServeMux
}

// NewOfflineHandler creates a handler over store.
func NewOfflineHandler(store *OfflineStore, logger *log.Logger) *OfflineHandler {
	h := &OfflineHandler{store: store, logger: logger, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /{$}", h.index)
	h.mux.HandleFunc("GET /collection/{id}", h.collection)
	h.mux.HandleFunc("POST "+services.PathRemoveAlbum, jsonEndpoint(h, h.store.removeAlbum))
	h.mux.HandleFunc("POST "+services.PathReorderCollection, jsonEndpoint(h, h.store.reorder))
	h.mux.HandleFunc("POST "+services.PathAddAlbum, jsonEndpoint(h, h.store.addAlbum))
	h.mux.HandleFunc("POST "+services.PathGetDevices, h.devices)
	h.mux.HandleFunc("POST "+services.PathPlayCollection, h.playCollection)
	h.mux.HandleFunc("POST "+services.PathSearch, h.search)
	return h
}

// Store returns the backing store.
func (h *OfflineHandler) Store() *OfflineStore { return h.store }

// Routes returns the HTTP routes this handler serves.
func (h *OfflineHandler) Routes() []string { return []string{"/"} }

func (h *OfflineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) { h.mux.ServeHTTP(w, r) }

func (h *OfflineHandler) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, indexTemplate, h.store.Summaries())
}

func (h *OfflineHandler) collection(w http.ResponseWriter, r *http.Request) {
	c, ok := h.store.Collection(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.render(w, collectionTemplate, c)
}

func (h *OfflineHandler) render(w http.ResponseWriter, t *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.Execute(w, data); err != nil {
		h.logger.Error("failed to render page", "template", t.Name(), "error", err)
	}
}

// jsonEndpoint decodes a T, applies fn and answers with the success envelope.
func jsonEndpoint[T any](h *OfflineHandler, fn func(T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req T
		if !h.decode(w, r, &req) {
			return
		}
		if err := fn(req); err != nil {
			h.writeJSON(w, map[string]any{"success": false, "exception": err.Error()})
			return
		}
		h.writeJSON(w, map[string]any{"success": true})
	}
}

func (h *OfflineHandler) devices(w http.ResponseWriter, r *http.Request) {
	if !h.decode(w, r, &struct{}{}) {
		return
	}
	h.writeJSON(w, map[string]any{"devices": h.store.deviceMap()})
}

func (h *OfflineHandler) playCollection(w http.ResponseWriter, r *http.Request) {
	var req services.PlayRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.store.play(req); err != nil {
		h.writeJSON(w, map[string]any{"played": false, "exception": err.Error()})
		return
	}
	h.writeJSON(w, map[string]any{"played": true})
}

func (h *OfflineHandler) search(w http.ResponseWriter, r *http.Request) {
	var req services.SearchRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.MediaType == "" {
		req.MediaType = models.MediaAlbum
	}
	h.writeJSON(w, h.store.search(req))
}

// decode reads the JSON body into v, answering injected failures and bad bodies itself.
func (h *OfflineHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if msg, ok := h.store.takeFailure(r.URL.Path); ok {
		h.writeJSON(w, map[string]any{"success": false, "exception": msg})
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *OfflineHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// NewOfflineRouter wires the offline handler behind logging and session middleware.
func NewOfflineRouter(store *OfflineStore, logger *log.Logger, cookieName, session string) *BasicRouter {
	router := NewBasicRouter()
	router.Use(LoggingMiddleware(logger), SessionMiddleware(cookieName, session))
	router.Handler(NewOfflineHandler(store, logger))
	return router
}
