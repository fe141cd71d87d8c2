package tasks

import (
	"sync"

	"github.com/desertthunder/albumctl/internal/models"
)

// Cursor is the pointer shape an album shows in the current mode.
type Cursor string

const (
	CursorPointer    Cursor = "pointer"
	CursorMove       Cursor = "move"
	CursorNotAllowed Cursor = "not-allowed"
)

// Affordance describes how one album may be interacted with in the current mode.
type Affordance struct {
	AlbumID     string
	Draggable   bool
	Dimmed      bool
	ShowOverlay bool // reorder controls drawn over the cover
	Cursor      Cursor
}

// CollectionPage is the state of one open collection.
type CollectionPage struct {
	mu          sync.RWMutex
	id          string
	name        string
	albums      []models.Album
	hidden      map[string]bool
	states      map[string]models.ItemState
	reorderMode bool
	revision    int
}

// NewCollectionPage copies c into a new page with reorder mode off.
func NewCollectionPage(c *models.Collection) *CollectionPage {
	p := &CollectionPage{
		hidden: make(map[string]bool),
		states: make(map[string]models.ItemState),
	}
	if c != nil {
		p.id = c.ID
		p.name = c.Name
		p.albums = append([]models.Album(nil), c.Albums...)
	}
	return p
}

func (p *CollectionPage) ID() string   { return p.id }
func (p *CollectionPage) Name() string { return p.name }

// Albums returns the visible albums in display order.
func (p *CollectionPage) Albums() []models.Album {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]models.Album(nil), p.albums...)
}

// Collection returns a snapshot of the visible collection.
func (p *CollectionPage) Collection() *models.Collection {
	return &models.Collection{ID: p.id, Name: p.name, Albums: p.Albums()}
}

// Album looks up a visible album.
func (p *CollectionPage) Album(id string) (models.Album, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if i := p.indexOf(id); i >= 0 {
		return p.albums[i], true
	}
	return models.Album{}, false
}

// Hide removes an album from view. It reports whether the album was visible.
func (p *CollectionPage) Hide(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(id)
	if i < 0 {
		return false
	}
	p.albums = append(p.albums[:i], p.albums[i+1:]...)
	p.hidden[id] = true
	delete(p.states, id)
	p.revision++
	return true
}

// Hidden reports whether id was removed from view.
func (p *CollectionPage) Hidden(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hidden[id]
}

// State returns the reorder state of an album; unknown albums are idle.
func (p *CollectionPage) State(id string) models.ItemState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.states[id]
}

func (p *CollectionPage) setState(id string, s models.ItemState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s == models.StateIdle {
		delete(p.states, id)
		return
	}
	p.states[id] = s
}

// ReorderMode reports whether reorder mode is on.
func (p *CollectionPage) ReorderMode() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.reorderMode
}

// ToggleReorderMode flips reorder mode and returns the affordances for the new mode.
func (p *CollectionPage) ToggleReorderMode() []Affordance {
	p.mu.Lock()
	p.reorderMode = !p.reorderMode
	p.mu.Unlock()
	return p.Affordances()
}

// Affordances returns one entry per visible album, in display order.
func (p *CollectionPage) Affordances() []Affordance {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Affordance, 0, len(p.albums))
	for _, a := range p.albums {
		out = append(out, affordanceFor(a, p.reorderMode))
	}
	return out
}

func affordanceFor(a models.Album, reorderMode bool) Affordance {
	switch {
	case !reorderMode:
		return Affordance{AlbumID: a.ID, Cursor: CursorPointer, Dimmed: !a.Complete}
	case a.Complete:
		return Affordance{AlbumID: a.ID, Draggable: true, ShowOverlay: true, Cursor: CursorMove}
	default:
		return Affordance{AlbumID: a.ID, Dimmed: true, Cursor: CursorNotAllowed}
	}
}

// Sortable returns the albums that may be dragged: the complete ones.
func (p *CollectionPage) Sortable() []models.Album {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := []models.Album{}
	for _, a := range p.albums {
		if a.Complete {
			out = append(out, a)
		}
	}
	return out
}

// Revision increases on every change to the visible order.
func (p *CollectionPage) Revision() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.revision
}

// move places id at toIndex (clamped) and returns its previous index, the revision after the move,
// and the new successor. moved is false when the position did not change.
func (p *CollectionPage) move(id string, toIndex int) (from, rev int, next *string, moved bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	from = p.indexOf(id)
	if from < 0 {
		return -1, p.revision, nil, false
	}
	toIndex = max(0, min(toIndex, len(p.albums)-1))
	if toIndex == from {
		return from, p.revision, nil, false
	}

	moveAlbum(p.albums, from, toIndex)
	p.revision++
	return from, p.revision, NextAlbumID(p.albums, id), true
}

// restore undoes a move if nothing else changed the order since.
func (p *CollectionPage) restore(id string, from, rev int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.revision != rev {
		return false
	}
	i := p.indexOf(id)
	if i < 0 || from >= len(p.albums) {
		return false
	}
	moveAlbum(p.albums, i, from)
	p.revision++
	return true
}

func (p *CollectionPage) indexOf(id string) int {
	for i, a := range p.albums {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func moveAlbum(albums []models.Album, from, to int) {
	a := albums[from]
	if from < to {
		copy(albums[from:to], albums[from+1:to+1])
	} else {
		copy(albums[to+1:from+1], albums[to:from])
	}
	albums[to] = a
}

// NextAlbumID returns the id of the album displayed right after movedID, or nil when it is last.
func NextAlbumID(order []models.Album, movedID string) *string {
	for i, a := range order {
		if a.ID != movedID {
			continue
		}
		if i+1 < len(order) {
			next := order[i+1].ID
			return &next
		}
		return nil
	}
	return nil
}
