package tasks

import (
	"sync"

	"github.com/desertthunder/albumctl/internal/models"
)

// Selection is the album the control modal currently targets.
type Selection struct {
	mu    sync.Mutex
	album models.Album
	set   bool
}

// Set targets a, replacing any previous target.
func (s *Selection) Set(a models.Album) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.album, s.set = a, true
}

// Target returns the current album, if any.
func (s *Selection) Target() (models.Album, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.album, s.set
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.album, s.set = models.Album{}, false
}

// clearIf clears the selection only when it targets id.
func (s *Selection) clearIf(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set && s.album.ID == id {
		s.album, s.set = models.Album{}, false
	}
}
