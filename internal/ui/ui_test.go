package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/services"
	"github.com/desertthunder/albumctl/internal/shared"
	tu "github.com/desertthunder/albumctl/internal/testing"
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	spaceKey = tea.KeyMsg{Type: tea.KeySpace}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

// press sends msg and runs the returned command, feeding its message back into the model.
func press(t *testing.T, m *Model, msg tea.Msg) {
	t.Helper()
	_, cmd := m.Update(msg)
	if cmd == nil {
		return
	}
	if out := cmd(); out != nil {
		if _, ok := out.(Msg); ok {
			m.Update(out)
		}
	}
}

func newTestModel(t *testing.T, backend *tu.MockBackend) *Model {
	t.Helper()
	if backend.CollectionFunc == nil {
		backend.CollectionFunc = func(ctx context.Context, id string) (*models.Collection, error) {
			return tu.SampleCollection(), nil
		}
	}
	m := NewModel(context.Background(), ModelOpts{Backend: backend, Recorder: &tu.FakeRecorder{}})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	m.Update(collectionsFetchedMsg([]models.CollectionSummary{
		{ID: "c1", Name: "Road Trip"},
		{ID: "c2", Name: "Rainy Day"},
	}, nil))
	press(t, m, enterKey)
	if m.view != AlbumsView {
		t.Fatalf("expected albums view, got %v", m.view)
	}
	return m
}

func TestModel(t *testing.T) {
	t.Run("collections error is shown", func(t *testing.T) {
		m := NewModel(context.Background(), ModelOpts{Backend: &tu.MockBackend{}})
		m.Update(collectionsFetchedMsg(nil, shared.ErrTransport))
		if m.err == nil || m.view != CollectionsView {
			t.Fatalf("expected error on collections view, got view=%v err=%v", m.view, m.err)
		}
	})

	t.Run("loads selected collection", func(t *testing.T) {
		m := newTestModel(t, &tu.MockBackend{})
		if m.page.ID() != "c1" || len(m.page.Albums()) != 4 {
			t.Fatalf("unexpected page %s with %d albums", m.page.ID(), len(m.page.Albums()))
		}
	})

	t.Run("grab requires reorder mode", func(t *testing.T) {
		m := newTestModel(t, &tu.MockBackend{})
		press(t, m, spaceKey)
		if !errors.Is(m.err, shared.ErrReorderModeOff) || m.grabbed != "" {
			t.Errorf("expected reorder mode error, got %v", m.err)
		}
	})

	t.Run("drag and drop sends reorder", func(t *testing.T) {
		backend := &tu.MockBackend{}
		m := newTestModel(t, backend)
		press(t, m, runes("r"))
		press(t, m, spaceKey)
		if m.grabbed != "a1" {
			t.Fatalf("expected a1 grabbed, got %q", m.grabbed)
		}
		press(t, m, runes("j"))
		press(t, m, spaceKey)

		reorders := backend.Reorders()
		if len(reorders) != 1 {
			t.Fatalf("expected 1 reorder, got %d", len(reorders))
		}
		if reorders[0].MovedAlbumID != "a1" || reorders[0].NextAlbumID == nil || *reorders[0].NextAlbumID != "a3" {
			t.Errorf("unexpected reorder request %+v", reorders[0])
		}
		if got := m.page.State("a1"); got != models.StateSettled {
			t.Errorf("expected settled, got %v", got)
		}
		if m.err != nil {
			t.Errorf("unexpected error %v", m.err)
		}
	})

	t.Run("incomplete album cannot be grabbed", func(t *testing.T) {
		m := newTestModel(t, &tu.MockBackend{})
		press(t, m, runes("r"))
		press(t, m, runes("j"))
		press(t, m, runes("j"))
		press(t, m, spaceKey)
		if !errors.Is(m.err, shared.ErrIncompleteAlbum) || m.grabbed != "" {
			t.Errorf("expected incomplete album error, got %v", m.err)
		}
	})

	t.Run("modal is blocked in reorder mode", func(t *testing.T) {
		m := newTestModel(t, &tu.MockBackend{})
		press(t, m, runes("r"))
		press(t, m, enterKey)
		if m.view != AlbumsView || !errors.Is(m.err, shared.ErrReorderModeOn) {
			t.Errorf("expected to stay on albums view, got view=%v err=%v", m.view, m.err)
		}
	})

	t.Run("declined removal sends nothing", func(t *testing.T) {
		backend := &tu.MockBackend{}
		m := newTestModel(t, backend)
		press(t, m, enterKey)
		press(t, m, runes("d"))
		if m.view != ConfirmView {
			t.Fatalf("expected confirm view, got %v", m.view)
		}
		press(t, m, runes("n"))
		if m.view != ModalView || len(backend.Removes()) != 0 {
			t.Errorf("expected modal view without removes, got view=%v removes=%d", m.view, len(backend.Removes()))
		}
	})

	t.Run("confirmed removal hides album", func(t *testing.T) {
		backend := &tu.MockBackend{}
		m := newTestModel(t, backend)
		press(t, m, enterKey)
		press(t, m, runes("d"))
		press(t, m, runes("y"))
		if len(backend.Removes()) != 1 || backend.Removes()[0].AlbumID != "a1" {
			t.Fatalf("unexpected removes %+v", backend.Removes())
		}
		if !m.page.Hidden("a1") || m.view != AlbumsView {
			t.Errorf("expected a1 hidden and albums view, got view=%v", m.view)
		}
	})

	t.Run("failed removal keeps album", func(t *testing.T) {
		backend := &tu.MockBackend{
			RemoveAlbumFunc: func(ctx context.Context, req services.RemoveAlbumRequest) error {
				return &services.APIError{Endpoint: services.PathRemoveAlbum, Message: "Album is not in this collection"}
			},
		}
		m := newTestModel(t, backend)
		press(t, m, enterKey)
		press(t, m, runes("d"))
		press(t, m, runes("y"))
		if m.page.Hidden("a1") {
			t.Error("album should stay visible")
		}
		if got := statusText(m.err); got != "Album is not in this collection" {
			t.Errorf("expected server message, got %q", got)
		}
	})

	t.Run("move lists other collections", func(t *testing.T) {
		backend := &tu.MockBackend{}
		m := newTestModel(t, backend)
		press(t, m, enterKey)
		press(t, m, runes("m"))
		if m.view != MoveTargetView || len(m.targets) != 1 || m.targets[0].ID != "c2" {
			t.Fatalf("unexpected move targets %+v", m.targets)
		}
		press(t, m, enterKey)
		if len(backend.Adds()) != 1 || backend.Adds()[0].DestCollectionID != "c2" {
			t.Errorf("unexpected adds %+v", backend.Adds())
		}
		if !m.page.Hidden("a1") {
			t.Error("moved album should be hidden")
		}
	})

	t.Run("play picks a device", func(t *testing.T) {
		backend := &tu.MockBackend{
			DevicesFunc: func(ctx context.Context) ([]models.Device, error) {
				return []models.Device{{ID: "d1", Name: "Kitchen"}}, nil
			},
		}
		m := newTestModel(t, backend)
		press(t, m, runes("s"))
		if m.view != DevicesView {
			t.Fatalf("expected devices view, got %v", m.view)
		}
		press(t, m, enterKey)
		plays := backend.Plays()
		if len(plays) != 1 || plays[0].DeviceID != "d1" || !plays[0].Shuffle {
			t.Errorf("unexpected plays %+v", plays)
		}
		if m.view != AlbumsView || m.err != nil {
			t.Errorf("expected albums view, got view=%v err=%v", m.view, m.err)
		}
	})

	t.Run("no devices stays on albums", func(t *testing.T) {
		m := newTestModel(t, &tu.MockBackend{})
		press(t, m, runes("p"))
		if m.view != AlbumsView || !errors.Is(m.err, shared.ErrNoDevices) {
			t.Errorf("expected no devices error, got view=%v err=%v", m.view, m.err)
		}
	})

	t.Run("escape returns to collections", func(t *testing.T) {
		m := newTestModel(t, &tu.MockBackend{})
		press(t, m, escKey)
		if m.view != CollectionsView || m.page != nil {
			t.Errorf("expected collections view, got %v", m.view)
		}
	})
}

func TestRenderAlbums(t *testing.T) {
	m := newTestModel(t, &tu.MockBackend{})
	out := m.View()
	for _, want := range []string{"Road Trip", "Blue - Joni Mitchell", "Court and Spark - Joni Mitchell (incomplete)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in view:\n%s", want, out)
		}
	}
}
