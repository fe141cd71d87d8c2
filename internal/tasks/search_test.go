package tasks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/services"
	"github.com/desertthunder/albumctl/internal/shared"
	tu "github.com/desertthunder/albumctl/internal/testing"
)

func results(n int) []models.SearchResult {
	out := make([]models.SearchResult, n)
	for i := range out {
		out[i] = models.SearchResult{
			Name: fmt.Sprintf("Album %d", i),
			Link: fmt.Sprintf("https://open.spotify.com/album/r%d", i),
		}
	}
	return out
}

func waitForState(t *testing.T, c *SearchController) SearchState {
	t.Helper()
	select {
	case s := <-c.Updates():
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for search state")
		return SearchState{}
	}
}

func TestSearchController(t *testing.T) {
	ctx := context.Background()

	t.Run("Rapid Keystrokes Collapse To Final Value", func(t *testing.T) {
		backend := &tu.MockBackend{SearchFunc: func(context.Context, services.SearchRequest) (*services.SearchResponse, error) {
			return &services.SearchResponse{Results: results(1)}, nil
		}}
		// 200ms against a 1s window, scaled down.
		c := NewSearchController(ctx, backend, SearchOpts{Debounce: 100 * time.Millisecond})
		defer c.Close()

		c.Input("abc")
		time.Sleep(20 * time.Millisecond)
		c.Input("abcd")

		waitForState(t, c)
		time.Sleep(200 * time.Millisecond)

		searches := backend.Searches()
		if len(searches) != 1 {
			t.Fatalf("expected exactly 1 search, got %d", len(searches))
		}
		if searches[0].Text != "abcd" || searches[0].MediaType != models.MediaAlbum {
			t.Errorf("unexpected request %+v", searches[0])
		}
	})

	t.Run("Exactly One Panel", func(t *testing.T) {
		tests := []struct {
			name  string
			resp  *services.SearchResponse
			panel Panel
			rows  int
		}{
			{"Invalid Link", &services.SearchResponse{InvalidLink: true, Results: results(3)}, PanelInvalidLink, 0},
			{"No Results", &services.SearchResponse{}, PanelNoResults, 0},
			{"Results", &services.SearchResponse{Results: results(5)}, PanelResults, 5},
			{"Capped Results", &services.SearchResponse{Results: results(30)}, PanelResults, models.MaxSearchResults},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				backend := &tu.MockBackend{SearchFunc: func(context.Context, services.SearchRequest) (*services.SearchResponse, error) {
					return tt.resp, nil
				}}
				c := NewSearchController(ctx, backend, SearchOpts{})

				state, err := c.Search(ctx, "query")
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if state.Panel != tt.panel {
					t.Errorf("expected panel %s, got %s", tt.panel, state.Panel)
				}
				if len(state.Results) != tt.rows {
					t.Errorf("expected %d rows, got %d", tt.rows, len(state.Results))
				}
			})
		}
	})

	t.Run("Pick Leaves One Row", func(t *testing.T) {
		backend := &tu.MockBackend{SearchFunc: func(context.Context, services.SearchRequest) (*services.SearchResponse, error) {
			return &services.SearchResponse{Results: results(4)}, nil
		}}
		c := NewSearchController(ctx, backend, SearchOpts{})
		c.Search(ctx, "blue")

		picked, err := c.Pick(2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		state := c.State()
		if len(state.Results) != 1 || state.Results[0] != picked {
			t.Errorf("expected only the picked row, got %+v", state.Results)
		}
		if state.Panel != PanelResults {
			t.Errorf("expected results panel, got %s", state.Panel)
		}
		if state.Input != picked.Link {
			t.Errorf("expected input to hold the link, got %q", state.Input)
		}
		if _, err := c.Pick(1); !errors.Is(err, shared.ErrNoSearchResult) {
			t.Errorf("expected ErrNoSearchResult for hidden row, got %v", err)
		}
		if again, err := c.Pick(0); err != nil || again != picked {
			t.Errorf("expected row 0 to be the picked row, got %+v, %v", again, err)
		}
	})

	t.Run("Pick Cancels Pending Search", func(t *testing.T) {
		backend := &tu.MockBackend{SearchFunc: func(context.Context, services.SearchRequest) (*services.SearchResponse, error) {
			return &services.SearchResponse{Results: results(5)}, nil
		}}
		c := NewSearchController(ctx, backend, SearchOpts{Debounce: 50 * time.Millisecond})
		defer c.Close()
		c.Search(ctx, "ab")

		c.Input("abc")
		picked, err := c.Pick(2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		time.Sleep(150 * time.Millisecond)

		state := c.State()
		if len(state.Results) != 1 || state.Picked == nil || *state.Picked != picked {
			t.Errorf("expected the pick to survive, got %d rows picked=%v", len(state.Results), state.Picked)
		}
		if state.Input != picked.Link {
			t.Errorf("expected input %q, got %q", picked.Link, state.Input)
		}
		if n := len(backend.Searches()); n != 1 {
			t.Errorf("expected the pending search to be dropped, got %d searches", n)
		}
	})

	t.Run("Pick Drops In-Flight Search", func(t *testing.T) {
		slow := make(chan struct{})
		backend := &tu.MockBackend{SearchFunc: func(_ context.Context, req services.SearchRequest) (*services.SearchResponse, error) {
			if req.Text == "slow" {
				<-slow
				return &services.SearchResponse{}, nil
			}
			return &services.SearchResponse{Results: results(5)}, nil
		}}
		c := NewSearchController(ctx, backend, SearchOpts{})
		c.Search(ctx, "ab")

		done := make(chan struct{})
		go func() { c.Search(ctx, "slow"); close(done) }()
		time.Sleep(20 * time.Millisecond)

		if _, err := c.Pick(1); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(slow)
		<-done

		if state := c.State(); state.Panel != PanelResults || len(state.Results) != 1 || state.Picked == nil {
			t.Errorf("expected the pick to survive, got %s with %d rows", state.Panel, len(state.Results))
		}
	})

	t.Run("Pick Without Results", func(t *testing.T) {
		c := NewSearchController(ctx, &tu.MockBackend{}, SearchOpts{})
		if _, err := c.Pick(0); !errors.Is(err, shared.ErrNoSearchResult) {
			t.Errorf("expected ErrNoSearchResult, got %v", err)
		}
	})

	t.Run("Stale Response Dropped", func(t *testing.T) {
		slow := make(chan struct{})
		backend := &tu.MockBackend{SearchFunc: func(_ context.Context, req services.SearchRequest) (*services.SearchResponse, error) {
			if req.Text == "old" {
				<-slow
				return &services.SearchResponse{Results: results(3)}, nil
			}
			return &services.SearchResponse{}, nil
		}}
		c := NewSearchController(ctx, backend, SearchOpts{})

		done := make(chan struct{})
		go func() { c.Search(ctx, "old"); close(done) }()
		time.Sleep(20 * time.Millisecond)

		if _, err := c.Search(ctx, "new"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(slow)
		<-done

		if state := c.State(); state.Panel != PanelNoResults {
			t.Errorf("expected newer response to win, got %s", state.Panel)
		}
	})

	t.Run("Clearing Input Hides Panels", func(t *testing.T) {
		backend := &tu.MockBackend{SearchFunc: func(context.Context, services.SearchRequest) (*services.SearchResponse, error) {
			return &services.SearchResponse{Results: results(2)}, nil
		}}
		c := NewSearchController(ctx, backend, SearchOpts{Debounce: 20 * time.Millisecond})
		c.Search(ctx, "blue")

		c.Input("  ")
		time.Sleep(60 * time.Millisecond)

		if state := c.State(); state.Panel != PanelNone || len(state.Results) != 0 {
			t.Errorf("expected no panel, got %s with %d rows", state.Panel, len(state.Results))
		}
		if len(backend.Searches()) != 1 {
			t.Errorf("expected no search for empty input, got %d", len(backend.Searches()))
		}
	})

	t.Run("Error Keeps Panels", func(t *testing.T) {
		calls := 0
		backend := &tu.MockBackend{SearchFunc: func(context.Context, services.SearchRequest) (*services.SearchResponse, error) {
			calls++
			if calls == 2 {
				return nil, shared.ErrTransport
			}
			return &services.SearchResponse{Results: results(2)}, nil
		}}
		c := NewSearchController(ctx, backend, SearchOpts{})
		c.Search(ctx, "one")

		state, err := c.Search(ctx, "two")
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
		if state.Panel != PanelResults || state.Err == nil {
			t.Errorf("unexpected state %+v", state)
		}
	})

	t.Run("Cache", func(t *testing.T) {
		backend := &tu.MockBackend{SearchFunc: func(context.Context, services.SearchRequest) (*services.SearchResponse, error) {
			return &services.SearchResponse{Results: results(1)}, nil
		}}
		c := NewSearchController(ctx, backend, SearchOpts{CacheSize: 8})

		c.Search(ctx, "blue")
		c.Search(ctx, "blue")
		c.SetMediaType(models.MediaTrack)
		c.Search(ctx, "blue")

		if n := len(backend.Searches()); n != 2 {
			t.Errorf("expected 2 backend searches, got %d", n)
		}
	})

	t.Run("Bad Cache Size Logs Warning", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewSearchController(ctx, &tu.MockBackend{}, SearchOpts{CacheSize: -1, Logger: log.New(&buf)})
		if c.cache != nil {
			t.Error("expected cache to be disabled")
		}
		if !strings.Contains(buf.String(), "search cache disabled") {
			t.Errorf("expected a warning, got %q", buf.String())
		}
	})
}
