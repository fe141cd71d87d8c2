package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/services"
	"github.com/desertthunder/albumctl/internal/shared"
)

// Panel is the one search panel shown after a completed search.
type Panel int

const (
	PanelNone Panel = iota
	PanelInvalidLink
	PanelNoResults
	PanelResults
)

func (p Panel) String() string {
	switch p {
	case PanelInvalidLink:
		return "invalid_link"
	case PanelNoResults:
		return "no_results"
	case PanelResults:
		return "results"
	default:
		return "none"
	}
}

// SearchState is what the search widget shows.
type SearchState struct {
	Input     string
	MediaType models.MediaType
	Panel     Panel
	Results   []models.SearchResult // visible rows; one after a pick
	Picked    *models.SearchResult
	Err       error // last failed search; panels are left as they were
}

// Searcher runs a search request.
type Searcher interface {
	Search(ctx context.Context, req services.SearchRequest) (*services.SearchResponse, error)
}

// SearchOpts configures a [SearchController].
type SearchOpts struct {
	Debounce  time.Duration
	MediaType models.MediaType
	CacheSize int // 0 disables the response cache
	Recorder  ActivityRecorder
	Logger    *log.Logger
}

// SearchController turns keystrokes into debounced searches and lets the user pick a result.
type SearchController struct {
	ctx       context.Context
	backend   Searcher
	debouncer *Debouncer
	cache     *lru.Cache[string, *services.SearchResponse]
	recorder  ActivityRecorder
	logger    *log.Logger
	updates   chan SearchState

	mu      sync.Mutex
	state   SearchState
	issued  uint64
	applied uint64
	edits   uint64
}

// NewSearchController creates a controller whose debounced searches run under ctx.
func NewSearchController(ctx context.Context, backend Searcher, opts SearchOpts) *SearchController {
	if opts.MediaType == "" {
		opts.MediaType = models.MediaAlbum
	}

	c := &SearchController{
		ctx:       ctx,
		backend:   backend,
		debouncer: NewDebouncer(opts.Debounce),
		recorder:  opts.Recorder,
		logger:    discardLogger(opts.Logger),
		updates:   make(chan SearchState, 1),
		state:     SearchState{MediaType: opts.MediaType},
	}
	if opts.CacheSize != 0 {
		cache, err := lru.New[string, *services.SearchResponse](opts.CacheSize)
		if err != nil {
			c.logger.Warn("search cache disabled", "size", opts.CacheSize, "error", err)
		} else {
			c.cache = cache
		}
	}
	return c
}

// Updates delivers the state after every applied search or pick. Only the latest state is kept.
func (c *SearchController) Updates() <-chan SearchState { return c.updates }

// State returns the current state.
func (c *SearchController) State() SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetMediaType switches between album and track search.
func (c *SearchController) SetMediaType(mt models.MediaType) {
	c.mu.Lock()
	c.state.MediaType = mt
	input := c.state.Input
	c.mu.Unlock()

	if strings.TrimSpace(input) != "" {
		c.Input(input)
	}
}

// Input records a keystroke and reschedules the search. Clearing the input hides every panel.
func (c *SearchController) Input(text string) {
	c.mu.Lock()
	c.state.Input = text
	c.state.Picked = nil
	c.edits++
	edit := c.edits
	empty := strings.TrimSpace(text) == ""
	if empty {
		c.dropPending()
		c.state.Panel, c.state.Results, c.state.Err = PanelNone, nil, nil
		c.publish()
	}
	c.mu.Unlock()

	if empty {
		c.debouncer.Cancel()
		return
	}
	c.debouncer.Trigger(func() {
		if _, err := c.search(c.ctx, text, edit); err != nil {
			c.logger.Warn("search failed", "text", text, "error", err)
		}
	})
}

// Search runs a search immediately and applies its response unless a newer one has been applied.
func (c *SearchController) Search(ctx context.Context, text string) (SearchState, error) {
	return c.search(ctx, text, 0)
}

// search issues a request for text. A non-zero edit is the input it was scheduled for;
// the request is skipped if the input changed or a row was picked since.
func (c *SearchController) search(ctx context.Context, text string, edit uint64) (SearchState, error) {
	c.mu.Lock()
	if edit != 0 && edit != c.edits {
		defer c.mu.Unlock()
		return c.state, nil
	}
	c.issued++
	seq := c.issued
	req := services.SearchRequest{Text: strings.TrimSpace(text), MediaType: c.state.MediaType}
	c.mu.Unlock()

	resp, err := c.fetch(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq <= c.applied {
		c.logger.Debug("dropping stale search response", "text", req.Text)
		return c.state, nil
	}
	c.applied = seq

	if err != nil {
		c.state.Err = err
		c.publish()
		return c.state, err
	}

	c.state.Err = nil
	c.state.Picked = nil
	switch {
	case resp.InvalidLink:
		c.state.Panel, c.state.Results = PanelInvalidLink, nil
	case len(resp.Results) == 0:
		c.state.Panel, c.state.Results = PanelNoResults, nil
	default:
		results := resp.Results
		if len(results) > models.MaxSearchResults {
			results = results[:models.MaxSearchResults]
		}
		c.state.Panel, c.state.Results = PanelResults, append([]models.SearchResult(nil), results...)
	}
	c.publish()
	return c.state, nil
}

func (c *SearchController) fetch(ctx context.Context, req services.SearchRequest) (*services.SearchResponse, error) {
	key := string(req.MediaType) + "|" + req.Text
	if c.cache != nil {
		if resp, ok := c.cache.Get(key); ok {
			return resp, nil
		}
	}

	resp, err := c.backend.Search(ctx, req)
	record(ctx, c.recorder, c.logger, models.Activity{Kind: models.ActivitySearch, Detail: key}, err)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Add(key, resp)
	}
	return resp, nil
}

// Pick keeps row i as the only visible row and writes its link into the input.
// Pending and in-flight searches are dropped so they cannot replace the pick.
//
// i indexes the rows currently visible: after a pick only row 0 remains.
func (c *SearchController) Pick(i int) (models.SearchResult, error) {
	c.mu.Lock()
	if c.state.Panel != PanelResults || i < 0 || i >= len(c.state.Results) {
		c.mu.Unlock()
		return models.SearchResult{}, fmt.Errorf("%w: %d", shared.ErrNoSearchResult, i)
	}

	picked := c.state.Results[i]
	c.edits++
	c.dropPending()
	c.state.Results = []models.SearchResult{picked}
	c.state.Picked = &picked
	c.state.Input = picked.Link
	c.publish()
	c.mu.Unlock()

	c.debouncer.Cancel()
	return picked, nil
}

// dropPending marks every issued search as applied so late responses are discarded. Callers hold c.mu.
func (c *SearchController) dropPending() {
	c.issued++
	c.applied = c.issued
}

// Close cancels any pending search.
func (c *SearchController) Close() { c.debouncer.Cancel() }

// publish replaces any unread state with the current one. Callers hold c.mu.
func (c *SearchController) publish() {
	select {
	case <-c.updates:
	default:
	}
	select {
	case c.updates <- c.state:
	default:
	}
}
