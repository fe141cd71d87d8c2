package tasks

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/services"
	"github.com/desertthunder/albumctl/internal/shared"
)

// Reorderer sends reorder requests.
type Reorderer interface {
	ReorderCollection(ctx context.Context, req services.ReorderRequest) error
}

// ReorderController applies drops to a page and submits them one at a time, in drop order.
type ReorderController struct {
	page     *CollectionPage
	backend  Reorderer
	recorder ActivityRecorder
	logger   *log.Logger

	mu   sync.Mutex
	tail chan struct{} // closed when the most recent submission finishes
}

// NewReorderController creates a controller for page. recorder and logger may be nil.
func NewReorderController(page *CollectionPage, backend Reorderer, recorder ActivityRecorder, logger *log.Logger) *ReorderController {
	return &ReorderController{page: page, backend: backend, recorder: recorder, logger: discardLogger(logger)}
}

// PendingReorder is a drop applied locally and waiting to be submitted.
//
// Every pending reorder must be submitted; later drops wait for earlier ones.
type PendingReorder struct {
	Request services.ReorderRequest

	c    *ReorderController
	from int
	rev  int
	prev <-chan struct{}
	done chan struct{}
}

// Begin validates a drop, moves the album locally and marks it in flight.
//
// It returns a nil pending reorder and no error when the album did not change position.
func (c *ReorderController) Begin(movedID string, toIndex int) (*PendingReorder, error) {
	if !c.page.ReorderMode() {
		return nil, shared.ErrReorderModeOff
	}
	album, ok := c.page.Album(movedID)
	if !ok {
		return nil, shared.ErrAlbumNotFound
	}
	if !album.Complete {
		return nil, shared.ErrIncompleteAlbum
	}

	from, rev, next, moved := c.page.move(movedID, toIndex)
	if !moved {
		return nil, nil
	}
	c.page.setState(movedID, models.StateInFlight)

	c.mu.Lock()
	p := &PendingReorder{
		Request: services.ReorderRequest{CollectionID: c.page.ID(), MovedAlbumID: movedID, NextAlbumID: next},
		c:       c,
		from:    from,
		rev:     rev,
		prev:    c.tail,
		done:    make(chan struct{}),
	}
	c.tail = p.done
	c.mu.Unlock()

	return p, nil
}

// Submit waits for earlier submissions, sends the request and settles the album state.
//
// On failure the album is marked as errored and, if the order is untouched since this drop, moved back.
func (p *PendingReorder) Submit(ctx context.Context) error {
	defer close(p.done)

	c := p.c
	id := p.Request.MovedAlbumID

	if p.prev != nil {
		select {
		case <-p.prev:
		case <-ctx.Done():
			c.fail(id, p.from, p.rev)
			return ctx.Err()
		}
	}

	err := c.backend.ReorderCollection(ctx, p.Request)
	record(ctx, c.recorder, c.logger, models.Activity{
		Kind:         models.ActivityReorder,
		CollectionID: p.Request.CollectionID,
		AlbumID:      id,
		Detail:       nextDetail(p.Request.NextAlbumID),
	}, err)

	if err != nil {
		c.logger.Warn("reorder failed", "album", id, "error", err)
		c.fail(id, p.from, p.rev)
		return err
	}

	c.page.setState(id, models.StateSettled)
	return nil
}

func (c *ReorderController) fail(id string, from, rev int) {
	c.page.restore(id, from, rev)
	c.page.setState(id, models.StateError)
}

// Drop is Begin followed by Submit.
func (c *ReorderController) Drop(ctx context.Context, movedID string, toIndex int) error {
	p, err := c.Begin(movedID, toIndex)
	if err != nil || p == nil {
		return err
	}
	return p.Submit(ctx)
}

func nextDetail(next *string) string {
	if next == nil {
		return "before: end"
	}
	return "before: " + *next
}
