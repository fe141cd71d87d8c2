package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/services"
	"github.com/desertthunder/albumctl/internal/shared"
)

// AlbumMover adds an album to another collection and removes it from the current one.
type AlbumMover interface {
	AddAlbum(ctx context.Context, req services.AddAlbumRequest) error
	AlbumRemover
}

// AlbumControl is the per-album modal: it targets one album through a [Selection]
// and runs actions against it.
type AlbumControl struct {
	page      *CollectionPage
	selection *Selection
	remove    *RemoveAction
	playback  *PlaybackController
	mover     AlbumMover
	recorder  ActivityRecorder
	logger    *log.Logger
}

// AlbumControlOpts contains the collaborators of an [AlbumControl].
type AlbumControlOpts struct {
	Page      *CollectionPage
	Selection *Selection
	Remove    *RemoveAction
	Playback  *PlaybackController
	Mover     AlbumMover
	Recorder  ActivityRecorder
	Logger    *log.Logger
}

// NewAlbumControl creates the modal controller. A nil Selection gets a fresh one.
func NewAlbumControl(opts AlbumControlOpts) *AlbumControl {
	if opts.Selection == nil {
		opts.Selection = &Selection{}
	}
	return &AlbumControl{
		page:      opts.Page,
		selection: opts.Selection,
		remove:    opts.Remove,
		playback:  opts.Playback,
		mover:     opts.Mover,
		recorder:  opts.Recorder,
		logger:    discardLogger(opts.Logger),
	}
}

// Selection returns the selection the modal reads from.
func (c *AlbumControl) Selection() *Selection { return c.selection }

// Open targets albumID. Albums cannot be opened in reorder mode.
func (c *AlbumControl) Open(albumID string) (models.Album, error) {
	if c.page.ReorderMode() {
		return models.Album{}, shared.ErrReorderModeOn
	}
	album, ok := c.page.Album(albumID)
	if !ok {
		return models.Album{}, fmt.Errorf("%w: %s", shared.ErrAlbumNotFound, albumID)
	}
	c.selection.Set(album)
	return album, nil
}

// Close dismisses the modal.
func (c *AlbumControl) Close() { c.selection.Clear() }

// Target returns the album the modal is open on.
func (c *AlbumControl) Target() (models.Album, error) {
	album, ok := c.selection.Target()
	if !ok {
		return models.Album{}, shared.ErrNoSelection
	}
	return album, nil
}

// Remove runs the remove action on the target.
func (c *AlbumControl) Remove(ctx context.Context, progress chan<- ProgressUpdate) error {
	album, err := c.Target()
	if err != nil {
		return err
	}
	if c.remove == nil {
		return shared.ErrNotImplemented
	}
	return c.remove.Run(ctx, progress, album.ID)
}

// MoveTo adds the target to destID and, only once that succeeded, removes it from this collection.
func (c *AlbumControl) MoveTo(ctx context.Context, progress chan<- ProgressUpdate, destID string) error {
	album, err := c.Target()
	if err != nil {
		return err
	}
	if c.mover == nil {
		return shared.ErrNotImplemented
	}
	if destID == "" || destID == c.page.ID() {
		return fmt.Errorf("%w: destination must be another collection", shared.ErrInvalidArgument)
	}

	activity := models.Activity{
		Kind:         models.ActivityMove,
		CollectionID: c.page.ID(),
		AlbumID:      album.ID,
		Detail:       "to " + destID,
	}

	sendProgress(progress, movingUpdate(0, album, destID))
	if err := c.mover.AddAlbum(ctx, services.AddAlbumRequest{DestCollectionID: destID, AlbumID: album.ID}); err != nil {
		record(ctx, c.recorder, c.logger, activity, err)
		return err
	}

	sendProgress(progress, movingUpdate(1, album, destID))
	if err := c.mover.RemoveAlbum(ctx, services.RemoveAlbumRequest{CollectionID: c.page.ID(), AlbumID: album.ID}); err != nil {
		record(ctx, c.recorder, c.logger, activity, err)
		return fmt.Errorf("added to %s but not removed here: %w", destID, err)
	}

	record(ctx, c.recorder, c.logger, activity, nil)
	sendProgress(progress, movingUpdate(2, album, destID))

	c.page.Hide(album.ID)
	c.selection.clearIf(album.ID)
	return nil
}

// PlayFromHere switches playback to start at the target.
func (c *AlbumControl) PlayFromHere() (models.Album, error) {
	album, err := c.Target()
	if err != nil {
		return models.Album{}, err
	}
	if c.playback == nil {
		return models.Album{}, shared.ErrNotImplemented
	}
	c.playback.SelectFromAlbum(album.ID)
	return album, nil
}

// Link returns the streaming-service link of the target.
func (c *AlbumControl) Link() (string, error) {
	album, err := c.Target()
	if err != nil {
		return "", err
	}
	if album.Link == "" {
		return "", fmt.Errorf("%w: %s has no link", shared.ErrInvalidInput, album.Name)
	}
	return album.Link, nil
}
