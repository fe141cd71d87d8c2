package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/services"
	"github.com/desertthunder/albumctl/internal/shared"
	"golang.org/x/sync/singleflight"
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to [Confirmer].
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// AlwaysConfirm answers yes without asking.
var AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })

// AlbumRemover sends remove requests.
type AlbumRemover interface {
	RemoveAlbum(ctx context.Context, req services.RemoveAlbumRequest) error
}

// RemovePrompt is the confirmation question for removing name.
func RemovePrompt(name string) string {
	return fmt.Sprintf("Are you sure you want to remove %s from the collection?", name)
}

// RemoveAction removes albums from a page after confirmation.
type RemoveAction struct {
	page      *CollectionPage
	backend   AlbumRemover
	confirmer Confirmer
	selection *Selection
	recorder  ActivityRecorder
	logger    *log.Logger
	group     singleflight.Group
}

// NewRemoveAction creates a remove action for page. selection, recorder and logger may be nil.
func NewRemoveAction(page *CollectionPage, backend AlbumRemover, confirmer Confirmer, selection *Selection, recorder ActivityRecorder, logger *log.Logger) *RemoveAction {
	if confirmer == nil {
		confirmer = AlwaysConfirm
	}
	return &RemoveAction{
		page:      page,
		backend:   backend,
		confirmer: confirmer,
		selection: selection,
		recorder:  recorder,
		logger:    discardLogger(logger),
	}
}

// Run confirms, then removes the album by id.
//
// Nothing changes before confirmation. On success the album is hidden and the selection cleared;
// on failure the page is left as it was and the error returned.
func (a *RemoveAction) Run(ctx context.Context, progress chan<- ProgressUpdate, albumID string) error {
	album, ok := a.page.Album(albumID)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrAlbumNotFound, albumID)
	}

	if !a.confirmer.Confirm(RemovePrompt(album.Name)) {
		return shared.ErrNotConfirmed
	}

	sendProgress(progress, removingUpdate(album))
	_, err, _ := a.group.Do(albumID, func() (any, error) {
		err := a.backend.RemoveAlbum(ctx, services.RemoveAlbumRequest{CollectionID: a.page.ID(), AlbumID: albumID})
		record(ctx, a.recorder, a.logger, models.Activity{
			Kind:         models.ActivityRemove,
			CollectionID: a.page.ID(),
			AlbumID:      albumID,
			Detail:       album.Name,
		}, err)
		return nil, err
	})
	sendProgress(progress, removedUpdate(album, err))

	if err != nil {
		a.logger.Warn("remove failed", "album", albumID, "error", err)
		return err
	}

	a.page.Hide(albumID)
	if a.selection != nil {
		a.selection.clearIf(albumID)
	}
	return nil
}
