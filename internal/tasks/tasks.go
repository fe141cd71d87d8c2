package tasks

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/shared"
)

// ActivityRecorder persists the outcome of each request a controller issues.
//
// Implementations must be safe for concurrent use. Record errors are logged and otherwise ignored.
type ActivityRecorder interface {
	Record(ctx context.Context, activity models.Activity) error
}

// CollectionLoader fetches a collection page.
type CollectionLoader interface {
	Collection(ctx context.Context, collectionID string) (*models.Collection, error)
}

// LoadPage fetches a collection and wraps it in a fresh [CollectionPage].
func LoadPage(ctx context.Context, progress chan<- ProgressUpdate, backend CollectionLoader, collectionID string) (*CollectionPage, error) {
	sendProgress(progress, loadingCollectionUpdate(collectionID))

	c, err := backend.Collection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	sendProgress(progress, loadedCollectionUpdate(c))
	return NewCollectionPage(c), nil
}

func discardLogger(l *log.Logger) *log.Logger {
	if l == nil {
		return shared.NewLogger(io.Discard)
	}
	return l
}

// record journals a finished request; failures to journal never reach the caller.
func record(ctx context.Context, r ActivityRecorder, logger *log.Logger, a models.Activity, err error) {
	if r == nil {
		return
	}

	a.Success = err == nil
	if err != nil {
		a.Error = err.Error()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	if rerr := r.Record(context.WithoutCancel(ctx), a); rerr != nil {
		logger.Debug("failed to record activity", "kind", a.Kind, "error", rerr)
	}
}
