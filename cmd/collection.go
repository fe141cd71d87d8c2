package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/albumctl/internal/formatter"
	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/shared"
	"github.com/desertthunder/albumctl/internal/tasks"
	"github.com/sahilm/fuzzy"
	"github.com/urfave/cli/v3"
)

// collectionSources adapts collection summaries to [fuzzy.Source].
type collectionSources []models.CollectionSummary

func (s collectionSources) String(i int) string { return s[i].Name }
func (s collectionSources) Len() int            { return len(s) }

// filterCollections keeps the collections whose names fuzzily match pattern, best match first.
func filterCollections(collections []models.CollectionSummary, pattern string) []models.CollectionSummary {
	if pattern == "" {
		return collections
	}
	matches := fuzzy.FindFrom(pattern, collectionSources(collections))
	filtered := make([]models.CollectionSummary, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, collections[m.Index])
	}
	return filtered
}

// CollectionsList prints the user's collections.
func (r *Runner) CollectionsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireBackend(); err != nil {
		return err
	}

	collections, err := r.backend.Collections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	collections = filterCollections(collections, cmd.String("filter"))

	if cmd.Bool("json") {
		return r.writeJSON(collections, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Collections (%d)", len(collections)))
	for _, c := range collections {
		r.writePlain("%-24s %s\n", c.ID, c.Name)
	}
	return nil
}

// loadPage fetches the collection named by the --id flag.
func (r *Runner) loadPage(ctx context.Context, cmd *cli.Command) (*tasks.CollectionPage, error) {
	if err := r.requireBackend(); err != nil {
		return nil, err
	}
	id := cmd.String("id")
	if id == "" {
		return nil, fmt.Errorf("%w: --id is required", shared.ErrMissingArgument)
	}

	r.logger.Debug("loading collection", "id", id)
	page, err := tasks.LoadPage(ctx, nil, r.backend, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection %s: %w", id, err)
	}
	return page, nil
}

// CollectionShow prints one collection and its albums in playlist order.
func (r *Runner) CollectionShow(ctx context.Context, cmd *cli.Command) error {
	page, err := r.loadPage(ctx, cmd)
	if err != nil {
		return err
	}
	c := page.Collection()

	if cmd.Bool("json") {
		return r.writeJSON(c, cmd.Bool("pretty"))
	}

	data, err := formatter.ExportToText(c)
	if err != nil {
		return err
	}
	_, err = r.output.Write(data)
	return err
}

// CollectionExport writes a collection to a file.
func (r *Runner) CollectionExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	page, err := r.loadPage(ctx, cmd)
	if err != nil {
		return err
	}

	result, err := formatter.WriteExport(page.Collection(), format, cmd.String("output"), cmd.Bool("cover"))
	if err != nil {
		return fmt.Errorf("failed to export collection: %w", err)
	}

	r.logger.Info("collection exported", "id", page.ID(), "format", format, "files", len(result.Files))
	for _, f := range result.Files {
		r.writePlain("✓ %s\n", f)
	}
	return nil
}

// confirmer asks on stdin unless --yes was given.
func (r *Runner) confirmer(cmd *cli.Command) tasks.Confirmer {
	if cmd.Bool("yes") {
		return tasks.AlwaysConfirm
	}
	return tasks.ConfirmFunc(r.confirm)
}

// AlbumRemove removes every track of an album from a collection after confirmation.
func (r *Runner) AlbumRemove(ctx context.Context, cmd *cli.Command) error {
	albumID := cmd.String("album")
	if albumID == "" {
		return fmt.Errorf("%w: --album is required", shared.ErrMissingArgument)
	}
	page, err := r.loadPage(ctx, cmd)
	if err != nil {
		return err
	}

	action := tasks.NewRemoveAction(page, r.backend, r.confirmer(cmd), nil, r.recorder(), r.logger)
	if err := action.Run(ctx, nil, albumID); err != nil {
		return err
	}

	album, _ := page.Album(albumID)
	r.writePlain("✓ Removed %s from %s\n", album.Name, page.Name())
	return nil
}

// AlbumMove adds an album to another collection, then removes it from this one.
func (r *Runner) AlbumMove(ctx context.Context, cmd *cli.Command) error {
	albumID := cmd.String("album")
	if albumID == "" {
		return fmt.Errorf("%w: --album is required", shared.ErrMissingArgument)
	}
	page, err := r.loadPage(ctx, cmd)
	if err != nil {
		return err
	}

	recorder := r.recorder()
	control := tasks.NewAlbumControl(tasks.AlbumControlOpts{
		Page:     page,
		Mover:    r.backend,
		Recorder: recorder,
		Logger:   r.logger,
	})
	album, err := control.Open(albumID)
	if err != nil {
		return err
	}
	dest := cmd.String("to")
	if err := control.MoveTo(ctx, nil, dest); err != nil {
		return err
	}

	r.writePlain("✓ Moved %s from %s to %s\n", album.Name, page.ID(), dest)
	return nil
}

// reorderIndex converts --before/--end into a target index of the page order.
func reorderIndex(page *tasks.CollectionPage, albumID, before string, end bool) (int, error) {
	albums := page.Albums()
	if end {
		return len(albums) - 1, nil
	}
	if before == "" {
		return 0, fmt.Errorf("%w: one of --before or --end is required", shared.ErrMissingArgument)
	}
	if before == albumID {
		return 0, fmt.Errorf("%w: an album cannot be placed before itself", shared.ErrInvalidArgument)
	}

	from, to := -1, -1
	for i, a := range albums {
		switch a.ID {
		case albumID:
			from = i
		case before:
			to = i
		}
	}
	if to < 0 {
		return 0, fmt.Errorf("%w: %s", shared.ErrAlbumNotFound, before)
	}
	if from >= 0 && from < to {
		to--
	}
	return to, nil
}

// AlbumReorder moves an album in front of another one, or to the end of the collection.
func (r *Runner) AlbumReorder(ctx context.Context, cmd *cli.Command) error {
	albumID := cmd.String("album")
	if albumID == "" {
		return fmt.Errorf("%w: --album is required", shared.ErrMissingArgument)
	}
	page, err := r.loadPage(ctx, cmd)
	if err != nil {
		return err
	}

	to, err := reorderIndex(page, albumID, cmd.String("before"), cmd.Bool("end"))
	if err != nil {
		return err
	}

	page.ToggleReorderMode()
	controller := tasks.NewReorderController(page, r.backend, r.recorder(), r.logger)
	if err := controller.Drop(ctx, albumID, to); err != nil {
		return err
	}

	if state := page.State(albumID); state != models.StateSettled {
		r.writePlain("Nothing to do: %s is already in place\n", albumID)
		return nil
	}
	r.writePlain("✓ Reordered %s\n", page.Name())
	for i, a := range page.Albums() {
		r.writePlain("%3d. %s - %s\n", i+1, a.Name, a.Artists)
	}
	return nil
}

// AlbumOpen opens an album's link in the browser.
func (r *Runner) AlbumOpen(ctx context.Context, cmd *cli.Command) error {
	albumID := cmd.String("album")
	if albumID == "" {
		return fmt.Errorf("%w: --album is required", shared.ErrMissingArgument)
	}
	page, err := r.loadPage(ctx, cmd)
	if err != nil {
		return err
	}

	control := tasks.NewAlbumControl(tasks.AlbumControlOpts{Page: page, Logger: r.logger})
	if _, err := control.Open(albumID); err != nil {
		return err
	}
	link, err := control.Link()
	if err != nil {
		return err
	}

	if cmd.Bool("print") {
		return r.writePlain("%s\n", link)
	}
	if err := shared.OpenBrowser(link); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	r.writePlain("Opened %s\n", link)
	return nil
}
