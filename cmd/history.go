package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/repositories"
	"github.com/desertthunder/albumctl/internal/shared"
	"github.com/urfave/cli/v3"
)

// History prints the activity journal, newest first, or clears it with --clear.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.journal()
	if err != nil {
		return fmt.Errorf("failed to open activity journal: %w", err)
	}

	if cmd.Bool("clear") {
		return r.clearHistory(ctx, cmd, repo)
	}

	entries, err := repo.List(ctx, repositories.ActivityFilter{
		CollectionID: cmd.String("collection"),
		Kind:         models.ActivityKind(cmd.String("kind")),
		FailedOnly:   cmd.Bool("failed"),
		Limit:        int(cmd.Int("limit")),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	if len(entries) == 0 {
		return r.writePlain("No activity recorded.\n")
	}
	for _, a := range entries {
		status := "ok"
		if !a.Success {
			status = "failed: " + a.Error
		}
		r.writePlain("%s  %-8s %-12s %-12s %s [%s]\n",
			a.CreatedAt.Local().Format(time.DateTime), a.Kind, a.CollectionID, a.AlbumID, a.Detail, status)
	}
	return nil
}

func (r *Runner) clearHistory(ctx context.Context, cmd *cli.Command, repo *repositories.ActivityRepository) error {
	var cutoff time.Time
	if d := cmd.Duration("older-than"); d > 0 {
		cutoff = time.Now().UTC().Add(-d)
	}
	if !cmd.Bool("yes") && !r.confirm("Clear the activity journal?") {
		return shared.ErrNotConfirmed
	}

	n, err := repo.Clear(ctx, cutoff)
	if err != nil {
		return err
	}
	r.logger.Info("activity journal cleared", "deleted", n)
	return r.writePlain("✓ Deleted %d entries\n", n)
}
