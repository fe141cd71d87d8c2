package main

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/shared"
	"github.com/desertthunder/albumctl/internal/tasks"
	"github.com/urfave/cli/v3"
)

type searchOutput struct {
	Query     string                `json:"query"`
	MediaType models.MediaType      `json:"media_type"`
	Panel     string                `json:"panel"`
	Results   []models.SearchResult `json:"results"`
	Picked    *models.SearchResult  `json:"picked,omitempty"`
}

// Search looks up music by free text or link and optionally picks one result.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireBackend(); err != nil {
		return err
	}
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}
	mediaType, err := models.ParseMediaType(cmd.String("type"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	controller := tasks.NewSearchController(ctx, r.backend, tasks.SearchOpts{
		MediaType: mediaType,
		Recorder:  r.recorder(),
		Logger:    r.logger,
	})
	defer controller.Close()

	state, err := controller.Search(ctx, query)
	if err != nil {
		return err
	}
	if limit := r.config.Search.MaxResults; limit > 0 && len(state.Results) > limit {
		state.Results = state.Results[:limit]
	}

	if pick := int(cmd.Int("pick")); pick > 0 {
		if pick > len(state.Results) {
			return fmt.Errorf("%w: %d", shared.ErrNoSearchResult, pick)
		}
		picked, err := controller.Pick(pick - 1)
		if err != nil {
			return err
		}
		state = controller.State()
		if cmd.Bool("copy") {
			if err := clipboard.WriteAll(picked.Link); err != nil {
				return fmt.Errorf("failed to copy link: %w", err)
			}
			r.logger.Info("link copied to clipboard", "link", picked.Link)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(searchOutput{
			Query:     query,
			MediaType: state.MediaType,
			Panel:     state.Panel.String(),
			Results:   state.Results,
			Picked:    state.Picked,
		}, cmd.Bool("pretty"))
	}
	return r.writeSearchState(state)
}

func (r *Runner) writeSearchState(state tasks.SearchState) error {
	switch state.Panel {
	case tasks.PanelInvalidLink:
		return r.writePlain("That link is not a valid %s link.\n", state.MediaType)
	case tasks.PanelNoResults:
		return r.writePlain("No results.\n")
	}

	if state.Picked != nil {
		return r.writePlain("%s\n%s\n", state.Picked.Name, state.Picked.Link)
	}
	for i, res := range state.Results {
		r.writePlain("%2d. %s\n    %s\n", i+1, res.Name, res.Link)
	}
	return nil
}
