package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/shared"
	"github.com/desertthunder/albumctl/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Devices lists the playback devices the site can see.
func (r *Runner) Devices(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireBackend(); err != nil {
		return err
	}

	playback := tasks.NewPlaybackController("", r.backend, nil, r.logger)
	devices, err := playback.Devices(ctx, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(devices, cmd.Bool("pretty"))
	}
	for _, d := range devices {
		r.writePlain("%-24s %s\n", d.ID, d.Name)
	}
	return nil
}

// Play starts a collection on a device, in order, shuffled or from one album.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireBackend(); err != nil {
		return err
	}
	collectionID := cmd.String("id")
	if collectionID == "" {
		return fmt.Errorf("%w: --id is required", shared.ErrMissingArgument)
	}
	from, shuffle := cmd.String("from"), cmd.Bool("shuffle")
	if from != "" && shuffle {
		return fmt.Errorf("%w: --from and --shuffle cannot be combined", shared.ErrInvalidArgument)
	}

	playback := tasks.NewPlaybackController(collectionID, r.backend, r.recorder(), r.logger)
	switch {
	case shuffle:
		playback.SelectShuffle()
	case from != "":
		playback.SelectFromAlbum(from)
	default:
		playback.SelectInOrder()
	}

	devices, err := playback.Devices(ctx, nil)
	if err != nil {
		return err
	}
	device, err := pickDevice(devices, cmd.String("device"))
	if err != nil {
		return err
	}

	if err := playback.Play(ctx, nil, device.ID); err != nil {
		return err
	}
	mode, _ := playback.Mode()
	r.logger.Info("playback started", "collection", collectionID, "device", device.ID, "mode", mode)
	r.writePlain("▶ Playing %s (%s) on %s\n", collectionID, mode, device.Name)
	return nil
}

// pickDevice resolves --device, defaulting to the only device when there is exactly one.
func pickDevice(devices []models.Device, idOrName string) (models.Device, error) {
	if idOrName != "" {
		return tasks.ResolveDevice(devices, idOrName)
	}
	if len(devices) == 1 {
		return devices[0], nil
	}
	return models.Device{}, fmt.Errorf("%w: --device is required when %d devices are available", shared.ErrMissingArgument, len(devices))
}
