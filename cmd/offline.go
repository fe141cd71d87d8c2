package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/albumctl/internal/server"
	"github.com/desertthunder/albumctl/internal/shared"
	"github.com/urfave/cli/v3"
)

// Offline serves the demo collections from memory until interrupted.
func (r *Runner) Offline(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Offline
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}

	logger := shared.WithLogger(r.logger, "component", "offline")
	router := server.NewOfflineRouter(server.DemoStore(), logger, r.config.Server.CookieName, cmd.String("session"))

	addr := cfg.Addr()
	r.writePlain("Offline backend listening on http://%s (Ctrl+C to stop)\n", addr)
	if err := server.Serve(ctx, addr, router, logger); err != nil {
		return fmt.Errorf("offline backend: %w", err)
	}
	return nil
}
