package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/albumctl/internal/services"
	"github.com/desertthunder/albumctl/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv("ALBUMCTL_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}

	client := services.NewClientFromConfig(config.Server, shared.WithLogger(logger, "component", "client"))

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Backend:    client,
		API:        client,
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "albumctl",
		Usage:    "Manage album collections from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrNotConfirmed):
			logger.Info("cancelled")
		case errors.Is(err, shared.ErrNotImplemented):
			logger.Warn("not implemented")
		default:
			runner.Close()
			logger.Fatal("application error", "error", services.UserMessage(err))
		}
	}
}
