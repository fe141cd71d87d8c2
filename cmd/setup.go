package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/albumctl/internal/shared"
	"github.com/urfave/cli/v3"
)

// configPathFor returns --config when given, else the path the runner was loaded from.
func (r *Runner) configPathFor(cmd *cli.Command) string {
	if cmd.IsSet("config") || r.configPath == "" {
		return cmd.String("config")
	}
	return r.configPath
}

// SetupConfig writes the default configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPathFor(cmd)
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Configuration written to %s\n", path)
	return nil
}

// SetupDatabase initializes the activity journal and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPathFor(cmd)

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		}
		config = shared.DefaultConfig()
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return nil
}

// SetupSession stores the session cookie from a browser "Copy as cURL" command in the config file.
func (r *Runner) SetupSession(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}
	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var curlHeaders *shared.CurlHeaders
	var err error
	if curlFile != "" {
		curlHeaders, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		curlHeaders, err = shared.ParseCurlCommand(curlCmd)
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	path := r.configPathFor(cmd)
	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			return err
		}
	}

	name := config.Server.CookieName
	value, ok := curlHeaders.CookieValue(name)
	if !ok {
		return fmt.Errorf("%w: cookie %q not found in cURL command", shared.ErrMissingSession, name)
	}
	config.Server.SessionCookie = value

	if !cmd.Bool("keep-url") {
		if baseURL, err := curlHeaders.BaseURL(); err == nil {
			config.Server.BaseURL = baseURL
		} else {
			r.logger.Warn("keeping configured base URL", "error", err)
		}
	}

	if err := shared.SaveConfig(path, config); err != nil {
		return err
	}

	r.logger.Info("session saved", "path", path, "base_url", config.Server.BaseURL)
	r.writePlain("✓ Session cookie %q saved to %s\n", name, path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Run 'albumctl collections list' to check the session\n")
	return nil
}
