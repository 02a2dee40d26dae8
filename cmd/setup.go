package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/soundtrack/internal/shared"
	"github.com/desertthunder/soundtrack/internal/ui"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to --config.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlain("%s %s\n", ui.Styles().OK("✓"), "Config written to "+configPath)
	return r.writePlain("%s\n", ui.Styles().Help("Set client_id and client_secret, or SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET in .env"))
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd.String("config"), false)
	if err != nil {
		return err
	}

	if !config.Database.Enabled() {
		return fmt.Errorf("%w: database.path is empty", shared.ErrMissingConfig)
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return r.writePlain("%s Database ready at %s\n", ui.Styles().OK("✓"), config.Database.Path)
}
