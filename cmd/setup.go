package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/ytm/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes a starter config, creates the store locations, and prepares
// the cache database. Safe to run again; existing files are kept.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath

	if _, err := os.Stat(configPath); err == nil {
		r.writePlain("Config already exists at %s\n", configPath)
	} else {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.writePlain("✓ Created %s\n", configPath)

		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load created config: %w", err)
		}
		r.config = config
	}

	if err := os.MkdirAll(r.config.Storage.PlaylistsDir, 0755); err != nil {
		return fmt.Errorf("failed to create playlists directory: %w", err)
	}
	r.writePlain("✓ Playlists directory: %s\n", r.config.Storage.PlaylistsDir)
	r.writePlain("✓ Dislikes file: %s (created on first dislike)\n", r.config.Storage.DislikesFile)

	r.logger.Info("initializing cache database", "path", r.config.Storage.Database)
	if _, err := r.database(); err != nil {
		return err
	}
	r.writePlain("✓ Cache database: %s\n", r.config.Storage.Database)

	r.writePlainln("Setup complete. Point [catalog] base_url at your ytmusicapi proxy and run: ytm \"your song\"")
	return nil
}
