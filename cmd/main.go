package main

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytm/internal/services"
	"github.com/desertthunder/ytm/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath, verbose := globalFlags(os.Args[1:])
	if verbose {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}

	catalog := services.NewYTMService(config.Catalog.BaseURL)
	if config.Auth.Enabled && config.Catalog.AuthFile != "" {
		catalog.SetAuthFile(config.Catalog.AuthFile)
	}

	var lyrics services.LyricsProvider
	if config.Lyrics.Enabled {
		lyrics = services.NewLyricsService(config.Lyrics.BaseURL)
	}

	apiService := services.NewAPIService(config.Catalog.BaseURL, nil)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Catalog:    catalog,
		Lyrics:     lyrics,
		API:        apiService,
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:      "ytm",
		Usage:     "Search and play YouTube Music from the terminal",
		Version:   shared.Version,
		ArgsUsage: "[query...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "no-radio",
				Usage: "Play only the selected song, without the radio queue",
			},
		},
		Commands: runner.register(),
		Action:   runner.Play,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		runner.Close()
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Warn("authentication required, run: ytm auth setup-browser")
		}
		logger.Fatalf("application error: %v", err)
	}
}

// globalFlags pre-scans the argument list for --config and --verbose so the
// configuration is loaded before the command tree is built. The flags are
// declared on the root command as well, which is what parses them for real.
func globalFlags(args []string) (configPath string, verbose bool) {
	configPath = "config.toml"

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--config" || arg == "-c":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "-c="):
			configPath = strings.TrimPrefix(arg, "-c=")
		case arg == "--verbose":
			verbose = true
		}
	}

	return configPath, verbose
}
