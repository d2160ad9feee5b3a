package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/player"
	"github.com/desertthunder/ytm/internal/repositories"
	"github.com/desertthunder/ytm/internal/shared"
	"github.com/desertthunder/ytm/internal/ui"
	"github.com/urfave/cli/v3"
)

// Play searches the catalog, shows the picker, and plays the selection with
// its radio continuation. This is also the root action for `ytm [query...]`.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	query := queryFromArgs(cmd)
	if query == "" {
		line, err := r.promptLine("Search for a song: ")
		if err != nil {
			return err
		}
		query = line
	}
	if query == "" {
		return fmt.Errorf("%w: a search query is required", shared.ErrMissingArgument)
	}

	r.logger.Info("searching", "query", query)

	tracks, fromCache, err := r.searchSongs(ctx, query, 0)
	if err != nil {
		if errors.Is(err, shared.ErrServiceUnavailable) {
			r.writePlainln("Error searching: the catalog is unreachable and nothing is cached for %q.", query)
		}
		return err
	}
	if fromCache {
		r.writePlain("Catalog unreachable. Showing cached results.\n")
	}

	if len(tracks) == 0 {
		return r.writePlainln("No songs found.")
	}

	kept, filtered, err := r.dislikes.Filter(tracks)
	if err != nil {
		return err
	}
	if len(kept) == 0 {
		return r.writePlainln("No songs found after filtering dislikes.")
	}
	if filtered > 0 {
		r.logger.Debug("filtered disliked songs", "count", filtered)
	}

	if limit := r.config.General.SongsToDisplay; limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}

	choice, ok, err := r.runPicker(fmt.Sprintf("Results for %q", query), kept)
	if err != nil {
		return err
	}
	if !ok {
		return r.writePlainln("Thanks for listening!")
	}

	radio := r.config.General.Radio && !cmd.Bool("no-radio")
	queue := r.buildQueue(ctx, choice, radio)

	return r.runSession(ctx, queue, "")
}

// buildQueue turns a picked track into the playback queue, appending the
// dislike-filtered radio continuation when radio is on. Radio failures fall
// back to the selection alone.
func (r *Runner) buildQueue(ctx context.Context, seed models.Track, radio bool) []models.Song {
	queue := []models.Song{seed.Song()}
	if !radio || r.catalog == nil {
		return queue
	}

	r.writePlain("Fetching radio...\n")

	watch, err := r.catalog.WatchQueue(ctx, seed.VideoID)
	if err != nil {
		r.logger.Warn("radio unavailable, playing the selection alone", "error", err)
		return queue
	}

	continuation := watch.Continuation()
	kept, filtered, err := r.dislikes.Filter(continuation)
	if err != nil {
		r.logger.Warn("failed to filter radio queue", "error", err)
		kept = continuation
	} else if filtered > 0 {
		r.logger.Debug("filtered disliked songs from radio", "count", filtered)
	}

	if db, err := r.database(); err == nil {
		if err := repositories.NewTrackCache(db).UpsertAll(kept); err != nil {
			r.logger.Warn("failed to cache radio tracks", "error", err)
		}
	}

	for _, track := range kept {
		queue = append(queue, track.Song())
	}

	return queue
}

// runPicker shows the selection screen and returns the chosen track.
func (r *Runner) runPicker(title string, tracks []models.Track) (models.Track, bool, error) {
	picker := ui.NewPicker(title, tracks, r.playlists, r.uiLogger())

	final, err := tea.NewProgram(picker).Run()
	if err != nil {
		return models.Track{}, false, fmt.Errorf("selection failed: %w", err)
	}

	model, ok := final.(*ui.Picker)
	if !ok {
		return models.Track{}, false, nil
	}
	track, chosen := model.Choice()
	return track, chosen, nil
}

// runSession drives a playback queue through the now-playing view. origin is
// the playlist name the queue came from, empty for search results.
func (r *Runner) runSession(ctx context.Context, queue []models.Song, origin string) error {
	if len(queue) == 0 {
		return r.writePlainln("Nothing to play.")
	}

	binary := r.config.Player.Binary
	if _, err := exec.LookPath(binary); err != nil {
		r.writePlainln("Could not find %q. Install it first (e.g. brew install %s or apt install %s).", binary, binary, binary)
		return fmt.Errorf("%w: %s not found in PATH", shared.ErrPlayerStart, binary)
	}

	logger := r.uiLogger()
	session := player.NewSession(queue, origin, player.SessionOpts{
		Launcher:  player.NewMPV(r.config.Player, logger),
		Resolver:  player.NewResolver(r.config.Player.ResolveStreams, logger),
		Dislikes:  r.dislikes,
		Playlists: r.playlists,
		Logger:    logger,
	})
	defer session.Stop()

	view := ui.NewPlayer(ctx, session, r.playlists, r.fetchLyrics, logger)

	final, err := tea.NewProgram(view).Run()
	if err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}

	if model, ok := final.(*ui.Player); ok {
		if err := model.Err(); err != nil {
			if errors.Is(err, shared.ErrPlayerStart) {
				r.writePlainln("Could not start %q. Install it first (e.g. brew install %s or apt install %s).", binary, binary, binary)
			}
			return err
		}
	}

	return r.writePlainln("Thanks for listening!")
}

// uiLogger returns a file-backed logger for code that runs while a view owns
// the terminal. Falls back to a discarding logger.
func (r *Runner) uiLogger() *log.Logger {
	logger, err := shared.NewFileLogger(filepath.Join(os.TempDir(), "ytm.log"))
	if err != nil {
		return shared.NewLogger(io.Discard)
	}
	if r.logger.GetLevel() == log.DebugLevel {
		shared.SetLogLevel(logger, log.DebugLevel)
	}
	return logger
}
