package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/shared"
	"github.com/urfave/cli/v3"
)

// Lyrics searches the catalog and prints lyrics for the top match. Synced
// sheets are rendered as plain lines.
func (r *Runner) Lyrics(ctx context.Context, cmd *cli.Command) error {
	query := queryFromArgs(cmd)
	if query == "" {
		return fmt.Errorf("%w: a search query is required", shared.ErrMissingArgument)
	}

	tracks, _, err := r.searchSongs(ctx, query, 1)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return r.writePlainln("No songs found.")
	}

	song := tracks[0].Song()
	r.logger.Info("fetching lyrics", "song", song.Label())

	lyrics, err := r.fetchLyrics(ctx, song)
	if err != nil {
		if errors.Is(err, shared.ErrNoLyrics) {
			return r.writePlainln("No lyrics found for %s.", song.Label())
		}
		return err
	}

	r.writePlainHeader(song.Label())

	if lyrics.Synced() {
		for _, line := range lyrics.Lines {
			r.writePlain("%s\n", line.Text)
		}
	} else {
		r.writePlain("%s\n", lyrics.Plain)
	}

	if lyrics.Source != "" {
		r.writePlain("\nSource: %s\n", lyrics.Source)
	}

	return nil
}

// fetchLyrics looks up lyrics for a song: LRCLIB first, then the catalog's
// own sheet via the watch queue's browse id. Also backs the lyrics view
// during playback.
func (r *Runner) fetchLyrics(ctx context.Context, song models.Song) (*models.Lyrics, error) {
	if !r.config.Lyrics.Enabled {
		return nil, fmt.Errorf("%w: lyrics lookup is disabled", shared.ErrNoLyrics)
	}

	if r.lyrics != nil {
		lyrics, err := r.lyrics.Find(ctx, song.Title, song.Artist, song.Album, shared.ParseDuration(song.Duration))
		if err == nil {
			return lyrics, nil
		}
		if !errors.Is(err, shared.ErrNoLyrics) {
			r.logger.Debug("lyrics lookup failed", "song", song.Label(), "error", err)
		}
	}

	if r.catalog == nil || song.VideoID == "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoLyrics, song.Label())
	}

	watch, err := r.catalog.WatchQueue(ctx, song.VideoID)
	if err != nil || watch.LyricsID == "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoLyrics, song.Label())
	}

	return r.catalog.Lyrics(ctx, watch.LyricsID)
}
