package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/ytm/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search prints catalog results without starting playback.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := queryFromArgs(cmd)
	if query == "" {
		return fmt.Errorf("%w: a search query is required", shared.ErrMissingArgument)
	}

	limit := int(cmd.Int("limit"))
	r.logger.Info("searching", "query", query, "limit", limit)

	tracks, fromCache, err := r.searchSongs(ctx, query, limit)
	if err != nil {
		if errors.Is(err, shared.ErrServiceUnavailable) {
			r.writePlainln("Error searching: the catalog is unreachable and nothing is cached for %q.", query)
		}
		return err
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

	if cmd.Bool("json") {
		return r.writeJSON(kept, true)
	}

	if fromCache {
		r.writePlain("Catalog unreachable. Showing cached results.\n")
	}

	for i, track := range kept {
		line := fmt.Sprintf("%d. %s", i+1, track.Label())
		if album := track.AlbumName(); album != "" {
			line += fmt.Sprintf(" (%s)", album)
		}
		if track.Duration != "" {
			line += fmt.Sprintf(" [%s]", track.Duration)
		}
		r.writePlain("%s\n", line)
	}

	if filtered > 0 {
		r.writePlain("Filtered %d disliked song(s).\n", filtered)
	}

	return nil
}
