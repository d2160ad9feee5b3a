package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/ytm/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// DislikesList prints the global dislike set.
func (r *Runner) DislikesList(ctx context.Context, cmd *cli.Command) error {
	entries, err := r.dislikes.List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	if len(entries) == 0 {
		return r.writePlainln("No disliked songs.")
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.Title,
			entry.Artist,
			entry.VideoID,
			humanize.Time(entry.DislikedAt.Time),
		})
	}

	return r.writePlain("%s\n", renderTable([]string{"Title", "Artist", "Video ID", "Disliked"}, rows))
}

// DislikesRemove takes one song off the dislike list.
func (r *Runner) DislikesRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}

	if err := r.dislikes.Remove(id); err != nil {
		return err
	}

	r.logger.Info("removed dislike", "id", id)
	return r.writePlain("✓ Removed %s from dislikes\n", id)
}

// DislikesClear empties the dislike list, prompting unless --force is set.
func (r *Runner) DislikesClear(ctx context.Context, cmd *cli.Command) error {
	count, err := r.dislikes.Count()
	if err != nil {
		return err
	}
	if count == 0 {
		return r.writePlainln("No disliked songs.")
	}

	if !cmd.Bool("force") {
		answer, err := r.promptLine(fmt.Sprintf("Remove all %d disliked song(s)? [y/N]: ", count))
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			return r.writePlainln("Aborted.")
		}
	}

	if err := r.dislikes.Clear(); err != nil {
		return err
	}

	r.logger.Info("cleared dislikes", "count", count)
	return r.writePlain("✓ Cleared %d disliked song(s)\n", count)
}
