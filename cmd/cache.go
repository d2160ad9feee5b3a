package main

import (
	"context"
	"os"
	"time"

	"github.com/desertthunder/ytm/internal/repositories"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// cacheStats is the JSON shape of `cache stats --json`.
type cacheStats struct {
	Tracks   int        `json:"tracks"`
	Searches int        `json:"searches"`
	Newest   *time.Time `json:"newest,omitempty"`
	Database string     `json:"database"`
	SizeB    int64      `json:"size_bytes"`
}

// CacheStats reports row counts and the size of the cache database.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	stats, err := repositories.CollectStats(db)
	if err != nil {
		return err
	}

	path := r.config.Storage.Database
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	if cmd.Bool("json") {
		return r.writeJSON(cacheStats{
			Tracks:   stats.Tracks,
			Searches: stats.Searches,
			Newest:   stats.Newest,
			Database: path,
			SizeB:    size,
		}, true)
	}

	r.writePlain("Cached tracks:   %d\n", stats.Tracks)
	r.writePlain("Cached searches: %d\n", stats.Searches)
	if stats.Newest != nil {
		r.writePlain("Newest entry:    %s\n", humanize.Time(*stats.Newest))
	}
	r.writePlain("Database:        %s (%s)\n", path, humanize.Bytes(uint64(size)))
	return nil
}

// CacheClear drops every cached track and search.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	searches, err := repositories.NewSearchCache(db).Clear()
	if err != nil {
		return err
	}
	tracks, err := repositories.NewTrackCache(db).Clear()
	if err != nil {
		return err
	}

	r.logger.Info("cleared cache", "tracks", tracks, "searches", searches)
	return r.writePlain("✓ Cleared %d cached track(s) and %d cached search(es)\n", tracks, searches)
}
