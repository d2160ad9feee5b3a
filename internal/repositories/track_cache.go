package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/shared"
)

// TrackCache persists individual tracks keyed by video ID.
//
// Every successful catalog response is written through here, so the rows
// reflect whatever the proxy last said about a track. Artist credits and
// album references are flattened to plain strings on the way in.
type TrackCache struct {
	db *sql.DB
}

// NewTrackCache creates a TrackCache with the given database connection.
func NewTrackCache(db *sql.DB) *TrackCache {
	return &TrackCache{db: db}
}

// Upsert inserts or overwrites the cached row for a track.
func (c *TrackCache) Upsert(track models.Track) error {
	if track.VideoID == "" {
		return fmt.Errorf("%w: track has no video id", shared.ErrInvalidInput)
	}

	query := `
		INSERT OR REPLACE INTO tracks (video_id, title, artist, album, duration, duration_seconds, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(query,
		track.VideoID,
		track.Title,
		track.ArtistNames(),
		track.AlbumName(),
		track.Duration,
		track.DurationSeconds,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to cache track: %w", err)
	}

	return nil
}

// UpsertAll caches a batch of tracks in one transaction. Tracks without a
// video ID are skipped rather than failing the batch.
func (c *TrackCache) UpsertAll(tracks []models.Track) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO tracks (video_id, title, artist, album, duration, duration_seconds, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, track := range tracks {
		if track.VideoID == "" {
			continue
		}

		_, err := stmt.Exec(
			track.VideoID,
			track.Title,
			track.ArtistNames(),
			track.AlbumName(),
			track.Duration,
			track.DurationSeconds,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to cache track %s: %w", track.VideoID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit track batch: %w", err)
	}

	return nil
}

// Get retrieves a cached track by video ID.
func (c *TrackCache) Get(videoID string) (*models.Track, error) {
	query := `
		SELECT video_id, title, artist, album, duration, duration_seconds
		FROM tracks
		WHERE video_id = ?
	`

	track, err := scanTrack(c.db.QueryRow(query, videoID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, videoID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	return track, nil
}

// Recent retrieves the most recently cached tracks, newest first.
func (c *TrackCache) Recent(limit int) ([]models.Track, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT video_id, title, artist, album, duration, duration_seconds
		FROM tracks
		ORDER BY cached_at DESC
		LIMIT ?
	`

	rows, err := c.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	return collectTracks(rows)
}

// Clear removes every cached track and reports how many were dropped.
func (c *TrackCache) Clear() (int, error) {
	result, err := c.db.Exec("DELETE FROM tracks")
	if err != nil {
		return 0, fmt.Errorf("failed to clear tracks: %w", err)
	}

	dropped, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(dropped), nil
}

// scanner covers both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// scanTrack reads one cached row back into a wire track. Artist and album
// come back as single flattened credits.
func scanTrack(row scanner) (*models.Track, error) {
	var (
		videoID         string
		title           string
		artist          string
		album           string
		duration        string
		durationSeconds int
	)

	if err := row.Scan(&videoID, &title, &artist, &album, &duration, &durationSeconds); err != nil {
		return nil, err
	}

	track := &models.Track{
		VideoID:         videoID,
		Title:           title,
		Duration:        duration,
		DurationSeconds: durationSeconds,
	}
	if artist != "" {
		track.Artists = []models.Artist{{Name: artist}}
	}
	if album != "" {
		track.Album = &models.AlbumRef{Name: album}
	}

	return track, nil
}

// collectTracks drains rows into a slice.
func collectTracks(rows *sql.Rows) ([]models.Track, error) {
	var tracks []models.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, *track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}
