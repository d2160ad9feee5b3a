package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/shared"
)

// SearchCache persists search result ID lists keyed by normalized query text.
//
// Only the ordered video IDs are stored per query; the tracks themselves live
// in [TrackCache]. Put writes both so a later Get can reassemble the full
// result list offline.
type SearchCache struct {
	db     *sql.DB
	tracks *TrackCache
}

// NewSearchCache creates a SearchCache with the given database connection.
func NewSearchCache(db *sql.DB) *SearchCache {
	return &SearchCache{db: db, tracks: NewTrackCache(db)}
}

// Put caches a search result set under the normalized query.
func (c *SearchCache) Put(query string, tracks []models.Track) error {
	normalized := shared.NormalizeQuery(query)
	if normalized == "" {
		return fmt.Errorf("%w: empty query", shared.ErrInvalidInput)
	}

	if err := c.tracks.UpsertAll(tracks); err != nil {
		return err
	}

	ids := make([]string, 0, len(tracks))
	for _, track := range tracks {
		if track.VideoID != "" {
			ids = append(ids, track.VideoID)
		}
	}

	encoded, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode id list: %w", err)
	}

	_, err = c.db.Exec(`
		INSERT OR REPLACE INTO searches (query, video_ids, cached_at)
		VALUES (?, ?, ?)
	`, normalized, string(encoded), time.Now())
	if err != nil {
		return fmt.Errorf("failed to cache search: %w", err)
	}

	return nil
}

// Get reassembles a cached result set for the normalized query. IDs whose
// track rows have since been cleared are dropped from the result.
func (c *SearchCache) Get(query string) ([]models.Track, error) {
	normalized := shared.NormalizeQuery(query)

	var encoded string
	err := c.db.QueryRow("SELECT video_ids FROM searches WHERE query = ?", normalized).Scan(&encoded)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no cached search for %q", shared.ErrNoResults, query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query search: %w", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(encoded), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode id list: %w", err)
	}

	var tracks []models.Track
	for _, id := range ids {
		track, err := c.tracks.Get(id)
		if err != nil {
			continue
		}
		tracks = append(tracks, *track)
	}

	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no cached search for %q", shared.ErrNoResults, query)
	}

	return tracks, nil
}

// Clear removes every cached search and reports how many were dropped.
func (c *SearchCache) Clear() (int, error) {
	result, err := c.db.Exec("DELETE FROM searches")
	if err != nil {
		return 0, fmt.Errorf("failed to clear searches: %w", err)
	}

	dropped, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(dropped), nil
}
