package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// Stats summarizes cache contents for the cache stats command.
type Stats struct {
	Tracks   int        `json:"tracks"`
	Searches int        `json:"searches"`
	Newest   *time.Time `json:"newest,omitempty"`
}

// CollectStats counts cached rows and finds the most recent cache write.
func CollectStats(db *sql.DB) (*Stats, error) {
	stats := &Stats{}

	if err := db.QueryRow("SELECT COUNT(*) FROM tracks").Scan(&stats.Tracks); err != nil {
		return nil, fmt.Errorf("failed to count tracks: %w", err)
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM searches").Scan(&stats.Searches); err != nil {
		return nil, fmt.Errorf("failed to count searches: %w", err)
	}

	var newest sql.NullTime
	err := db.QueryRow("SELECT MAX(cached_at) FROM tracks").Scan(&newest)
	if err != nil {
		return nil, fmt.Errorf("failed to find newest entry: %w", err)
	}
	if newest.Valid {
		stats.Newest = &newest.Time
	}

	return stats, nil
}
