// package services defines clients for the HTTP APIs the player consumes
//
// The music catalog (via the ytmusicapi proxy) and LRCLIB for lyrics.
package services

import (
	"context"

	"github.com/desertthunder/ytm/internal/models"
)

// Catalog defines the music catalog operations the player depends on:
// search, radio continuations, the catalog's own lyrics lookup, and a
// health probe.
type Catalog interface {
	// Search finds songs matching the query. Limit caps the result count;
	// zero means the caller takes the catalog's default page.
	Search(ctx context.Context, query string, limit int) ([]models.Track, error)

	// WatchQueue fetches the radio continuation for a seed track.
	// The first entry of the returned queue is the seed itself.
	WatchQueue(ctx context.Context, videoID string) (*models.WatchQueue, error)

	// Lyrics fetches the catalog's lyric sheet by browse id, as surfaced in
	// a watch queue. Plain text only; the catalog has no synced lyrics.
	Lyrics(ctx context.Context, browseID string) (*models.Lyrics, error)

	// Health reports whether the catalog is reachable and holds working
	// credentials.
	Health(ctx context.Context) (*models.HealthStatus, error)

	// Name returns the catalog name for display and logs.
	Name() string
}

// LyricsProvider defines synced lyrics lookup, keyed by track metadata
// rather than catalog ids.
type LyricsProvider interface {
	// Find fetches lyrics for a track, preferring synced lines.
	Find(ctx context.Context, title, artist, album string, durationSeconds int) (*models.Lyrics, error)
}
