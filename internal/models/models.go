// package models defines the data model for the ytm player
package models

import (
	"fmt"
	"strings"
	"time"
)

// timeLayouts are accepted when parsing store timestamps. Files written by
// earlier versions of the tool carry naive ISO 8601 times without a zone.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// Timestamp wraps [time.Time] with tolerant JSON parsing for store files.
//
// Marshals as RFC 3339; unmarshals RFC 3339 or zone-less ISO 8601.
type Timestamp struct {
	time.Time
}

// Now returns the current time as a [Timestamp].
func Now() Timestamp {
	return Timestamp{time.Now()}
}

// MarshalJSON renders the timestamp as an RFC 3339 string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.Format(time.RFC3339Nano) + `"`), nil
}

// UnmarshalJSON parses RFC 3339 or naive ISO 8601 timestamps. Empty strings
// and nulls decode to the zero time.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}

	var lastErr error
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}

	return fmt.Errorf("unrecognized timestamp %q: %w", raw, lastErr)
}

// Song is a single saved track as persisted in playlist and dislike files.
type Song struct {
	Title    string    `json:"title"`
	Artist   string    `json:"artist"`
	Album    string    `json:"album"`
	Duration string    `json:"duration"`
	VideoID  string    `json:"videoId"`
	AddedAt  Timestamp `json:"added_at"`
}

// Validate checks that the song carries the external track id the stores key on.
func (s Song) Validate() error {
	if s.VideoID == "" {
		return fmt.Errorf("song %q has no video id", s.Title)
	}
	return nil
}

// Label renders the song as "Artist - Title" for display and logs.
func (s Song) Label() string {
	if s.Artist == "" {
		return s.Title
	}
	return fmt.Sprintf("%s - %s", s.Artist, s.Title)
}

// Playlist is an ordered collection of songs persisted as one JSON file.
type Playlist struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
	Songs       []Song    `json:"songs"`
}

// NewPlaylist creates an empty playlist stamped with the current time.
func NewPlaylist(name, description string) *Playlist {
	now := Now()
	return &Playlist{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Songs:       []Song{},
	}
}

// IndexOf returns the position of the song with the given video id, or -1.
func (p *Playlist) IndexOf(videoID string) int {
	for i, song := range p.Songs {
		if song.VideoID == videoID {
			return i
		}
	}
	return -1
}

// Contains reports whether a song with the given video id is in the playlist.
func (p *Playlist) Contains(videoID string) bool {
	return p.IndexOf(videoID) >= 0
}

// DislikeEntry is a song recorded in the global dislike set.
type DislikeEntry struct {
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	Album      string    `json:"album"`
	Duration   string    `json:"duration"`
	VideoID    string    `json:"videoId"`
	DislikedAt Timestamp `json:"disliked_at"`
}

// NewDislikeEntry records a song as disliked at the current time.
func NewDislikeEntry(song Song) DislikeEntry {
	return DislikeEntry{
		Title:      song.Title,
		Artist:     song.Artist,
		Album:      song.Album,
		Duration:   song.Duration,
		VideoID:    song.VideoID,
		DislikedAt: Now(),
	}
}

// Song converts the entry back to a plain [Song].
func (d DislikeEntry) Song() Song {
	return Song{
		Title:    d.Title,
		Artist:   d.Artist,
		Album:    d.Album,
		Duration: d.Duration,
		VideoID:  d.VideoID,
	}
}

// DislikeList is the persisted global dislike set.
type DislikeList struct {
	UpdatedAt Timestamp      `json:"updated_at"`
	Count     int            `json:"count"`
	Songs     []DislikeEntry `json:"songs"`
}

// IDs returns the set of disliked video ids for membership checks.
func (d *DislikeList) IDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(d.Songs))
	for _, entry := range d.Songs {
		ids[entry.VideoID] = struct{}{}
	}
	return ids
}

// PlaylistExport wraps a playlist with export metadata for the formatter.
type PlaylistExport struct {
	Playlist   Playlist  `json:"playlist"`
	ExportedAt Timestamp `json:"exported_at"`
}
