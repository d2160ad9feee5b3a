package models

import "strings"

// Artist is a credited artist on a catalog track.
type Artist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// AlbumRef is the album attribution on a catalog track.
type AlbumRef struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Thumbnail is one rendition of a track's cover art.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Track is the catalog's wire shape for a song, as returned by search and
// watch-queue lookups. It is never persisted directly; [Track.Song] converts
// it to the stored form.
type Track struct {
	VideoID         string      `json:"videoId"`
	Title           string      `json:"title"`
	Artists         []Artist    `json:"artists"`
	Album           *AlbumRef   `json:"album"`
	Duration        string      `json:"duration"`
	DurationSeconds int         `json:"duration_seconds"`
	Thumbnails      []Thumbnail `json:"thumbnails"`
}

// ArtistNames joins all credited artists with commas.
func (t Track) ArtistNames() string {
	names := make([]string, 0, len(t.Artists))
	for _, artist := range t.Artists {
		if artist.Name != "" {
			names = append(names, artist.Name)
		}
	}
	return strings.Join(names, ", ")
}

// AlbumName returns the album attribution, empty when the catalog omits it.
func (t Track) AlbumName() string {
	if t.Album == nil {
		return ""
	}
	return t.Album.Name
}

// Label renders the track as "Artist - Title" for display and logs.
func (t Track) Label() string {
	artist := t.ArtistNames()
	if artist == "" {
		return t.Title
	}
	return artist + " - " + t.Title
}

// Song converts the track to its persisted form, stamping the add time.
func (t Track) Song() Song {
	return Song{
		Title:    t.Title,
		Artist:   t.ArtistNames(),
		Album:    t.AlbumName(),
		Duration: t.Duration,
		VideoID:  t.VideoID,
		AddedAt:  Now(),
	}
}

// Track converts a stored song back to the wire shape, for replaying saved
// playlists through the same queue pipeline as search results.
func (s Song) Track() Track {
	track := Track{
		VideoID:  s.VideoID,
		Title:    s.Title,
		Duration: s.Duration,
	}
	if s.Artist != "" {
		track.Artists = []Artist{{Name: s.Artist}}
	}
	if s.Album != "" {
		track.Album = &AlbumRef{Name: s.Album}
	}
	return track
}

// HealthStatus is the catalog proxy's /health response.
type HealthStatus struct {
	Status        string `json:"status"`
	Authenticated bool   `json:"authenticated"`
}

// WatchQueue is the catalog's radio continuation for a seed track. The first
// entry is the seed itself; LyricsID is a browse id for the catalog's own
// lyrics lookup, empty when unavailable.
type WatchQueue struct {
	Tracks   []Track `json:"tracks"`
	LyricsID string  `json:"lyrics"`
}

// Continuation returns the queue without the seed entry.
func (w WatchQueue) Continuation() []Track {
	if len(w.Tracks) <= 1 {
		return nil
	}
	return w.Tracks[1:]
}

// LyricLine is one timestamped line of synced lyrics.
type LyricLine struct {
	Time float64 `json:"time"`
	Text string  `json:"text"`
}

// Lyrics is a fetched lyric sheet. Lines is populated for synced sources;
// Plain always carries the full text.
type Lyrics struct {
	Lines  []LyricLine `json:"lines,omitempty"`
	Plain  string      `json:"plain"`
	Source string      `json:"source"`
}

// Synced reports whether the sheet carries timestamped lines.
func (l Lyrics) Synced() bool {
	return len(l.Lines) > 0
}

// CurrentLine returns the index of the line active at a playback position,
// or -1 before the first line. Lines must be sorted by time.
func (l Lyrics) CurrentLine(position float64) int {
	current := -1
	for i, line := range l.Lines {
		if line.Time > position {
			break
		}
		current = i
	}
	return current
}
