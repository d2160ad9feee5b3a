package ui

import (
	"fmt"

	"github.com/desertthunder/ytm/internal/models"
)

// trackItem renders one search result row for the picker.
type trackItem struct {
	track models.Track
}

func (i trackItem) label() string {
	label := i.track.Label()
	if album := i.track.AlbumName(); album != "" {
		label = fmt.Sprintf("%s (%s)", label, album)
	}
	if i.track.Duration != "" {
		label = fmt.Sprintf("%s [%s]", label, i.track.Duration)
	}
	return label
}

// playlistItem renders one playlist row for the playlist chooser.
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) label() string {
	label := fmt.Sprintf("%s (%d songs)", i.playlist.Name, len(i.playlist.Songs))
	if i.playlist.Description != "" {
		label = fmt.Sprintf("%s • %s", label, i.playlist.Description)
	}
	return label
}
