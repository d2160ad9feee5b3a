package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/shared"
	"github.com/gofrs/flock"
)

// PlaylistStore persists playlists as one JSON file per playlist under a
// directory. Files are named after the sanitized playlist name; the stored
// "name" field keeps the original spelling.
type PlaylistStore struct {
	dir  string
	lock *flock.Flock
}

// NewPlaylistStore creates a store rooted at dir. The directory is created
// lazily on first write.
func NewPlaylistStore(dir string) *PlaylistStore {
	return &PlaylistStore{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, ".lock")),
	}
}

// Dir returns the directory backing the store.
func (s *PlaylistStore) Dir() string {
	return s.dir
}

// withLock runs fn holding the store's advisory file lock. A playback
// session and a second invocation may mutate the same files, so every
// read-modify-write cycle is serialized across processes.
func (s *PlaylistStore) withLock(fn func() error) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock playlist store: %w", err)
	}
	defer s.lock.Unlock()

	return fn()
}

func (s *PlaylistStore) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create playlists directory: %w", err)
	}
	return nil
}

// path returns the file path for a playlist name.
func (s *PlaylistStore) path(name string) string {
	return filepath.Join(s.dir, shared.SafeFilename(name)+".json")
}

// Create makes a new empty playlist. Returns [shared.ErrPlaylistExists] when
// a playlist with the same (sanitized) name already exists.
func (s *PlaylistStore) Create(name, description string) (*models.Playlist, error) {
	var playlist *models.Playlist

	err := s.withLock(func() error {
		path := s.path(name)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", shared.ErrPlaylistExists, name)
		}

		playlist = models.NewPlaylist(name, description)
		return s.write(path, playlist)
	})

	return playlist, err
}

// Get loads a playlist by name. Lookup tries the sanitized filename first,
// then falls back to a case-insensitive scan of the stored names, so
// `get "road trip"` finds "Road Trip".
func (s *PlaylistStore) Get(name string) (*models.Playlist, error) {
	var playlist *models.Playlist

	err := s.withLock(func() error {
		var err error
		playlist, _, err = s.find(name)
		return err
	})

	return playlist, err
}

// find locates a playlist and its backing path. Callers hold the lock.
func (s *PlaylistStore) find(name string) (*models.Playlist, string, error) {
	path := s.path(name)
	if playlist, err := s.read(path); err == nil {
		return playlist, path, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, "", err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read playlists directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		candidate := filepath.Join(s.dir, entry.Name())
		playlist, err := s.read(candidate)
		if err != nil {
			continue
		}

		if strings.EqualFold(playlist.Name, name) {
			return playlist, candidate, nil
		}
	}

	return nil, "", fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, name)
}

// Save writes a playlist back to disk, refreshing its updated timestamp.
func (s *PlaylistStore) Save(playlist *models.Playlist) error {
	return s.withLock(func() error {
		playlist.UpdatedAt = models.Now()
		return s.write(s.path(playlist.Name), playlist)
	})
}

// List returns all playlists, most recently updated first.
func (s *PlaylistStore) List() ([]models.Playlist, error) {
	var playlists []models.Playlist

	err := s.withLock(func() error {
		entries, err := os.ReadDir(s.dir)
		if err != nil {
			return fmt.Errorf("failed to read playlists directory: %w", err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}

			playlist, err := s.read(filepath.Join(s.dir, entry.Name()))
			if err != nil {
				// Unreadable files are skipped rather than failing the listing.
				continue
			}
			playlists = append(playlists, *playlist)
		}

		sort.SliceStable(playlists, func(i, j int) bool {
			return playlists[i].UpdatedAt.After(playlists[j].UpdatedAt.Time)
		})
		return nil
	})

	return playlists, err
}

// Names returns all playlist names, most recently updated first.
func (s *PlaylistStore) Names() ([]string, error) {
	playlists, err := s.List()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(playlists))
	for _, playlist := range playlists {
		names = append(names, playlist.Name)
	}
	return names, nil
}

// Delete removes a playlist file. Returns [shared.ErrPlaylistNotFound] when
// no playlist matches.
func (s *PlaylistStore) Delete(name string) error {
	return s.withLock(func() error {
		_, path, err := s.find(name)
		if err != nil {
			return err
		}

		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete playlist: %w", err)
		}
		return nil
	})
}

// AddSong appends a song to a playlist. Duplicate video ids are rejected
// with [shared.ErrDuplicateSong].
func (s *PlaylistStore) AddSong(name string, song models.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	return s.withLock(func() error {
		playlist, path, err := s.find(name)
		if err != nil {
			return err
		}

		if playlist.Contains(song.VideoID) {
			return fmt.Errorf("%w: %s in %s", shared.ErrDuplicateSong, song.Label(), playlist.Name)
		}

		playlist.Songs = append(playlist.Songs, song)
		playlist.UpdatedAt = models.Now()
		return s.write(path, playlist)
	})
}

// RemoveSongByIndex removes the song at a zero-based position and returns it.
func (s *PlaylistStore) RemoveSongByIndex(name string, index int) (models.Song, error) {
	var removed models.Song

	err := s.withLock(func() error {
		playlist, path, err := s.find(name)
		if err != nil {
			return err
		}

		if index < 0 || index >= len(playlist.Songs) {
			return fmt.Errorf("%w: index %d out of range (playlist has %d songs)", shared.ErrInvalidArgument, index, len(playlist.Songs))
		}

		removed = playlist.Songs[index]
		playlist.Songs = append(playlist.Songs[:index], playlist.Songs[index+1:]...)
		playlist.UpdatedAt = models.Now()
		return s.write(path, playlist)
	})

	return removed, err
}

// RemoveSongByID removes the song with the given video id and returns it.
// Returns [shared.ErrSongNotFound] when the playlist has no such song.
func (s *PlaylistStore) RemoveSongByID(name, videoID string) (models.Song, error) {
	var removed models.Song

	err := s.withLock(func() error {
		playlist, path, err := s.find(name)
		if err != nil {
			return err
		}

		index := playlist.IndexOf(videoID)
		if index < 0 {
			return fmt.Errorf("%w: %s in %s", shared.ErrSongNotFound, videoID, playlist.Name)
		}

		removed = playlist.Songs[index]
		playlist.Songs = append(playlist.Songs[:index], playlist.Songs[index+1:]...)
		playlist.UpdatedAt = models.Now()
		return s.write(path, playlist)
	})

	return removed, err
}

// read decodes one playlist file.
func (s *PlaylistStore) read(path string) (*models.Playlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var playlist models.Playlist
	if err := json.Unmarshal(data, &playlist); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrCorruptStore, path, err)
	}

	if playlist.Songs == nil {
		playlist.Songs = []models.Song{}
	}
	return &playlist, nil
}

// write encodes a playlist to disk atomically (temp file + rename).
func (s *PlaylistStore) write(path string, playlist *models.Playlist) error {
	data, err := json.MarshalIndent(playlist, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode playlist: %w", err)
	}

	return atomicWrite(path, data)
}

// atomicWrite writes data to path via a temp file in the same directory so a
// crash mid-write never leaves a truncated store behind.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write store file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace store file: %w", err)
	}

	return nil
}
