package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/shared"
	"github.com/gofrs/flock"
)

// DislikeStore persists the global dislike set as a single JSON file.
// Tracks in the set are excluded from search results and radio queues.
type DislikeStore struct {
	path string
	lock *flock.Flock
}

// NewDislikeStore creates a store backed by the file at path.
func NewDislikeStore(path string) *DislikeStore {
	return &DislikeStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the file backing the store.
func (s *DislikeStore) Path() string {
	return s.path
}

func (s *DislikeStore) withLock(fn func() error) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create dislikes directory: %w", err)
		}
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock dislike store: %w", err)
	}
	defer s.lock.Unlock()

	return fn()
}

// Load reads the dislike list. A missing file is an empty list; malformed
// JSON is surfaced as [shared.ErrCorruptStore] naming the file.
func (s *DislikeStore) Load() (*models.DislikeList, error) {
	var list *models.DislikeList

	err := s.withLock(func() error {
		var err error
		list, err = s.read()
		return err
	})

	return list, err
}

func (s *DislikeStore) read() (*models.DislikeList, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &models.DislikeList{Songs: []models.DislikeEntry{}}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read dislikes file: %w", err)
	}

	var list models.DislikeList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrCorruptStore, s.path, err)
	}

	if list.Songs == nil {
		list.Songs = []models.DislikeEntry{}
	}
	return &list, nil
}

func (s *DislikeStore) write(list *models.DislikeList) error {
	list.UpdatedAt = models.Now()
	list.Count = len(list.Songs)

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dislikes: %w", err)
	}

	return atomicWrite(s.path, data)
}

// Add records a song in the dislike set. Songs without a video id are
// rejected with [shared.ErrInvalidInput]; repeats with [shared.ErrAlreadyDisliked].
func (s *DislikeStore) Add(song models.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	return s.withLock(func() error {
		list, err := s.read()
		if err != nil {
			return err
		}

		if _, disliked := list.IDs()[song.VideoID]; disliked {
			return fmt.Errorf("%w: %s", shared.ErrAlreadyDisliked, song.Label())
		}

		list.Songs = append(list.Songs, models.NewDislikeEntry(song))
		return s.write(list)
	})
}

// IsDisliked reports whether a video id is in the set.
func (s *DislikeStore) IsDisliked(videoID string) (bool, error) {
	list, err := s.Load()
	if err != nil {
		return false, err
	}

	_, disliked := list.IDs()[videoID]
	return disliked, nil
}

// Filter drops disliked tracks from a catalog result list, returning the
// kept tracks and how many were removed.
func (s *DislikeStore) Filter(tracks []models.Track) ([]models.Track, int, error) {
	list, err := s.Load()
	if err != nil {
		return nil, 0, err
	}

	ids := list.IDs()
	kept := make([]models.Track, 0, len(tracks))
	for _, track := range tracks {
		if _, disliked := ids[track.VideoID]; disliked {
			continue
		}
		kept = append(kept, track)
	}

	return kept, len(tracks) - len(kept), nil
}

// FilterSongs drops disliked songs from a stored song list.
func (s *DislikeStore) FilterSongs(songs []models.Song) ([]models.Song, int, error) {
	list, err := s.Load()
	if err != nil {
		return nil, 0, err
	}

	ids := list.IDs()
	kept := make([]models.Song, 0, len(songs))
	for _, song := range songs {
		if _, disliked := ids[song.VideoID]; disliked {
			continue
		}
		kept = append(kept, song)
	}

	return kept, len(songs) - len(kept), nil
}

// List returns all dislike entries, oldest first.
func (s *DislikeStore) List() ([]models.DislikeEntry, error) {
	list, err := s.Load()
	if err != nil {
		return nil, err
	}
	return list.Songs, nil
}

// Remove deletes a video id from the set. Returns [shared.ErrSongNotFound]
// when the id is not present.
func (s *DislikeStore) Remove(videoID string) error {
	return s.withLock(func() error {
		list, err := s.read()
		if err != nil {
			return err
		}

		for i, entry := range list.Songs {
			if entry.VideoID == videoID {
				list.Songs = append(list.Songs[:i], list.Songs[i+1:]...)
				return s.write(list)
			}
		}

		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, videoID)
	})
}

// Clear empties the set.
func (s *DislikeStore) Clear() error {
	return s.withLock(func() error {
		return s.write(&models.DislikeList{Songs: []models.DislikeEntry{}})
	})
}

// Count returns the number of disliked tracks.
func (s *DislikeStore) Count() (int, error) {
	list, err := s.Load()
	if err != nil {
		return 0, err
	}
	return len(list.Songs), nil
}
