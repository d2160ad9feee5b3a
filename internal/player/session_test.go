package player

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/ytm/internal/library"
	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/shared"
)

// fakeLauncher records targets and hands out handles whose exit the test
// controls. The handles have no socket, which exercises the soft failure
// path where playback runs without controls.
type fakeLauncher struct {
	targets []string
	handles []*Handle
	err     error
}

func (f *fakeLauncher) Start(ctx context.Context, target string) (*Handle, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.targets = append(f.targets, target)
	handle := &Handle{socket: filepath.Join("/nonexistent", "fake.sock"), done: make(chan error, 1)}
	f.handles = append(f.handles, handle)

	return handle, nil
}

func sessionSong(videoID, title string) models.Song {
	return models.Song{
		Title:   title,
		Artist:  "Test Artist",
		VideoID: videoID,
	}
}

func testStores(t *testing.T) (*library.PlaylistStore, *library.DislikeStore) {
	t.Helper()

	dir := t.TempDir()
	return library.NewPlaylistStore(filepath.Join(dir, "playlists")),
		library.NewDislikeStore(filepath.Join(dir, "dislikes.json"))
}

func testSession(t *testing.T, queue []models.Song, origin string) (*Session, *fakeLauncher) {
	t.Helper()

	playlists, dislikes := testStores(t)
	launcher := &fakeLauncher{}
	session := NewSession(queue, origin, SessionOpts{
		Launcher:    launcher,
		Playlists:   playlists,
		Dislikes:    dislikes,
		DialTimeout: 20 * time.Millisecond,
	})

	return session, launcher
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	queue := []models.Song{
		sessionSong("vid1", "First"),
		sessionSong("vid2", "Second"),
		sessionSong("vid3", "Third"),
	}

	t.Run("Start", func(t *testing.T) {
		t.Run("rejects an empty queue", func(t *testing.T) {
			session, _ := testSession(t, nil, "")

			if err := session.Start(ctx); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("plays the first song with a watch URL target", func(t *testing.T) {
			session, launcher := testSession(t, queue, "")

			if err := session.Start(ctx); err != nil {
				t.Fatalf("expected start to succeed, got %v", err)
			}
			t.Cleanup(session.Stop)

			if current := session.Current(); current.VideoID != "vid1" {
				t.Errorf("expected vid1 current, got %s", current.VideoID)
			}
			if index, total := session.QueuePosition(); index != 1 || total != 3 {
				t.Errorf("expected position 1/3, got %d/%d", index, total)
			}
			if launcher.targets[0] != "https://music.youtube.com/watch?v=vid1" {
				t.Errorf("unexpected target %s", launcher.targets[0])
			}
			if session.Done() == nil {
				t.Error("expected a live done channel after start")
			}
		})

		t.Run("launcher failure propagates", func(t *testing.T) {
			playlists, dislikes := testStores(t)
			session := NewSession(queue, "", SessionOpts{
				Launcher:    &fakeLauncher{err: shared.ErrPlayerStart},
				Playlists:   playlists,
				Dislikes:    dislikes,
				DialTimeout: 20 * time.Millisecond,
			})

			if err := session.Start(ctx); !errors.Is(err, shared.ErrPlayerStart) {
				t.Errorf("expected ErrPlayerStart, got %v", err)
			}
		})
	})

	t.Run("Next and Previous", func(t *testing.T) {
		session, launcher := testSession(t, queue, "")
		if err := session.Start(ctx); err != nil {
			t.Fatalf("failed to start: %v", err)
		}
		t.Cleanup(session.Stop)

		if moved, _ := session.Previous(ctx); moved {
			t.Error("expected Previous at the head to do nothing")
		}

		moved, err := session.Next(ctx)
		if err != nil || !moved {
			t.Fatalf("expected advance, got moved=%v err=%v", moved, err)
		}
		if session.Current().VideoID != "vid2" {
			t.Errorf("expected vid2, got %s", session.Current().VideoID)
		}

		moved, err = session.Previous(ctx)
		if err != nil || !moved {
			t.Fatalf("expected back, got moved=%v err=%v", moved, err)
		}
		if session.Current().VideoID != "vid1" {
			t.Errorf("expected vid1, got %s", session.Current().VideoID)
		}

		for session.HasNext() {
			if _, err := session.Next(ctx); err != nil {
				t.Fatalf("failed to advance: %v", err)
			}
		}

		if moved, _ := session.Next(ctx); moved {
			t.Error("expected Next past the end to stop")
		}
		if session.Done() != nil {
			t.Error("expected no live process after queue end")
		}

		if len(launcher.targets) != 5 {
			t.Errorf("expected 5 launches, got %d", len(launcher.targets))
		}
	})

	t.Run("Advance after process exit", func(t *testing.T) {
		session, _ := testSession(t, queue[:2], "")
		if err := session.Start(ctx); err != nil {
			t.Fatalf("failed to start: %v", err)
		}
		t.Cleanup(session.Stop)

		moved, err := session.Advance(ctx)
		if err != nil || !moved {
			t.Fatalf("expected advance, got moved=%v err=%v", moved, err)
		}
		if session.Current().VideoID != "vid2" {
			t.Errorf("expected vid2, got %s", session.Current().VideoID)
		}

		if moved, _ := session.Advance(ctx); moved {
			t.Error("expected queue end")
		}
	})

	t.Run("Generation changes per launch", func(t *testing.T) {
		session, _ := testSession(t, queue, "")
		if err := session.Start(ctx); err != nil {
			t.Fatalf("failed to start: %v", err)
		}
		t.Cleanup(session.Stop)

		first := session.Generation()
		if _, err := session.Next(ctx); err != nil {
			t.Fatalf("failed to advance: %v", err)
		}

		if session.Generation() == first {
			t.Error("expected generation to change after relaunch")
		}
	})

	t.Run("controls without a socket are soft errors", func(t *testing.T) {
		session, _ := testSession(t, queue, "")
		if err := session.Start(ctx); err != nil {
			t.Fatalf("failed to start: %v", err)
		}
		t.Cleanup(session.Stop)

		if err := session.TogglePause(); !errors.Is(err, shared.ErrPlayerSocket) {
			t.Errorf("expected ErrPlayerSocket, got %v", err)
		}
		if _, err := session.Status(); !errors.Is(err, shared.ErrPlayerSocket) {
			t.Errorf("expected ErrPlayerSocket, got %v", err)
		}
	})
}

func TestSessionDislike(t *testing.T) {
	ctx := context.Background()

	t.Run("from search results", func(t *testing.T) {
		t.Run("adds to the global dislike set", func(t *testing.T) {
			session, _ := testSession(t, []models.Song{sessionSong("vid1", "First")}, "")
			if err := session.Start(ctx); err != nil {
				t.Fatalf("failed to start: %v", err)
			}
			t.Cleanup(session.Stop)

			action, err := session.Dislike()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if action != DislikeAdded {
				t.Errorf("expected DislikeAdded, got %v", action)
			}

			disliked, err := session.dislikes.IsDisliked("vid1")
			if err != nil || !disliked {
				t.Errorf("expected vid1 disliked, got %v %v", disliked, err)
			}
		})

		t.Run("already disliked only skips", func(t *testing.T) {
			session, _ := testSession(t, []models.Song{sessionSong("vid1", "First")}, "")
			if err := session.dislikes.Add(sessionSong("vid1", "First")); err != nil {
				t.Fatalf("failed to seed dislike: %v", err)
			}
			if err := session.Start(ctx); err != nil {
				t.Fatalf("failed to start: %v", err)
			}
			t.Cleanup(session.Stop)

			action, err := session.Dislike()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if action != DislikeSkippedOnly {
				t.Errorf("expected DislikeSkippedOnly, got %v", action)
			}

			count, err := session.dislikes.Count()
			if err != nil || count != 1 {
				t.Errorf("expected dislike count unchanged at 1, got %d %v", count, err)
			}
		})
	})

	t.Run("from a playlist", func(t *testing.T) {
		t.Run("first press removes from the playlist only", func(t *testing.T) {
			session, _ := testSession(t, []models.Song{sessionSong("vid1", "First")}, "Focus")
			if _, err := session.playlists.Create("Focus", ""); err != nil {
				t.Fatalf("failed to create playlist: %v", err)
			}
			if err := session.playlists.AddSong("Focus", sessionSong("vid1", "First")); err != nil {
				t.Fatalf("failed to seed playlist: %v", err)
			}
			if err := session.Start(ctx); err != nil {
				t.Fatalf("failed to start: %v", err)
			}
			t.Cleanup(session.Stop)

			action, err := session.Dislike()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if action != DislikeRemovedFromPlaylist {
				t.Errorf("expected DislikeRemovedFromPlaylist, got %v", action)
			}

			playlist, err := session.playlists.Get("Focus")
			if err != nil {
				t.Fatalf("failed to read playlist: %v", err)
			}
			if playlist.Contains("vid1") {
				t.Error("expected vid1 removed from playlist")
			}

			if disliked, _ := session.dislikes.IsDisliked("vid1"); disliked {
				t.Error("expected vid1 not globally disliked after first press")
			}

			t.Run("second press escalates to global dislike", func(t *testing.T) {
				action, err := session.Dislike()
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if action != DislikeAdded {
					t.Errorf("expected DislikeAdded, got %v", action)
				}

				if disliked, _ := session.dislikes.IsDisliked("vid1"); !disliked {
					t.Error("expected vid1 globally disliked after second press")
				}
			})
		})

		t.Run("song no longer in the playlist goes global", func(t *testing.T) {
			session, _ := testSession(t, []models.Song{sessionSong("vid1", "First")}, "Focus")
			if _, err := session.playlists.Create("Focus", ""); err != nil {
				t.Fatalf("failed to create playlist: %v", err)
			}
			if err := session.Start(ctx); err != nil {
				t.Fatalf("failed to start: %v", err)
			}
			t.Cleanup(session.Stop)

			action, err := session.Dislike()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if action != DislikeAdded {
				t.Errorf("expected DislikeAdded, got %v", action)
			}
		})
	})

	t.Run("nothing playing", func(t *testing.T) {
		session, _ := testSession(t, nil, "")

		if _, err := session.Dislike(); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
