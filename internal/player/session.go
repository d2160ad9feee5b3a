package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytm/internal/library"
	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/shared"
)

// Launcher starts one player process for a stream target. [MPV] is the real
// implementation; tests substitute their own.
type Launcher interface {
	Start(ctx context.Context, target string) (*Handle, error)
}

// defaultDialTimeout bounds the wait for a fresh player's control socket.
const defaultDialTimeout = 5 * time.Second

// Status is a point-in-time playback snapshot read from the control socket.
type Status struct {
	Position float64
	Duration float64
	Paused   bool
}

// DislikeAction reports what a dislike key press actually changed.
type DislikeAction int

const (
	// DislikeSkippedOnly means the song was already in the global dislike
	// set, so only the queue moves.
	DislikeSkippedOnly DislikeAction = iota
	// DislikeRemovedFromPlaylist means the song left its origin playlist but
	// stays playable elsewhere.
	DislikeRemovedFromPlaylist
	// DislikeAdded means the song joined the global dislike set.
	DislikeAdded
)

// Session runs one playback queue through the external player.
//
// It owns the current process handle and control connection; the queue,
// index, and origin playlist name never change from outside. Methods are
// called from a single event loop and are not safe for concurrent use.
type Session struct {
	queue      []models.Song
	index      int
	origin     string
	generation int

	launcher    Launcher
	resolver    *Resolver
	dislikes    *library.DislikeStore
	playlists   *library.PlaylistStore
	logger      *log.Logger
	dialTimeout time.Duration

	handle *Handle
	ipc    *IPC
}

// SessionOpts carries the session's collaborators. Nil fields get defaults.
type SessionOpts struct {
	Launcher    Launcher
	Resolver    *Resolver
	Dislikes    *library.DislikeStore
	Playlists   *library.PlaylistStore
	Logger      *log.Logger
	DialTimeout time.Duration
}

// NewSession creates a session over an ordered queue. origin names the
// playlist the queue came from, or is empty when it came from search
// results.
func NewSession(queue []models.Song, origin string, opts SessionOpts) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	launch := opts.Launcher
	if launch == nil {
		launch = NewMPV(shared.PlayerConfig{}, logger)
	}

	resolver := opts.Resolver
	if resolver == nil {
		resolver = NewResolver(false, logger)
	}

	dialTimeout := opts.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}

	return &Session{
		queue:       queue,
		origin:      origin,
		launcher:    launch,
		resolver:    resolver,
		dislikes:    opts.Dislikes,
		playlists:   opts.Playlists,
		logger:      logger,
		dialTimeout: dialTimeout,
	}
}

// Current returns the song at the queue cursor, or a zero Song when the
// queue is empty.
func (s *Session) Current() models.Song {
	if s.index < 0 || s.index >= len(s.queue) {
		return models.Song{}
	}
	return s.queue[s.index]
}

// QueuePosition returns the 1-based cursor position and queue length.
func (s *Session) QueuePosition() (int, int) {
	return s.index + 1, len(s.queue)
}

// Origin returns the playlist name the queue came from, empty for search.
func (s *Session) Origin() string {
	return s.origin
}

// HasNext reports whether a later song exists.
func (s *Session) HasNext() bool {
	return s.index+1 < len(s.queue)
}

// HasPrevious reports whether an earlier song exists.
func (s *Session) HasPrevious() bool {
	return s.index > 0
}

// Generation identifies the current player process. Exit notifications for
// older generations are stale and must be ignored.
func (s *Session) Generation() int {
	return s.generation
}

// Done delivers the current process's exit. A nil channel (no process)
// blocks forever, which is the right behavior inside a select.
func (s *Session) Done() <-chan error {
	if s.handle == nil {
		return nil
	}
	return s.handle.Done()
}

// Start begins playback at the queue cursor.
func (s *Session) Start(ctx context.Context) error {
	if len(s.queue) == 0 {
		return fmt.Errorf("%w: empty queue", shared.ErrInvalidInput)
	}
	return s.play(ctx)
}

// play spawns a player for the current song and connects its socket.
// Socket failure is soft: the process plays on without controls.
func (s *Session) play(ctx context.Context) error {
	s.stopCurrent()

	song := s.queue[s.index]
	target := s.resolver.Resolve(ctx, song.VideoID)

	handle, err := s.launcher.Start(ctx, target)
	if err != nil {
		return err
	}
	s.handle = handle
	s.generation++

	dialCtx, cancel := context.WithTimeout(ctx, s.dialTimeout)
	defer cancel()

	ipc, err := DialIPC(dialCtx, handle.Socket())
	if err != nil {
		s.logger.Warn("control socket unavailable, playback continues without controls", "error", err)
		s.ipc = nil
	} else {
		s.ipc = ipc
	}

	s.logger.Info("playing", "title", song.Title, "artist", song.Artist, "videoId", song.VideoID)

	return nil
}

// stopCurrent tears down the control connection and kills the process.
func (s *Session) stopCurrent() {
	if s.ipc != nil {
		s.ipc.Close()
		s.ipc = nil
	}
	if s.handle != nil {
		s.handle.Stop()
		s.handle = nil
	}
}

// Stop ends playback and releases the player process.
func (s *Session) Stop() {
	s.stopCurrent()
}

// Next skips to the following song. Returns false with no error when the
// queue is exhausted, which also stops the current process.
func (s *Session) Next(ctx context.Context) (bool, error) {
	if !s.HasNext() {
		s.stopCurrent()
		return false, nil
	}

	s.index++
	return true, s.play(ctx)
}

// Previous returns to the prior song. At the head of the queue it does
// nothing and returns false.
func (s *Session) Previous(ctx context.Context) (bool, error) {
	if !s.HasPrevious() {
		return false, nil
	}

	s.index--
	return true, s.play(ctx)
}

// Advance moves on after the player process exited on its own, meaning the
// track finished or the user closed the player. Returns false when the
// queue is exhausted.
func (s *Session) Advance(ctx context.Context) (bool, error) {
	if s.ipc != nil {
		s.ipc.Close()
		s.ipc = nil
	}
	s.handle = nil

	if !s.HasNext() {
		return false, nil
	}

	s.index++
	return true, s.play(ctx)
}

// TogglePause flips the pause state over the control socket.
func (s *Session) TogglePause() error {
	if s.ipc == nil {
		return shared.ErrPlayerSocket
	}
	return s.ipc.TogglePause()
}

// Status polls playback position, duration, and pause state.
func (s *Session) Status() (Status, error) {
	if s.ipc == nil {
		return Status{}, shared.ErrPlayerSocket
	}

	position, err := s.ipc.Float("time-pos")
	if err != nil {
		return Status{}, err
	}

	duration, err := s.ipc.Float("duration")
	if err != nil {
		return Status{}, err
	}

	paused, err := s.ipc.Bool("pause")
	if err != nil {
		return Status{}, err
	}

	return Status{Position: position, Duration: duration, Paused: paused}, nil
}

// Dislike applies the two-step dislike rule to the current song and reports
// which step fired. The caller decides whether to skip afterwards; every
// action implies a skip.
//
// Step one: a song already in the global dislike set changes nothing.
// Step two: a song playing from its playlist is removed from that playlist
// only, so the next press escalates.
// Step three: anything else joins the global dislike set.
func (s *Session) Dislike() (DislikeAction, error) {
	song := s.Current()
	if song.VideoID == "" {
		return 0, fmt.Errorf("%w: nothing playing", shared.ErrInvalidInput)
	}

	disliked, err := s.dislikes.IsDisliked(song.VideoID)
	if err != nil {
		return 0, err
	}
	if disliked {
		return DislikeSkippedOnly, nil
	}

	if s.origin != "" {
		if _, err := s.playlists.RemoveSongByID(s.origin, song.VideoID); err == nil {
			return DislikeRemovedFromPlaylist, nil
		} else if !errors.Is(err, shared.ErrSongNotFound) && !errors.Is(err, shared.ErrPlaylistNotFound) {
			return 0, err
		}
	}

	if err := s.dislikes.Add(song); err != nil {
		if errors.Is(err, shared.ErrAlreadyDisliked) {
			return DislikeSkippedOnly, nil
		}
		return 0, err
	}

	return DislikeAdded, nil
}
