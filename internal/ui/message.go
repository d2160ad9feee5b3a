package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytm/internal/models"
)

// statusTickMsg fires on a timer while the player screen is active; Update
// polls playback status when it arrives.
type statusTickMsg struct{}

// playerExitMsg reports that the playback process for the given generation
// exited. Stale generations are ignored so an intentional restart is not
// mistaken for a finished track.
type playerExitMsg struct {
	generation int
}

// trackStartedMsg reports the outcome of starting or advancing playback.
// started false with a nil error means the queue is exhausted.
type trackStartedMsg struct {
	started bool
	err     error
}

// lyricsFetchedMsg carries the result of a lyrics lookup.
type lyricsFetchedMsg struct {
	videoID string
	lyrics  *models.Lyrics
	err     error
}

// clearNoticeMsg removes an expired status-line notice. The sequence number
// guards against clearing a newer notice than the one that scheduled it.
type clearNoticeMsg struct {
	seq int
}

type noticeStyle int

const (
	noticeInfo noticeStyle = iota
	noticeOK
	noticeWarn
	noticeErr
)

// notice is a short-lived status-line message.
type notice struct {
	text  string
	style noticeStyle
}

func (n notice) render() string {
	switch n.style {
	case noticeOK:
		return styles.ok.Render(n.text)
	case noticeWarn:
		return styles.warn.Render(n.text)
	case noticeErr:
		return styles.err.Render(n.text)
	default:
		return styles.dim.Render(n.text)
	}
}

const (
	noticeLifetime     = 3 * time.Second
	statusTickInterval = 500 * time.Millisecond
)

func statusTick() tea.Cmd {
	return tea.Tick(statusTickInterval, func(time.Time) tea.Msg { return statusTickMsg{} })
}

func expireNotice(seq int) tea.Cmd {
	return tea.Tick(noticeLifetime, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })
}
