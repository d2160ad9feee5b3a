package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytm/internal/library"
	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/player"
	"github.com/desertthunder/ytm/internal/shared"
)

// ViewState represents the active screen in the playback TUI.
type ViewState int

const (
	NowPlayingView ViewState = iota
	LyricsView
)

// LyricsFetcher resolves lyrics for a song. The cmd layer composes the
// lyrics provider and catalog lookups into one of these.
type LyricsFetcher func(ctx context.Context, song models.Song) (*models.Lyrics, error)

// Player is the now-playing screen driving a [player.Session]. Session
// calls are serialized: quick IPC commands run inside Update, track
// transitions run in a single in-flight tea.Cmd guarded by the busy flag,
// and every other session call is suppressed while one is pending. View
// reads the current/queuePos/queueLen mirrors, never the session itself.
type Player struct {
	ctx         context.Context
	view        ViewState
	session     *player.Session
	playlists   *library.PlaylistStore
	fetchLyrics LyricsFetcher
	logger      *log.Logger

	current  models.Song
	origin   string
	queuePos int
	queueLen int
	status   player.Status
	busy     bool
	finished bool
	err      error

	bar          progress.Model
	vp           viewport.Model
	lyrics       *models.Lyrics
	lyricsFor    string
	lyricsErr    error
	manualScroll bool

	chooser   *playlistPicker
	notice    notice
	noticeSeq int
	help      help.Model
	keys      keyMap
	width     int
	height    int
}

// NewPlayer creates the now-playing screen for an unstarted session.
func NewPlayer(ctx context.Context, session *player.Session, playlists *library.PlaylistStore, fetch LyricsFetcher, logger *log.Logger) *Player {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	m := &Player{
		ctx:         ctx,
		session:     session,
		playlists:   playlists,
		fetchLyrics: fetch,
		logger:      logger,
		bar:         bar,
		vp:          viewport.New(72, 16),
		help:        help.New(),
		keys:        newKeyMap(),
	}
	m.current = session.Current()
	m.origin = session.Origin()
	m.queuePos, m.queueLen = session.QueuePosition()
	return m
}

// Init starts playback of the first queued song.
func (m *Player) Init() tea.Cmd {
	m.busy = true
	return tea.Batch(m.start(), statusTick())
}

// Err returns the fatal playback error, if any, once the program exits.
func (m *Player) Err() error { return m.err }

// Finished reports whether the queue played through to the end.
func (m *Player) Finished() bool { return m.finished }

// Update handles incoming messages and updates the model state.
func (m *Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(60, msg.Width-12)
		m.vp.Width = max(20, msg.Width-4)
		m.vp.Height = max(5, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if m.chooser != nil {
			return m.handleChooserKeys(msg)
		}
		if m.view == LyricsView {
			return m.handleLyricsKeys(msg)
		}
		return m.handleNowPlayingKeys(msg)

	case trackStartedMsg:
		return m.handleTrackStarted(msg)

	case playerExitMsg:
		if m.busy || msg.generation != m.session.Generation() {
			return m, nil
		}
		m.busy = true
		return m, m.advance()

	case statusTickMsg:
		if !m.busy {
			if status, err := m.session.Status(); err == nil {
				m.status = status
			}
			if m.view == LyricsView {
				m.refreshLyricsContent()
			}
		}
		return m, statusTick()

	case lyricsFetchedMsg:
		if msg.videoID != m.current.VideoID {
			return m, nil
		}
		m.lyrics = msg.lyrics
		m.lyricsErr = msg.err
		m.lyricsFor = msg.videoID
		m.manualScroll = false
		m.refreshLyricsContent()
		return m, nil

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = notice{}
		}
		return m, nil
	}
	return m, nil
}

// View renders the active screen.
func (m *Player) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}
	if m.finished {
		return ""
	}
	if m.chooser != nil {
		return m.chooser.View()
	}
	if m.view == LyricsView {
		return m.renderLyrics()
	}
	return m.renderNowPlaying()
}

func (m *Player) handleNowPlayingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, handled := m.playbackKeys(msg); handled {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.back):
		if !m.busy {
			m.session.Stop()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.lyrics):
		return m, m.openLyrics()
	}
	return m, nil
}

func (m *Player) handleLyricsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "k", "up", "down", "pgup", "pgdown":
		m.manualScroll = true
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	case "ctrl+c":
		if !m.busy {
			m.session.Stop()
		}
		return m, tea.Quit
	case "q", "esc", "l":
		m.view = NowPlayingView
		return m, nil
	}

	if cmd, handled := m.playbackKeys(msg); handled {
		return m, cmd
	}
	return m, nil
}

// playbackKeys handles the transport controls shared by every screen.
func (m *Player) playbackKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.pause):
		if m.busy {
			return nil, true
		}
		if err := m.session.TogglePause(); err != nil {
			return m.flash(notice{text: "Player controls unavailable", style: noticeWarn}), true
		}
		return nil, true

	case key.Matches(msg, m.keys.next):
		if m.busy {
			return nil, true
		}
		m.busy = true
		return m.next(), true

	case key.Matches(msg, m.keys.previous):
		if m.busy || !m.session.HasPrevious() {
			return nil, true
		}
		m.busy = true
		return m.previous(), true

	case key.Matches(msg, m.keys.dislike):
		if m.busy {
			return nil, true
		}
		action, err := m.session.Dislike()
		if err != nil {
			return m.flash(notice{text: fmt.Sprintf("Dislike failed: %v", err), style: noticeErr}), true
		}
		flash := m.flash(m.dislikeNotice(action))
		m.busy = true
		return tea.Batch(flash, m.next()), true

	case key.Matches(msg, m.keys.add):
		names, err := m.playlists.Names()
		if err != nil {
			return m.flash(notice{text: fmt.Sprintf("Could not list playlists: %v", err), style: noticeErr}), true
		}
		m.chooser = newPlaylistPicker(names)
		if m.chooser.mode == nameMode {
			return textinput.Blink, true
		}
		return nil, true
	}
	return nil, false
}

func (m *Player) handleChooserKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	choice, cmd := m.chooser.Update(msg)
	switch {
	case choice.cancel:
		m.chooser = nil
		return m, nil
	case choice.name != "":
		m.chooser = nil
		n := addSongToPlaylist(m.playlists, choice, m.current)
		m.logger.Debug("player add", "playlist", choice.name, "video_id", m.current.VideoID, "result", n.text)
		return m, m.flash(n)
	}
	return m, cmd
}

func (m *Player) handleTrackStarted(msg trackStartedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		m.err = msg.err
		return m, tea.Quit
	}
	if !msg.started {
		m.finished = true
		return m, tea.Quit
	}

	m.current = m.session.Current()
	m.queuePos, m.queueLen = m.session.QueuePosition()
	m.status = player.Status{}
	m.manualScroll = false
	m.logger.Debug("now playing", "video_id", m.current.VideoID, "title", m.current.Title, "position", m.queuePos)

	cmds := []tea.Cmd{}
	if cmd := m.waitExit(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.view == LyricsView && m.lyricsFor != m.current.VideoID {
		m.lyrics = nil
		m.lyricsErr = nil
		if cmd := m.loadLyrics(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// openLyrics switches to the lyrics screen, reusing the sheet already
// fetched for the current song when there is one.
func (m *Player) openLyrics() tea.Cmd {
	m.view = LyricsView
	m.manualScroll = false
	if m.lyricsFor == m.current.VideoID && (m.lyrics != nil || m.lyricsErr != nil) {
		m.refreshLyricsContent()
		return nil
	}
	m.lyrics = nil
	m.lyricsErr = nil
	m.lyricsFor = ""
	return m.loadLyrics()
}

func (m *Player) start() tea.Cmd {
	return func() tea.Msg {
		err := m.session.Start(m.ctx)
		return trackStartedMsg{started: err == nil, err: err}
	}
}

func (m *Player) next() tea.Cmd {
	return func() tea.Msg {
		started, err := m.session.Next(m.ctx)
		return trackStartedMsg{started: started, err: err}
	}
}

func (m *Player) previous() tea.Cmd {
	return func() tea.Msg {
		started, err := m.session.Previous(m.ctx)
		return trackStartedMsg{started: started, err: err}
	}
}

func (m *Player) advance() tea.Cmd {
	return func() tea.Msg {
		started, err := m.session.Advance(m.ctx)
		return trackStartedMsg{started: started, err: err}
	}
}

// waitExit arms a watcher for the playback process started by the last
// transition. The generation is captured here so a process we killed on
// purpose cannot trigger an auto-advance later.
func (m *Player) waitExit() tea.Cmd {
	generation := m.session.Generation()
	done := m.session.Done()
	if done == nil {
		return nil
	}
	return func() tea.Msg {
		<-done
		return playerExitMsg{generation: generation}
	}
}

func (m *Player) loadLyrics() tea.Cmd {
	song := m.current
	fetch := m.fetchLyrics
	if fetch == nil || song.VideoID == "" {
		return nil
	}
	return func() tea.Msg {
		lyrics, err := fetch(m.ctx, song)
		return lyricsFetchedMsg{videoID: song.VideoID, lyrics: lyrics, err: err}
	}
}

func (m *Player) flash(n notice) tea.Cmd {
	m.notice = n
	m.noticeSeq++
	return expireNotice(m.noticeSeq)
}

func (m *Player) dislikeNotice(action player.DislikeAction) notice {
	switch action {
	case player.DislikeRemovedFromPlaylist:
		return notice{text: fmt.Sprintf("Removed from %s. Press d again to dislike everywhere.", m.origin), style: noticeWarn}
	case player.DislikeSkippedOnly:
		return notice{text: "Already disliked. Skipping.", style: noticeWarn}
	default:
		return notice{text: "Disliked. Skipping.", style: noticeOK}
	}
}

func (m *Player) renderNowPlaying() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Now Playing"))
	b.WriteString("\n")

	b.WriteString(styles.accent.Render(m.current.Title))
	b.WriteString("\n")
	b.WriteString(m.current.Artist)
	b.WriteString("\n")
	if m.current.Album != "" {
		b.WriteString(styles.dim.Render(m.current.Album))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderProgress())
	b.WriteString("\n\n")
	b.WriteString(styles.dim.Render(m.queueLine()))
	b.WriteString("\n")

	if m.notice.text != "" {
		b.WriteString("\n")
		b.WriteString(m.notice.render())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Player) renderProgress() string {
	glyph := "▶"
	if m.status.Paused {
		glyph = "⏸"
	}
	if m.busy {
		glyph = "…"
	}

	duration := m.status.Duration
	if duration <= 0 {
		duration = float64(shared.ParseDuration(m.current.Duration))
	}
	var ratio float64
	if duration > 0 {
		ratio = m.status.Position / duration
	}
	ratio = min(max(ratio, 0), 1)

	return fmt.Sprintf("%s %s %s %s",
		glyph,
		shared.FormatDuration(int(m.status.Position)),
		m.bar.ViewAs(ratio),
		shared.FormatDuration(int(duration)),
	)
}

func (m *Player) queueLine() string {
	line := fmt.Sprintf("Track %d of %d", m.queuePos, m.queueLen)
	if m.origin != "" {
		line = fmt.Sprintf("%s • %s", line, m.origin)
	}
	return line
}

func (m *Player) renderLyrics() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Lyrics"))
	b.WriteString("\n")
	b.WriteString(styles.dim.Render(m.current.Label()))
	b.WriteString("\n\n")

	switch {
	case m.lyricsFor != m.current.VideoID:
		b.WriteString(styles.dim.Render("Fetching lyrics..."))
	case m.lyrics == nil:
		b.WriteString(styles.warn.Render("No lyrics found"))
	default:
		b.WriteString(m.vp.View())
		if m.lyrics.Source != "" {
			b.WriteString("\n")
			b.WriteString(styles.dim.Render("Source: " + m.lyrics.Source))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(styles.help.Render("j/k scroll • q back"))
	return b.String()
}

// refreshLyricsContent rebuilds the viewport for the current playback
// position, keeping the active line centered unless the user scrolled.
func (m *Player) refreshLyricsContent() {
	if m.lyrics == nil {
		m.vp.SetContent("")
		return
	}
	if !m.lyrics.Synced() {
		m.vp.SetContent(m.lyrics.Plain)
		return
	}

	current := m.lyrics.CurrentLine(m.status.Position)
	lines := make([]string, len(m.lyrics.Lines))
	for i, line := range m.lyrics.Lines {
		switch {
		case i == current:
			lines[i] = styles.accent.Render(line.Text)
		case i < current:
			lines[i] = styles.dim.Render(line.Text)
		default:
			lines[i] = line.Text
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if !m.manualScroll {
		m.centerOn(current)
	}
}

func (m *Player) centerOn(line int) {
	if line < 0 {
		m.vp.SetYOffset(0)
		return
	}
	offset := line - m.vp.Height/2
	maxOffset := max(m.vp.TotalLineCount()-m.vp.Height, 0)
	m.vp.SetYOffset(min(max(offset, 0), maxOffset))
}
