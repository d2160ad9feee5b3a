package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytm/internal/library"
	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/shared"
)

// Picker is the search result selection screen: a numbered list the user
// moves through with j/k or jumps through with 1-9, confirming with enter.
// The selection is read back with [Picker.Choice] after the program exits.
type Picker struct {
	title     string
	tracks    []models.Track
	cursor    int
	choice    int
	chooser   *playlistPicker
	playlists *library.PlaylistStore
	notice    notice
	noticeSeq int
	help      help.Model
	keys      keyMap
	logger    *log.Logger
	width     int
	height    int
}

// NewPicker creates the selection screen for a set of search results.
func NewPicker(title string, tracks []models.Track, playlists *library.PlaylistStore, logger *log.Logger) *Picker {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Picker{
		title:     title,
		tracks:    tracks,
		choice:    -1,
		playlists: playlists,
		help:      help.New(),
		keys:      newKeyMap(),
		logger:    logger,
	}
}

func (m *Picker) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = notice{}
		}
		return m, nil

	case tea.KeyMsg:
		if m.chooser != nil {
			return m.handleChooserKeys(msg)
		}
		return m.handleListKeys(msg)
	}
	return m, nil
}

// View renders the numbered result list, or the playlist chooser overlay
// while it is open.
func (m *Picker) View() string {
	if m.chooser != nil {
		return m.chooser.View()
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(m.title))
	b.WriteString("\n")

	if len(m.tracks) == 0 {
		b.WriteString(styles.dim.Render("No songs to show."))
		b.WriteString("\n")
	}
	for i, track := range m.tracks {
		b.WriteString(row(fmt.Sprintf("%d. %s", i+1, trackItem{track: track}.label()), i == m.cursor))
	}

	if m.notice.text != "" {
		b.WriteString("\n")
		b.WriteString(m.notice.render())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	jump := key.NewBinding(key.WithKeys("1"), key.WithHelp("1-9", "jump"))
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.enter, jump, m.keys.add, m.keys.quit}))
	return b.String()
}

// Choice returns the selected track. ok is false when the picker was
// dismissed without a selection.
func (m *Picker) Choice() (models.Track, bool) {
	if m.choice < 0 || m.choice >= len(m.tracks) {
		return models.Track{}, false
	}
	return m.tracks[m.choice], true
}

func (m *Picker) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.back):
		return m, tea.Quit
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor < len(m.tracks)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.enter):
		if len(m.tracks) > 0 {
			m.choice = m.cursor
			return m, tea.Quit
		}
	case key.Matches(msg, m.keys.add):
		if len(m.tracks) == 0 {
			return m, nil
		}
		names, err := m.playlists.Names()
		if err != nil {
			return m, m.flash(notice{text: fmt.Sprintf("Could not list playlists: %v", err), style: noticeErr})
		}
		m.chooser = newPlaylistPicker(names)
		if m.chooser.mode == nameMode {
			return m, textinput.Blink
		}
	default:
		if idx := digitIndex(msg.String()); idx >= 0 && idx < len(m.tracks) {
			m.choice = idx
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Picker) handleChooserKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	choice, cmd := m.chooser.Update(msg)
	switch {
	case choice.cancel:
		m.chooser = nil
		return m, nil
	case choice.name != "":
		m.chooser = nil
		song := m.tracks[m.cursor].Song()
		n := addSongToPlaylist(m.playlists, choice, song)
		m.logger.Debug("picker add", "playlist", choice.name, "video_id", song.VideoID, "result", n.text)
		return m, m.flash(n)
	}
	return m, cmd
}

func (m *Picker) flash(n notice) tea.Cmd {
	m.notice = n
	m.noticeSeq++
	return expireNotice(m.noticeSeq)
}

// digitIndex maps keys "1" through "9" to a zero-based index, -1 otherwise.
func digitIndex(s string) int {
	if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return int(s[0] - '1')
	}
	return -1
}
