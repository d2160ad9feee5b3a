package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytm/internal/library"
	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/shared"
)

// playlistPickerMode selects between choosing an existing playlist and
// naming a new one.
type playlistPickerMode int

const (
	chooseMode playlistPickerMode = iota
	nameMode
)

// playlistPicker is the inline chooser overlay both screens open on the
// add-to-playlist key. It only picks a name; the parent model persists
// the song and reports the outcome.
type playlistPicker struct {
	mode   playlistPickerMode
	names  []string
	cursor int
	input  textinput.Model
}

// playlistChoice is the outcome of one key press inside the chooser. The
// zero value means the chooser stays open.
type playlistChoice struct {
	name   string
	create bool
	cancel bool
}

func newPlaylistPicker(names []string) *playlistPicker {
	input := textinput.New()
	input.Placeholder = "playlist name"
	input.CharLimit = 60
	input.Width = 30

	p := &playlistPicker{names: names, input: input}
	if len(names) == 0 {
		p.mode = nameMode
		p.input.Focus()
	}
	return p
}

// Update consumes one key press. The chooser closes when the returned
// choice has cancel set or carries a non-empty name.
func (p *playlistPicker) Update(msg tea.KeyMsg) (playlistChoice, tea.Cmd) {
	if p.mode == nameMode {
		return p.updateName(msg)
	}
	return p.updateChoose(msg)
}

func (p *playlistPicker) updateChoose(msg tea.KeyMsg) (playlistChoice, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "ctrl+c":
		return playlistChoice{cancel: true}, nil
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.names) {
			p.cursor++
		}
	case "enter":
		if p.cursor == len(p.names) {
			p.mode = nameMode
			p.input.Focus()
			return playlistChoice{}, textinput.Blink
		}
		return playlistChoice{name: p.names[p.cursor]}, nil
	}
	return playlistChoice{}, nil
}

func (p *playlistPicker) updateName(msg tea.KeyMsg) (playlistChoice, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return playlistChoice{cancel: true}, nil
	case "esc":
		if len(p.names) == 0 {
			return playlistChoice{cancel: true}, nil
		}
		p.mode = chooseMode
		p.input.Blur()
		return playlistChoice{}, nil
	case "enter":
		name := strings.TrimSpace(p.input.Value())
		if name == "" {
			return playlistChoice{}, nil
		}
		return playlistChoice{name: name, create: true}, nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return playlistChoice{}, cmd
}

func (p *playlistPicker) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Add to playlist"))
	b.WriteString("\n")

	if p.mode == nameMode {
		b.WriteString("New playlist name:\n")
		b.WriteString(p.input.View())
		b.WriteString("\n\n")
		b.WriteString(styles.help.Render("enter save • esc back"))
		return b.String()
	}

	for i, name := range p.names {
		b.WriteString(row(name, i == p.cursor))
	}
	b.WriteString(row("New playlist...", p.cursor == len(p.names)))
	b.WriteString("\n")
	b.WriteString(styles.help.Render("enter choose • esc cancel"))
	return b.String()
}

// row renders one selectable line with a cursor marker.
func row(label string, selected bool) string {
	if selected {
		return styles.accent.Render("> "+label) + "\n"
	}
	return "  " + label + "\n"
}

// addSongToPlaylist persists a chooser outcome and describes it for the
// status line.
func addSongToPlaylist(store *library.PlaylistStore, choice playlistChoice, song models.Song) notice {
	if choice.create {
		if _, err := store.Create(choice.name, ""); err != nil && !errors.Is(err, shared.ErrPlaylistExists) {
			return notice{text: fmt.Sprintf("Could not create playlist: %v", err), style: noticeErr}
		}
	}
	if err := store.AddSong(choice.name, song); err != nil {
		if errors.Is(err, shared.ErrDuplicateSong) {
			return notice{text: fmt.Sprintf("Already in %s", choice.name), style: noticeWarn}
		}
		return notice{text: fmt.Sprintf("Could not add song: %v", err), style: noticeErr}
	}
	return notice{text: fmt.Sprintf("Added to %s", choice.name), style: noticeOK}
}
