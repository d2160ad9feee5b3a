package ui

import "github.com/charmbracelet/lipgloss"

var styles = defaultStyles()

// stylesheet collects the [lipgloss.Style] values shared by the picker,
// player, and notification views.
type stylesheet struct {
	title  lipgloss.Style
	accent lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	dim    lipgloss.Style
}

func defaultStyles() stylesheet {
	var (
		purple = lipgloss.Color("#7D56F4")
		green  = lipgloss.Color("#04B575")
		red    = lipgloss.Color("#FF0000")
		orange = lipgloss.Color("#FFA500")
		gray   = lipgloss.Color("#626262")
	)
	return stylesheet{
		title:  lipgloss.NewStyle().Foreground(purple).Bold(true).MarginBottom(1),
		accent: lipgloss.NewStyle().Foreground(purple).Bold(true),
		ok:     lipgloss.NewStyle().Foreground(green).Bold(true),
		err:    lipgloss.NewStyle().Foreground(red).Bold(true),
		warn:   lipgloss.NewStyle().Foreground(orange),
		help:   lipgloss.NewStyle().Foreground(gray).Italic(true),
		dim:    lipgloss.NewStyle().Foreground(gray),
	}
}
