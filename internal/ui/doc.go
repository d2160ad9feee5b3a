// Package ui implements the interactive terminal screens using bubbletea's Elm architecture.
//
// Two top-level models exist, each run as its own program:
//  1. [Picker] : a numbered search-result list with 1-9 quick select and an
//     inline playlist chooser; the chosen track is read back with [Picker.Choice]
//     after the program exits.
//  2. [Player] : the now-playing screen driving a [player.Session], with a
//     progress bar, transport keys (space/n/b/d), a synced-lyrics viewport
//     ([LyricsView]) and the same playlist chooser.
//
// Both implement bubbletea's standard Init/Update/View pattern. Blocking work
// runs in tea.Cmd closures feeding typed messages back into the single Update
// loop: track transitions, process-exit watches and lyrics fetches. Playback
// status is polled on a short tick and rendered from model state, so View
// never blocks on the player socket.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help. While a screen
// owns the terminal, logging goes to a file via [shared.NewFileLogger],
// wired up by the cmd layer.
package ui
