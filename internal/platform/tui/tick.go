// Package tui provides the Bubble Tea client for the sliding-tile game.
// It handles the terminal UI loop, input mapping and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// highlightDuration is how long merged and spawned cells stay marked.
const highlightDuration = 250 * time.Millisecond

// clearHighlightMsg is sent when the highlight of move seq expires.
type clearHighlightMsg struct {
	seq int
}

// clearHighlightCmd returns a command that expires the highlight of move seq.
func clearHighlightCmd(seq int) tea.Cmd {
	return tea.Tick(highlightDuration, func(time.Time) tea.Msg {
		return clearHighlightMsg{seq: seq}
	})
}
