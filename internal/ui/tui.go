// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the feed command
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI program. The caller drives it with Send(StatusMsg)
// and waits on its Run method.
func Run() *tea.Program {
	return tea.NewProgram(NewModel(), tea.WithAltScreen())
}
