package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI on the alternate screen and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(NewApp(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
