package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/app"
)

// Run starts the full-screen TUI and blocks until the user quits.
func Run(a *app.App) error {
	p := tea.NewProgram(NewModel(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
