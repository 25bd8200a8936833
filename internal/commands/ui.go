package commands

import (
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/app"
	"github.com/taskdeck/taskdeck/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the full-screen interface",
	Long: `Open the interactive full-screen interface. Unauthenticated sessions
land on the login form; managers and admins get the user management view.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New()
		if err != nil {
			return err
		}
		defer a.Close()

		// the TUI resolves the session itself so the spinner can show
		return tui.Run(a)
	},
}
