package commands

import (
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/app"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "A terminal client for team task management",
	Long: `taskdeck is a terminal client for a team task board. Sign in once and
manage tasks and users from the command line, or run 'taskdeck ui' for the
full-screen interface.`,
	SilenceUsage: true,
}

// withApp wraps a command function, building the application services and
// resuming the saved session before the command runs.
func withApp(fn func(*cobra.Command, []string, *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := app.New()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Session.Resume(cmd.Context()); err != nil {
			return err
		}
		return fn(cmd, args, a)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(versionCmd)
}
