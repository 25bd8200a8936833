package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/app"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the saved session",
	RunE:  withApp(runLogout),
}

func runLogout(cmd *cobra.Command, args []string, a *app.App) error {
	if !a.Session.Authenticated() {
		fmt.Println("Not signed in.")
		return nil
	}
	// the local session is cleared even when the server call fails
	if err := a.Session.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}
