package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/app"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  withApp(runWhoami),
}

func runWhoami(cmd *cobra.Command, args []string, a *app.App) error {
	if !a.Session.Authenticated() {
		return fmt.Errorf("not signed in, run 'taskdeck login' first")
	}
	user := a.Session.CurrentUser()
	fmt.Printf("%s (@%s)\n", user.Name, user.Username)
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("Role:  %s\n", user.Role)
	return nil
}
