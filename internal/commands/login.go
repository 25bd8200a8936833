package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/app"
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Sign in and save the session",
	Long: `Sign in with your username and password. The session token is saved
locally so subsequent commands run authenticated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(runLogin),
}

func runLogin(cmd *cobra.Command, args []string, a *app.App) error {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		fmt.Print("Username: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}

	fmt.Print("Password: ")
	secret, err := term.ReadPassword(os.Stdin.Fd())
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password := string(secret)
	if password == "" {
		return fmt.Errorf("password is required")
	}

	user, err := a.Session.Login(cmd.Context(), username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("Signed in as %s (%s)\n", user.Name, user.Role)
	return nil
}
