package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/access"
	"github.com/taskdeck/taskdeck/internal/app"
	"github.com/taskdeck/taskdeck/internal/forms"
	"github.com/taskdeck/taskdeck/internal/models"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List and manage users (managers and admins)",
}

var usersLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List users",
	RunE:    withApp(runUsersLs),
}

var usersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user",
	RunE:  withApp(runUsersAdd),
}

var usersEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update a user",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runUsersEdit),
}

var usersRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a user",
	Args:    cobra.ExactArgs(1),
	RunE:    withApp(runUsersRm),
}

func init() {
	usersAddCmd.Flags().String("name", "", "Full name")
	usersAddCmd.Flags().String("username", "", "Login username")
	usersAddCmd.Flags().String("email", "", "Email address")
	usersAddCmd.Flags().String("password", "", "Initial password")
	usersAddCmd.Flags().String("role", models.RoleUser, "Role: user, manager, admin")
	usersAddCmd.Flags().Bool("inactive", false, "Create the account deactivated")

	usersEditCmd.Flags().String("name", "", "New full name")
	usersEditCmd.Flags().String("username", "", "New login username")
	usersEditCmd.Flags().String("email", "", "New email address")
	usersEditCmd.Flags().String("password", "", "New password (blank keeps current)")
	usersEditCmd.Flags().String("role", "", "New role")
	usersEditCmd.Flags().Bool("active", false, "Activate the account")
	usersEditCmd.Flags().Bool("inactive", false, "Deactivate the account")

	usersRmCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	usersCmd.AddCommand(usersLsCmd)
	usersCmd.AddCommand(usersAddCmd)
	usersCmd.AddCommand(usersEditCmd)
	usersCmd.AddCommand(usersRmCmd)
}

// requireManageUsers checks the role gate for user management commands.
func requireManageUsers(a *app.App) (*models.User, access.Capabilities, error) {
	actor, err := requireAuth(a)
	if err != nil {
		return nil, access.Capabilities{}, err
	}
	caps := access.ForRole(actor.Role)
	if !caps.ManageUsers {
		return nil, caps, fmt.Errorf("your role does not permit user management")
	}
	return actor, caps, nil
}

// listUsers fetches the user collection the caller's role is scoped to.
func listUsers(cmd *cobra.Command, a *app.App, caps access.Capabilities) ([]models.User, error) {
	if caps.ManagedScope {
		return a.Client.ListManagedUsers(cmd.Context())
	}
	return a.Client.ListUsers(cmd.Context())
}

func runUsersLs(cmd *cobra.Command, args []string, a *app.App) error {
	_, caps, err := requireManageUsers(a)
	if err != nil {
		return err
	}

	users, err := listUsers(cmd, a, caps)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}
	if len(users) == 0 {
		fmt.Println("No users found.")
		return nil
	}

	fmt.Printf("%-26s %-24s %-18s %-28s %-8s %s\n", "ID", "NAME", "USERNAME", "EMAIL", "ROLE", "STATUS")
	fmt.Println(strings.Repeat("-", 112))
	for _, user := range users {
		status := "active"
		if !user.Active {
			status = "inactive"
		}
		fmt.Printf("%-26s %-24s %-18s %-28s %-8s %s\n",
			user.ID, user.Name, user.Username, user.Email, user.Role, status)
	}
	return nil
}

func runUsersAdd(cmd *cobra.Command, args []string, a *app.App) error {
	actor, _, err := requireManageUsers(a)
	if err != nil {
		return err
	}

	form := forms.NewUserForm(nil, actor)
	form.Name, _ = cmd.Flags().GetString("name")
	form.Username, _ = cmd.Flags().GetString("username")
	form.Email, _ = cmd.Flags().GetString("email")
	form.Password, _ = cmd.Flags().GetString("password")
	if v, _ := cmd.Flags().GetString("role"); v != "" {
		form.Role = v
	}
	if inactive, _ := cmd.Flags().GetBool("inactive"); inactive {
		form.Active = false
	}

	user, err := form.Submit(cmd.Context(), a.Client, a.Cache)
	if err != nil {
		return err
	}
	fmt.Printf("Created user %s (@%s)\n", user.Name, user.Username)
	return nil
}

func runUsersEdit(cmd *cobra.Command, args []string, a *app.App) error {
	actor, caps, err := requireManageUsers(a)
	if err != nil {
		return err
	}

	user, err := findUser(cmd, a, caps, args[0])
	if err != nil {
		return err
	}

	form := forms.NewUserForm(user, actor)
	if v, _ := cmd.Flags().GetString("name"); v != "" {
		form.Name = v
	}
	if v, _ := cmd.Flags().GetString("username"); v != "" {
		form.Username = v
	}
	if v, _ := cmd.Flags().GetString("email"); v != "" {
		form.Email = v
	}
	if v, _ := cmd.Flags().GetString("password"); v != "" {
		form.Password = v
	}
	if v, _ := cmd.Flags().GetString("role"); v != "" {
		form.Role = v
	}
	if active, _ := cmd.Flags().GetBool("active"); active {
		form.Active = true
	}
	if inactive, _ := cmd.Flags().GetBool("inactive"); inactive {
		form.Active = false
	}

	updated, err := form.Submit(cmd.Context(), a.Client, a.Cache)
	if err != nil {
		return err
	}
	fmt.Printf("Updated user %s (@%s)\n", updated.Name, updated.Username)
	return nil
}

func runUsersRm(cmd *cobra.Command, args []string, a *app.App) error {
	actor, caps, err := requireManageUsers(a)
	if err != nil {
		return err
	}
	if actor.ID == args[0] {
		return fmt.Errorf("you cannot delete your own account")
	}

	user, err := findUser(cmd, a, caps, args[0])
	if err != nil {
		return err
	}

	skip, _ := cmd.Flags().GetBool("yes")
	if !skip {
		ok, err := confirm(fmt.Sprintf("Delete user %q (@%s)?", user.Name, user.Username))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := forms.DeleteUser(cmd.Context(), a.Client, a.Cache, user.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted user %s\n", user.ID)
	return nil
}

// findUser resolves a user by ID within the caller's scope.
func findUser(cmd *cobra.Command, a *app.App, caps access.Capabilities, id string) (*models.User, error) {
	users, err := listUsers(cmd, a, caps)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %s not found", id)
}
