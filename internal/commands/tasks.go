package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/app"
	"github.com/taskdeck/taskdeck/internal/filters"
	"github.com/taskdeck/taskdeck/internal/forms"
	"github.com/taskdeck/taskdeck/internal/models"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List and manage tasks",
}

var tasksLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tasks",
	Long:    "List tasks with optional filters for status, priority and a text search",
	RunE:    withApp(runTasksLs),
}

var tasksAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runTasksAdd),
}

var tasksEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update a task",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runTasksEdit),
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runTasksDone),
}

var tasksRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    withApp(runTasksRm),
}

func init() {
	tasksLsCmd.Flags().StringP("status", "s", "", "Filter by status: pending, in-progress, completed")
	tasksLsCmd.Flags().StringP("priority", "p", "", "Filter by priority: low, medium, high, urgent")
	tasksLsCmd.Flags().String("search", "", "Filter by text in title or description")
	tasksLsCmd.Flags().String("sort", "newest", "Sort order: newest, oldest, due-date, priority")

	tasksAddCmd.Flags().StringP("desc", "d", "", "Task description")
	tasksAddCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	tasksAddCmd.Flags().String("priority", "", "Priority: low, medium, high, urgent")
	tasksAddCmd.Flags().String("status", "", "Status: pending, in-progress, completed")
	tasksAddCmd.Flags().String("assignee", "", "Assignee user ID (managers and admins)")

	tasksEditCmd.Flags().String("title", "", "New title")
	tasksEditCmd.Flags().StringP("desc", "d", "", "New description")
	tasksEditCmd.Flags().String("due", "", "New due date (YYYY-MM-DD)")
	tasksEditCmd.Flags().String("priority", "", "New priority")
	tasksEditCmd.Flags().String("status", "", "New status")
	tasksEditCmd.Flags().String("assignee", "", "New assignee user ID")

	tasksRmCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	tasksCmd.AddCommand(tasksLsCmd)
	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksEditCmd)
	tasksCmd.AddCommand(tasksDoneCmd)
	tasksCmd.AddCommand(tasksRmCmd)
}

// requireAuth returns the signed-in user or an error telling the user to log
// in first.
func requireAuth(a *app.App) (*models.User, error) {
	if !a.Session.Authenticated() {
		return nil, fmt.Errorf("not signed in, run 'taskdeck login' first")
	}
	return a.Session.CurrentUser(), nil
}

func runTasksLs(cmd *cobra.Command, args []string, a *app.App) error {
	if _, err := requireAuth(a); err != nil {
		return err
	}

	status, _ := cmd.Flags().GetString("status")
	priority, _ := cmd.Flags().GetString("priority")
	search, _ := cmd.Flags().GetString("search")
	sortFlag, _ := cmd.Flags().GetString("sort")

	order, err := filters.ParseSortOrder(sortFlag)
	if err != nil {
		return err
	}

	tasks, err := a.Client.ListTasks(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch tasks: %w", err)
	}

	filter := filters.TaskFilter{Status: status, Priority: priority, Search: search}
	tasks = filters.Sort(filter.Apply(tasks), order)

	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	fmt.Printf("%-26s %-40s %-12s %-9s %-12s %s\n", "ID", "TITLE", "STATUS", "PRIORITY", "DUE", "ASSIGNEE")
	fmt.Println(strings.Repeat("-", 110))
	for _, task := range tasks {
		title := task.Title
		if len(title) > 38 {
			title = title[:35] + "..."
		}

		due := "-"
		if !task.DueDate.IsZero() {
			due = task.DueDate.Format("2006-01-02")
		}

		assignee := "-"
		if task.Assignee != nil {
			assignee = task.Assignee.Name
		}

		fmt.Printf("%-26s %-40s %-12s %-9s %-12s %s\n",
			task.ID, title, task.Status, task.Priority, due, assignee)
	}
	return nil
}

func runTasksAdd(cmd *cobra.Command, args []string, a *app.App) error {
	actor, err := requireAuth(a)
	if err != nil {
		return err
	}

	form := forms.NewTaskForm(nil, actor)
	form.Title = args[0]
	if v, _ := cmd.Flags().GetString("desc"); v != "" {
		form.Description = v
	}
	if v, _ := cmd.Flags().GetString("due"); v != "" {
		form.DueDate = v
	}
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		form.Priority = v
	}
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		form.Status = v
	}
	if v, _ := cmd.Flags().GetString("assignee"); v != "" {
		form.AssigneeID = v
	}

	task, err := form.Submit(cmd.Context(), a.Client, a.Cache, actor)
	if err != nil {
		return err
	}
	fmt.Printf("Created task %s: %s\n", task.ID, task.Title)
	return nil
}

func runTasksEdit(cmd *cobra.Command, args []string, a *app.App) error {
	actor, err := requireAuth(a)
	if err != nil {
		return err
	}

	task, err := findTask(cmd, a, args[0])
	if err != nil {
		return err
	}

	form := forms.NewTaskForm(task, actor)
	if v, _ := cmd.Flags().GetString("title"); v != "" {
		form.Title = v
	}
	if v, _ := cmd.Flags().GetString("desc"); v != "" {
		form.Description = v
	}
	if v, _ := cmd.Flags().GetString("due"); v != "" {
		form.DueDate = v
	}
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		form.Priority = v
	}
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		form.Status = v
	}
	if v, _ := cmd.Flags().GetString("assignee"); v != "" {
		form.AssigneeID = v
	}

	updated, err := form.Submit(cmd.Context(), a.Client, a.Cache, actor)
	if err != nil {
		return err
	}
	fmt.Printf("Updated task %s: %s\n", updated.ID, updated.Title)
	return nil
}

func runTasksDone(cmd *cobra.Command, args []string, a *app.App) error {
	actor, err := requireAuth(a)
	if err != nil {
		return err
	}

	task, err := findTask(cmd, a, args[0])
	if err != nil {
		return err
	}

	form := forms.NewTaskForm(task, actor)
	form.Status = models.StatusCompleted
	if _, err := form.Submit(cmd.Context(), a.Client, a.Cache, actor); err != nil {
		return err
	}
	fmt.Printf("Completed: %s\n", task.Title)
	return nil
}

func runTasksRm(cmd *cobra.Command, args []string, a *app.App) error {
	if _, err := requireAuth(a); err != nil {
		return err
	}

	task, err := findTask(cmd, a, args[0])
	if err != nil {
		return err
	}

	skip, _ := cmd.Flags().GetBool("yes")
	if !skip {
		ok, err := confirm(fmt.Sprintf("Delete task %q? This cannot be undone", task.Title))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := forms.DeleteTask(cmd.Context(), a.Client, a.Cache, task.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted task %s\n", task.ID)
	return nil
}

// findTask resolves a task by ID from the task list.
func findTask(cmd *cobra.Command, a *app.App, id string) (*models.Task, error) {
	tasks, err := a.Client.ListTasks(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}
	return nil, fmt.Errorf("task %s not found", id)
}

// confirm asks a yes/no question on stdin, defaulting to no.
func confirm(prompt string) (bool, error) {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
