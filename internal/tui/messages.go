package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/app"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/models"
)

// View identifies a top-level protected view.
type View int

const (
	ViewTasks View = iota
	ViewUsers
)

// viewAllow is the role allow-list per view. A nil list admits any
// authenticated user.
var viewAllow = map[View][]string{
	ViewTasks: nil,
	ViewUsers: {models.RoleManager, models.RoleAdmin},
}

// Messages exchanged between the root model and its views.
type (
	sessionResumedMsg struct{ err error }
	loggedInMsg       struct{ user *models.User }
	loggedOutMsg      struct{ err error }
	switchViewMsg     struct{ view View }
	logoutRequestMsg  struct{}
	noticeMsg         struct {
		text  string
		isErr bool
	}

	tasksLoadedMsg struct {
		tasks []models.Task
		err   error
	}
	usersLoadedMsg struct {
		users []models.User
		err   error
	}
	assigneesLoadedMsg struct {
		users []models.User
		err   error
	}

	taskSavedMsg struct {
		task *models.Task
		err  error
	}
	taskDeletedMsg struct{ err error }
	userSavedMsg   struct {
		user *models.User
		err  error
	}
	userDeletedMsg struct{ err error }

	taskFormClosedMsg struct{}
	userFormClosedMsg struct{}
)

func switchTo(view View) tea.Cmd {
	return func() tea.Msg { return switchViewMsg{view: view} }
}

func notify(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: text, isErr: isErr} }
}

func resumeSession(a *app.App) tea.Cmd {
	return func() tea.Msg {
		return sessionResumedMsg{err: a.Session.Resume(context.Background())}
	}
}

func loadTasks(a *app.App) tea.Cmd {
	return func() tea.Msg {
		tasks, err := cache.Fetch(context.Background(), a.Cache,
			cache.Collection(cache.ResourceTasks), a.Client.ListTasks)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

// loadUsers fetches the user collection the role is scoped to: the full
// directory for admins, the managed users for managers.
func loadUsers(a *app.App, managedScope bool) tea.Cmd {
	return func() tea.Msg {
		users, err := fetchUserScope(a, managedScope)
		return usersLoadedMsg{users: users, err: err}
	}
}

func loadAssignees(a *app.App, managedScope bool) tea.Cmd {
	return func() tea.Msg {
		users, err := fetchUserScope(a, managedScope)
		return assigneesLoadedMsg{users: users, err: err}
	}
}

func fetchUserScope(a *app.App, managedScope bool) ([]models.User, error) {
	ctx := context.Background()
	if managedScope {
		return cache.Fetch(ctx, a.Cache,
			cache.Collection(cache.ResourceManagedUsers), a.Client.ListManagedUsers)
	}
	return cache.Fetch(ctx, a.Cache,
		cache.Collection(cache.ResourceUsers), a.Client.ListUsers)
}
