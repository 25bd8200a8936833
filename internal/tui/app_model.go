package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/access"
	"github.com/taskdeck/taskdeck/internal/app"
)

// Model is the root TUI model. It resolves the session on startup, guards the
// protected views by authentication state and role, and routes everything
// else to the active view.
type Model struct {
	app    *app.App
	width  int
	height int

	view    View
	spinner spinner.Model

	// one-line dismissible notification, cleared on the next keypress
	notice    string
	noticeErr bool

	login LoginModel
	tasks TaskListModel
	users UserListModel
}

// NewModel creates the root model.
func NewModel(a *app.App) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	return Model{
		app:     a,
		view:    ViewTasks,
		spinner: sp,
		login:   NewLoginModel(a),
		tasks:   NewTaskListModel(a),
		users:   NewUserListModel(a),
	}
}

// Init kicks off session resolution.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, resumeSession(m.app), textBlink())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.login = m.login.setSize(msg.Width, msg.Height)
		m.tasks = m.tasks.setSize(msg.Width, msg.Height)
		m.users = m.users.setSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.app.Session.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionResumedMsg:
		// The guard re-runs now that authentication state is known.
		return m.navigate(ViewTasks)

	case loggedInMsg:
		m.notice = "Welcome back, " + msg.user.Name + "!"
		m.noticeErr = false
		return m.navigate(ViewTasks)

	case logoutRequestMsg:
		return m, performLogout(m.app)

	case loggedOutMsg:
		m.login = NewLoginModel(m.app).setSize(m.width, m.height)
		m.notice = "You have been logged out"
		m.noticeErr = false
		return m, nil

	case switchViewMsg:
		return m.navigate(msg.view)

	case noticeMsg:
		m.notice = msg.text
		m.noticeErr = msg.isErr
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
	}

	return m.routeToActive(msg)
}

// navigate applies the view guard: unauthenticated sessions land on the login
// view, a role outside the view's allow-list is bounced to the default view
// with a rejection notice.
func (m Model) navigate(view View) (tea.Model, tea.Cmd) {
	sess := m.app.Session
	if sess.Loading() || !sess.Authenticated() {
		return m, nil
	}

	if !access.Allowed(sess.CurrentUser().Role, viewAllow[view]) {
		m.notice = "You do not have permission to access that view"
		m.noticeErr = true
		view = ViewTasks
	}
	m.view = view

	var cmd tea.Cmd
	switch view {
	case ViewTasks:
		m.tasks, cmd = m.tasks.reload()
	case ViewUsers:
		m.users, cmd = m.users.reload()
	}
	return m, cmd
}

// routeToActive forwards a message to whichever view owns the screen.
func (m Model) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	sess := m.app.Session
	switch {
	case sess.Loading():
		return m, nil
	case !sess.Authenticated():
		m.login, cmd = m.login.Update(msg)
	case m.view == ViewUsers:
		m.users, cmd = m.users.Update(msg)
	default:
		m.tasks, cmd = m.tasks.Update(msg)
	}
	return m, cmd
}

// View renders the TUI.
func (m Model) View() string {
	sess := m.app.Session

	if sess.Loading() {
		loading := m.spinner.View() + " Restoring session..."
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, loading)
	}

	if !sess.Authenticated() {
		if m.notice == "" {
			return m.login.View()
		}
		return lipgloss.JoinVertical(lipgloss.Left, m.renderNotice(), m.login.View())
	}

	var body string
	switch m.view {
	case ViewUsers:
		body = m.users.View()
	default:
		body = m.tasks.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderNotice())
}

func (m Model) renderHeader() string {
	user := m.app.Session.CurrentUser()

	brand := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentMain)).
		Render("TASKDECK")

	tabs := []string{tabLabel("Tasks", m.view == ViewTasks)}
	if access.ForRole(user.Role).ManageUsers {
		tabs = append(tabs, tabLabel("Users", m.view == ViewUsers))
	}

	identity := AvatarInitials(user.Name) + " " + user.Name + " " + RoleBadge(user.Role)

	left := brand + "  " + strings.Join(tabs, " ")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(identity) - 2
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(m.width).
		Render(" " + left + strings.Repeat(" ", gap) + identity)
}

func tabLabel(label string, active bool) string {
	if active {
		return lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorAccentBright)).
			Render("[" + label + "]")
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Render(" " + label + " ")
}

func (m Model) renderNotice() string {
	if m.notice == "" {
		return ""
	}
	color := ColorSuccess
	if m.noticeErr {
		color = ColorError
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Width(m.width).
		Render(" " + m.notice)
}

func performLogout(a *app.App) tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: a.Session.Logout(context.Background())}
	}
}
