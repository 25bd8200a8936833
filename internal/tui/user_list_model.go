package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/access"
	"github.com/taskdeck/taskdeck/internal/app"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/forms"
	"github.com/taskdeck/taskdeck/internal/models"
)

type userListMode int

const (
	userModeBrowse userListMode = iota
	userModeForm
	userModeConfirm
)

// UserListModel is the user management view. Admins see the full directory,
// managers only the users they manage.
type UserListModel struct {
	app    *app.App
	width  int
	height int

	users   []models.User
	loading bool
	loadErr string
	cursor  int

	mode userListMode
	form UserFormModel

	deleteTarget  *models.User
	confirmDelete bool
	deleteBusy    bool
}

// NewUserListModel creates the users view in its unloaded state.
func NewUserListModel(a *app.App) UserListModel {
	return UserListModel{app: a, loading: true}
}

func (m UserListModel) setSize(width, height int) UserListModel {
	m.width = width
	m.height = height
	return m
}

func (m UserListModel) managedScope() bool {
	return access.ForRole(m.app.Session.CurrentUser().Role).ManagedScope
}

// reload marks the view loading and refetches through the cache.
func (m UserListModel) reload() (UserListModel, tea.Cmd) {
	m.loading = true
	m.loadErr = ""
	return m, loadUsers(m.app, m.managedScope())
}

// Update handles messages.
func (m UserListModel) Update(msg tea.Msg) (UserListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err.Error()
			return m, nil
		}
		m.users = msg.users
		if m.cursor >= len(m.users) {
			m.cursor = 0
		}
		return m, nil

	case userSavedMsg:
		if msg.err != nil {
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
		m.mode = userModeBrowse
		notice := "User created successfully"
		if m.form.isEdit {
			notice = "User updated successfully"
		}
		var reloadCmd tea.Cmd
		m, reloadCmd = m.reload()
		return m, tea.Batch(notify(notice, false), reloadCmd)

	case userFormClosedMsg:
		m.mode = userModeBrowse
		return m, nil

	case userDeletedMsg:
		m.deleteBusy = false
		m.mode = userModeBrowse
		m.deleteTarget = nil
		if msg.err != nil {
			return m, notify("Failed to delete user: "+msg.err.Error(), true)
		}
		var reloadCmd tea.Cmd
		m, reloadCmd = m.reload()
		return m, tea.Batch(notify("User deleted", false), reloadCmd)
	}

	switch m.mode {
	case userModeForm:
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	case userModeConfirm:
		return m.updateConfirm(msg)
	}
	return m.updateBrowse(msg)
}

func (m UserListModel) updateBrowse(msg tea.Msg) (UserListModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.users)-1 {
			m.cursor++
		}
		return m, nil

	case "n":
		var cmd tea.Cmd
		m.form, cmd = NewUserFormModel(m.app, nil)
		m.mode = userModeForm
		return m, cmd

	case "e", "enter":
		if m.cursor >= len(m.users) {
			return m, nil
		}
		user := m.users[m.cursor]
		var cmd tea.Cmd
		m.form, cmd = NewUserFormModel(m.app, &user)
		m.mode = userModeForm
		return m, cmd

	case "d":
		if m.cursor >= len(m.users) {
			return m, nil
		}
		user := m.users[m.cursor]
		if user.ID == m.app.Session.CurrentUser().ID {
			return m, notify("You cannot delete your own account", true)
		}
		m.deleteTarget = &user
		m.confirmDelete = false
		m.mode = userModeConfirm
		return m, nil

	case "r":
		m.app.Cache.InvalidateResource(cache.ResourceUsers)
		m.app.Cache.InvalidateResource(cache.ResourceManagedUsers)
		return m.reload()

	case "t":
		return m, switchTo(ViewTasks)

	case "o":
		return m, func() tea.Msg { return logoutRequestMsg{} }
	}
	return m, nil
}

func (m UserListModel) updateConfirm(msg tea.Msg) (UserListModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.deleteBusy {
		return m, nil
	}

	switch key.String() {
	case "left", "right", "tab":
		m.confirmDelete = !m.confirmDelete
		return m, nil

	case "esc", "n", "N":
		m.mode = userModeBrowse
		m.deleteTarget = nil
		return m, nil

	case "y", "Y":
		return m.performDelete()

	case "enter":
		if !m.confirmDelete {
			m.mode = userModeBrowse
			m.deleteTarget = nil
			return m, nil
		}
		return m.performDelete()
	}
	return m, nil
}

func (m UserListModel) performDelete() (UserListModel, tea.Cmd) {
	if m.deleteTarget == nil {
		m.mode = userModeBrowse
		return m, nil
	}
	m.deleteBusy = true
	a := m.app
	id := m.deleteTarget.ID
	return m, func() tea.Msg {
		return userDeletedMsg{err: forms.DeleteUser(context.Background(), a.Client, a.Cache, id)}
	}
}

// View renders the users view, or the active modal.
func (m UserListModel) View() string {
	switch m.mode {
	case userModeForm:
		return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, m.form.View())
	case userModeConfirm:
		return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, m.renderConfirm())
	}

	var b strings.Builder
	b.WriteString(m.renderTitle())
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m UserListModel) contentHeight() int {
	h := m.height - 3
	if h < 10 {
		h = 10
	}
	return h
}

func (m UserListModel) renderTitle() string {
	title := "All Users"
	if m.managedScope() {
		title = "Your Team"
	}
	count := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Render(fmt.Sprintf(" (%d)", len(m.users)))
	return " " + lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		Render(title) + count
}

func (m UserListModel) renderTable() string {
	if m.loading {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Render("\n  Loading users...")
	}
	if m.loadErr != "" {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Render("\n  Failed to load users: " + m.loadErr)
	}
	if len(m.users) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Render("\n  No users found.")
	}

	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-4s %-24s %-18s %-28s %-10s %s",
		"", "NAME", "USERNAME", "EMAIL", "ROLE", "STATUS")))
	b.WriteString("\n")

	for i, user := range m.users {
		status := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render("active")
		if !user.Active {
			status = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Render("inactive")
		}

		row := fmt.Sprintf("%-4s %-24s %-18s %-28s %-19s %s",
			AvatarInitials(user.Name),
			truncate(user.Name, 23),
			truncate(user.Username, 17),
			truncate(user.Email, 27),
			RoleBadge(user.Role),
			status)

		if i == m.cursor {
			b.WriteString(lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(ColorPrimaryText)).
				Render("▶ " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func (m UserListModel) renderConfirm() string {
	var b strings.Builder
	b.WriteString("Delete this user? Their tasks keep the assignment record.\n\n")
	if m.deleteTarget != nil {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Render(m.deleteTarget.Name + " (" + m.deleteTarget.Username + ")"))
		b.WriteString("\n\n")
	}

	if m.deleteBusy {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentBright)).
			Render("Deleting..."))
	} else {
		b.WriteString(confirmButtons("Delete", "Cancel", m.confirmDelete))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Italic(true).
			Render("←/→ choose, Enter confirm, Esc cancel"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorError)).
		Padding(1, 2).
		Render(b.String())
}

func (m UserListModel) renderHelp() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Render(" ↑/↓ nav · n new · e edit · d delete · r refresh · t tasks · o logout · q quit")
}
