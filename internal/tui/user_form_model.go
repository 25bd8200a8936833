package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/app"
	"github.com/taskdeck/taskdeck/internal/forms"
	"github.com/taskdeck/taskdeck/internal/models"
)

// Field indices of the user form.
const (
	userFieldName = iota
	userFieldUsername
	userFieldEmail
	userFieldPassword
	userFieldRole
	userFieldActive
	userFieldSubmit
)

var userRoles = []string{models.RoleUser, models.RoleManager, models.RoleAdmin}

// UserFormModel is the create/edit user form shown in a modal on the users
// view.
type UserFormModel struct {
	app    *app.App
	isEdit bool
	userID string

	inputs    []textinput.Model // name, username, email, password
	roleIdx   int
	active    bool
	managerID string

	focus     int
	fieldErrs forms.FieldErrors
	submitErr string
	busy      bool
}

// NewUserFormModel builds the form, pre-filled from user in edit mode.
func NewUserFormModel(a *app.App, user *models.User) (UserFormModel, tea.Cmd) {
	prefill := forms.NewUserForm(user, a.Session.CurrentUser())

	inputs := make([]textinput.Model, 4)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 40
		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
	}
	inputs[userFieldName].Placeholder = "Full name"
	inputs[userFieldName].CharLimit = 100
	inputs[userFieldName].SetValue(prefill.Name)
	inputs[userFieldName].Focus()
	inputs[userFieldUsername].Placeholder = "username"
	inputs[userFieldUsername].CharLimit = 64
	inputs[userFieldUsername].SetValue(prefill.Username)
	inputs[userFieldEmail].Placeholder = "name@example.com"
	inputs[userFieldEmail].CharLimit = 120
	inputs[userFieldEmail].SetValue(prefill.Email)
	inputs[userFieldPassword].CharLimit = 128
	inputs[userFieldPassword].EchoMode = textinput.EchoPassword
	inputs[userFieldPassword].EchoCharacter = '•'
	if user == nil {
		inputs[userFieldPassword].Placeholder = "password"
	} else {
		inputs[userFieldPassword].Placeholder = "leave blank to keep current"
	}

	return UserFormModel{
		app:       a,
		isEdit:    user != nil,
		userID:    prefill.ID,
		inputs:    inputs,
		roleIdx:   indexOf(userRoles, prefill.Role),
		active:    prefill.Active,
		managerID: prefill.ManagerID,
	}, textinput.Blink
}

// Update handles messages.
func (m UserFormModel) Update(msg tea.Msg) (UserFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case userSavedMsg:
		// success closes the form from the list side
		m.busy = false
		var fieldErrs forms.FieldErrors
		if errors.As(msg.err, &fieldErrs) {
			m.fieldErrs = fieldErrs
		} else if msg.err != nil {
			m.submitErr = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return userFormClosedMsg{} }

		case "tab", "down":
			return m.moveFocus(1)

		case "shift+tab", "up":
			return m.moveFocus(-1)

		case "left", "right":
			return m.cycleChoice(msg.String() == "right"), nil

		case " ":
			if m.focus == userFieldActive {
				m.active = !m.active
				return m, nil
			}

		case "enter":
			if m.focus == userFieldSubmit {
				return m.submit()
			}
			return m.moveFocus(1)

		case "ctrl+s":
			return m.submit()
		}
	}

	if m.focus <= userFieldPassword {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m UserFormModel) moveFocus(direction int) (UserFormModel, tea.Cmd) {
	if m.focus <= userFieldPassword {
		m.inputs[m.focus].Blur()
	}
	m.focus += direction
	if m.focus < userFieldName {
		m.focus = userFieldName
	}
	if m.focus > userFieldSubmit {
		m.focus = userFieldSubmit
	}
	if m.focus <= userFieldPassword {
		m.inputs[m.focus].Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m UserFormModel) cycleChoice(forward bool) UserFormModel {
	delta := 1
	if !forward {
		delta = -1
	}
	switch m.focus {
	case userFieldRole:
		m.roleIdx = (m.roleIdx + delta + len(userRoles)) % len(userRoles)
	case userFieldActive:
		m.active = !m.active
	}
	return m
}

func (m UserFormModel) submit() (UserFormModel, tea.Cmd) {
	m.fieldErrs = nil
	m.submitErr = ""

	form := forms.UserForm{
		ID:        m.userID,
		Name:      strings.TrimSpace(m.inputs[userFieldName].Value()),
		Username:  strings.TrimSpace(m.inputs[userFieldUsername].Value()),
		Email:     strings.TrimSpace(m.inputs[userFieldEmail].Value()),
		Password:  m.inputs[userFieldPassword].Value(),
		Role:      userRoles[m.roleIdx],
		Active:    m.active,
		ManagerID: m.managerID,
	}

	if err := form.Validate(); err != nil {
		var fieldErrs forms.FieldErrors
		if errors.As(err, &fieldErrs) {
			m.fieldErrs = fieldErrs
		} else {
			m.submitErr = err.Error()
		}
		return m, nil
	}

	m.busy = true
	a := m.app
	return m, func() tea.Msg {
		user, err := form.Submit(context.Background(), a.Client, a.Cache)
		return userSavedMsg{user: user, err: err}
	}
}

// View renders the form card.
func (m UserFormModel) View() string {
	var b strings.Builder

	title := "Create User"
	if m.isEdit {
		title = "Edit User"
	}
	b.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentMain)).
		Render(title))
	b.WriteString("\n\n")

	labels := []struct {
		label string
		field int
		errFd string
	}{
		{"Name", userFieldName, "Name"},
		{"Username", userFieldUsername, "Username"},
		{"Email", userFieldEmail, "Email"},
		{"Password", userFieldPassword, "Password"},
	}
	for _, f := range labels {
		b.WriteString(fieldLabel(f.label, m.focus == f.field))
		b.WriteString("\n" + m.inputs[f.field].View())
		b.WriteString(m.fieldError(f.errFd))
		b.WriteString("\n\n")
	}

	b.WriteString(fieldLabel("Role", m.focus == userFieldRole))
	b.WriteString("\n" + choiceView(RoleBadge(userRoles[m.roleIdx]), m.focus == userFieldRole))
	b.WriteString(m.fieldError("Role"))
	b.WriteString("\n\n")

	b.WriteString(fieldLabel("Active", m.focus == userFieldActive))
	b.WriteString("\n" + choiceView(m.activeLabel(), m.focus == userFieldActive))
	b.WriteString("\n\n")

	b.WriteString(submitButton(m.saveLabel(), m.focus == userFieldSubmit, m.busy))

	if m.submitErr != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Render("Error: " + m.submitErr))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Render("Tab/↓: Next | ←/→: Change value | Ctrl+S: Save | Esc: Cancel"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Padding(1, 2).
		Render(b.String())
}

func (m UserFormModel) activeLabel() string {
	if m.active {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render("active")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Render("inactive")
}

func (m UserFormModel) saveLabel() string {
	if m.busy {
		return "Saving..."
	}
	if m.isEdit {
		return "Update User"
	}
	return "Create User"
}

func (m UserFormModel) fieldError(field string) string {
	msg, ok := m.fieldErrs[field]
	if !ok {
		return ""
	}
	return "\n" + lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorError)).
		Render(msg)
}
