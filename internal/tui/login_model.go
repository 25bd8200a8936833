package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/app"
)

func textBlink() tea.Cmd { return textinput.Blink }

// LoginModel is the credentials form shown to unauthenticated sessions.
type LoginModel struct {
	app    *app.App
	width  int
	height int

	username textinput.Model
	password textinput.Model
	focus    int // 0 username, 1 password

	busy bool
	err  string
}

// NewLoginModel creates a blank login form.
func NewLoginModel(a *app.App) LoginModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.Width = 32
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Width = 32
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return LoginModel{app: a, username: username, password: password}
}

func (m LoginModel) setSize(width, height int) LoginModel {
	m.width = width
	m.height = height
	return m
}

type loginFailedMsg struct{ err error }

// Update handles messages.
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginFailedMsg:
		m.busy = false
		m.err = "Login failed: " + msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			// a submission is in flight, ignore re-clicks
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "shift+tab", "up", "down":
			m.focus = 1 - m.focus
			if m.focus == 0 {
				m.username.Focus()
				m.password.Blur()
			} else {
				m.password.Focus()
				m.username.Blur()
			}
			return m, textinput.Blink

		case "enter":
			if m.focus == 0 {
				m.focus = 1
				m.username.Blur()
				m.password.Focus()
				return m, textinput.Blink
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()
	if username == "" || password == "" {
		m.err = "Username and password are required"
		return m, nil
	}

	m.busy = true
	m.err = ""
	a := m.app
	return m, func() tea.Msg {
		user, err := a.Session.Login(context.Background(), username, password)
		if err != nil {
			return loginFailedMsg{err: err}
		}
		return loggedInMsg{user: user}
	}
}

// View renders the login card centered on screen.
func (m LoginModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentMain)).
		MarginBottom(1)
	b.WriteString(titleStyle.Render("TASKDECK"))
	b.WriteString("\n\n")

	b.WriteString(fieldLabel("Username", m.focus == 0))
	b.WriteString("\n")
	b.WriteString(m.username.View())
	b.WriteString("\n\n")
	b.WriteString(fieldLabel("Password", m.focus == 1))
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	if m.busy {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentBright)).
			Render("Signing in..."))
	} else if m.err != "" {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Render(m.err))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Italic(true).
			Render("Enter: Sign in | Tab: Switch field | Esc: Quit"))
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 3).
		Render(b.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

func fieldLabel(label string, focused bool) string {
	if focused {
		return lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorAccentBright)).
			Render("▶ " + label)
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Render("  " + label)
}
