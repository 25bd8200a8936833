package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/access"
	"github.com/taskdeck/taskdeck/internal/app"
	"github.com/taskdeck/taskdeck/internal/forms"
	"github.com/taskdeck/taskdeck/internal/models"
)

// Field indices of the task form text inputs.
const (
	taskFieldTitle = iota
	taskFieldDescription
	taskFieldDueDate
	taskFieldStatus
	taskFieldPriority
	taskFieldAssignee
	taskFieldSubmit
)

var (
	taskStatuses   = []string{models.StatusPending, models.StatusInProgress, models.StatusCompleted}
	taskPriorities = []string{models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent}
)

// TaskFormModel is the create/edit task form shown in a modal. Plain users
// never see the assignee field and submit self-assigned.
type TaskFormModel struct {
	app    *app.App
	isEdit bool
	taskID string

	inputs      []textinput.Model // title, description, due date
	statusIdx   int
	priorityIdx int

	showAssignee bool
	assignees    []models.User
	assigneeIdx  int
	assigneeID   string // pre-filled selection until the list arrives

	focus     int
	fieldErrs forms.FieldErrors
	submitErr string
	busy      bool
}

// NewTaskFormModel builds the form, pre-filled from task in edit mode. The
// returned command loads the assignee choices for managers and admins.
func NewTaskFormModel(a *app.App, task *models.Task) (TaskFormModel, tea.Cmd) {
	actor := a.Session.CurrentUser()
	prefill := forms.NewTaskForm(task, actor)
	caps := access.ForRole(actor.Role)

	inputs := make([]textinput.Model, 3)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 48
		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
	}
	inputs[taskFieldTitle].Placeholder = "Enter task title"
	inputs[taskFieldTitle].CharLimit = 200
	inputs[taskFieldTitle].SetValue(prefill.Title)
	inputs[taskFieldTitle].Focus()
	inputs[taskFieldDescription].Placeholder = "Enter task description"
	inputs[taskFieldDescription].CharLimit = 500
	inputs[taskFieldDescription].SetValue(prefill.Description)
	inputs[taskFieldDueDate].Placeholder = "YYYY-MM-DD"
	inputs[taskFieldDueDate].CharLimit = 10
	inputs[taskFieldDueDate].SetValue(prefill.DueDate)

	m := TaskFormModel{
		app:          a,
		isEdit:       task != nil,
		taskID:       prefill.ID,
		inputs:       inputs,
		statusIdx:    indexOf(taskStatuses, prefill.Status),
		priorityIdx:  indexOf(taskPriorities, prefill.Priority),
		showAssignee: caps.AssignOthers,
		assigneeID:   prefill.AssigneeID,
	}

	if !caps.AssignOthers {
		return m, textinput.Blink
	}
	return m, tea.Batch(textinput.Blink, loadAssignees(a, caps.ManagedScope))
}

func indexOf(values []string, value string) int {
	for i, v := range values {
		if v == value {
			return i
		}
	}
	return 0
}

// fieldAfter returns the next focusable field, skipping the assignee slot
// when it is hidden.
func (m TaskFormModel) fieldAfter(field, direction int) int {
	field += direction
	if field == taskFieldAssignee && !m.showAssignee {
		field += direction
	}
	if field < taskFieldTitle {
		field = taskFieldTitle
	}
	if field > taskFieldSubmit {
		field = taskFieldSubmit
	}
	return field
}

// Update handles messages.
func (m TaskFormModel) Update(msg tea.Msg) (TaskFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case assigneesLoadedMsg:
		if msg.err != nil {
			m.submitErr = msg.err.Error()
			return m, nil
		}
		m.assignees = msg.users
		for i, user := range msg.users {
			if user.ID == m.assigneeID {
				m.assigneeIdx = i
			}
		}
		return m, nil

	case taskSavedMsg:
		// success is handled by the list; only failures come back here
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
			return m, func() tea.Msg { return taskFormClosedMsg{} }

		case "tab", "down":
			return m.moveFocus(1)

		case "shift+tab", "up":
			return m.moveFocus(-1)

		case "left", "right":
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			return m.cycleChoice(delta), nil

		case "enter":
			if m.focus == taskFieldSubmit {
				return m.submit()
			}
			return m.moveFocus(1)

		case "ctrl+s":
			return m.submit()
		}
	}

	if m.focus <= taskFieldDueDate {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m TaskFormModel) moveFocus(direction int) (TaskFormModel, tea.Cmd) {
	if m.focus <= taskFieldDueDate {
		m.inputs[m.focus].Blur()
	}
	m.focus = m.fieldAfter(m.focus, direction)
	if m.focus <= taskFieldDueDate {
		m.inputs[m.focus].Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m TaskFormModel) cycleChoice(delta int) TaskFormModel {
	switch m.focus {
	case taskFieldStatus:
		m.statusIdx = (m.statusIdx + delta + len(taskStatuses)) % len(taskStatuses)
	case taskFieldPriority:
		m.priorityIdx = (m.priorityIdx + delta + len(taskPriorities)) % len(taskPriorities)
	case taskFieldAssignee:
		if len(m.assignees) > 0 {
			m.assigneeIdx = (m.assigneeIdx + delta + len(m.assignees)) % len(m.assignees)
		}
	}
	return m
}

func (m TaskFormModel) submit() (TaskFormModel, tea.Cmd) {
	m.fieldErrs = nil
	m.submitErr = ""

	form := forms.TaskForm{
		ID:          m.taskID,
		Title:       strings.TrimSpace(m.inputs[taskFieldTitle].Value()),
		Description: strings.TrimSpace(m.inputs[taskFieldDescription].Value()),
		Status:      taskStatuses[m.statusIdx],
		Priority:    taskPriorities[m.priorityIdx],
		DueDate:     strings.TrimSpace(m.inputs[taskFieldDueDate].Value()),
		AssigneeID:  m.selectedAssigneeID(),
	}

	actor := m.app.Session.CurrentUser()
	if err := form.Validate(actor); err != nil {
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
		task, err := form.Submit(context.Background(), a.Client, a.Cache, actor)
		return taskSavedMsg{task: task, err: err}
	}
}

func (m TaskFormModel) selectedAssigneeID() string {
	if !m.showAssignee {
		return m.assigneeID
	}
	if len(m.assignees) == 0 {
		return m.assigneeID
	}
	return m.assignees[m.assigneeIdx].ID
}

// View renders the form card.
func (m TaskFormModel) View() string {
	var b strings.Builder

	title := "Create Task"
	if m.isEdit {
		title = "Edit Task"
	}
	b.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentMain)).
		Render(title))
	b.WriteString("\n\n")

	b.WriteString(fieldLabel("Title", m.focus == taskFieldTitle))
	b.WriteString("\n" + m.inputs[taskFieldTitle].View())
	b.WriteString(m.fieldError("Title"))
	b.WriteString("\n\n")

	b.WriteString(fieldLabel("Description", m.focus == taskFieldDescription))
	b.WriteString("\n" + m.inputs[taskFieldDescription].View())
	b.WriteString(m.fieldError("Description"))
	b.WriteString("\n\n")

	b.WriteString(fieldLabel("Due Date", m.focus == taskFieldDueDate))
	b.WriteString("\n" + m.inputs[taskFieldDueDate].View())
	b.WriteString(m.fieldError("DueDate"))
	b.WriteString("\n\n")

	b.WriteString(fieldLabel("Status", m.focus == taskFieldStatus))
	b.WriteString("\n" + choiceView(StatusBadge(taskStatuses[m.statusIdx]), m.focus == taskFieldStatus))
	b.WriteString("\n\n")

	b.WriteString(fieldLabel("Priority", m.focus == taskFieldPriority))
	b.WriteString("\n" + choiceView(PriorityBadge(taskPriorities[m.priorityIdx]), m.focus == taskFieldPriority))
	b.WriteString(m.fieldError("Priority"))

	if m.showAssignee {
		b.WriteString("\n\n")
		b.WriteString(fieldLabel("Assign To", m.focus == taskFieldAssignee))
		b.WriteString("\n" + choiceView(m.assigneeLabel(), m.focus == taskFieldAssignee))
		b.WriteString(m.fieldError("AssigneeID"))
	}

	b.WriteString("\n\n")
	b.WriteString(submitButton(m.saveLabel(), m.focus == taskFieldSubmit, m.busy))

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

func (m TaskFormModel) saveLabel() string {
	if m.busy {
		return "Saving..."
	}
	if m.isEdit {
		return "Update Task"
	}
	return "Create Task"
}

func (m TaskFormModel) assigneeLabel() string {
	if len(m.assignees) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText)).
			Render("Loading users...")
	}
	user := m.assignees[m.assigneeIdx]
	return fmt.Sprintf("%s (%s)", user.Name, user.Role)
}

func (m TaskFormModel) fieldError(field string) string {
	msg, ok := m.fieldErrs[field]
	if !ok {
		return ""
	}
	return "\n" + lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorError)).
		Render(msg)
}

func choiceView(value string, focused bool) string {
	if focused {
		return "◂ " + value + " ▸"
	}
	return "  " + value
}

func submitButton(label string, focused, busy bool) string {
	style := lipgloss.NewStyle().Padding(0, 2)
	switch {
	case busy:
		style = style.
			Foreground(lipgloss.Color(ColorDisabledText)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorDisabledText))
	case focused:
		style = style.
			Bold(true).
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Background(lipgloss.Color(ColorAccentMain)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorAccentBright))
	default:
		style = style.
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorBorder))
	}
	return style.Render(label)
}
