package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/app"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/filters"
	"github.com/taskdeck/taskdeck/internal/forms"
	"github.com/taskdeck/taskdeck/internal/models"
)

type taskListMode int

const (
	taskModeBrowse taskListMode = iota
	taskModeForm
	taskModeConfirm
	taskModeSearch
)

// statusCycle and priorityCycle are the filter values the f/p keys step
// through. "all" disables the axis.
var (
	statusCycle   = []string{filters.All, models.StatusPending, models.StatusInProgress, models.StatusCompleted}
	priorityCycle = []string{filters.All, models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent}
	sortCycle     = []filters.SortOrder{filters.SortNewest, filters.SortOldest, filters.SortDueDate, filters.SortPriority}
)

// TaskListModel is the default view: dashboard stats, the filterable and
// sortable task table, and the create/edit/delete modal flows.
type TaskListModel struct {
	app    *app.App
	width  int
	height int

	tasks   []models.Task
	loading bool
	loadErr string

	filter filters.TaskFilter
	sort   filters.SortOrder
	cursor int

	mode taskListMode
	form TaskFormModel

	deleteTarget  *models.Task
	confirmDelete bool // selected modal choice, true = Delete
	deleteBusy    bool
}

// NewTaskListModel creates the task view in its unloaded state.
func NewTaskListModel(a *app.App) TaskListModel {
	return TaskListModel{
		app:     a,
		filter:  filters.TaskFilter{Status: filters.All, Priority: filters.All},
		sort:    filters.SortNewest,
		loading: true,
	}
}

func (m TaskListModel) setSize(width, height int) TaskListModel {
	m.width = width
	m.height = height
	return m
}

// reload marks the view loading and refetches through the cache.
func (m TaskListModel) reload() (TaskListModel, tea.Cmd) {
	m.loading = true
	m.loadErr = ""
	return m, loadTasks(m.app)
}

// visible applies the active filter and sort order.
func (m TaskListModel) visible() []models.Task {
	return filters.Sort(m.filter.Apply(m.tasks), m.sort)
}

// Update handles messages.
func (m TaskListModel) Update(msg tea.Msg) (TaskListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err.Error()
			return m, nil
		}
		m.tasks = msg.tasks
		if m.cursor >= len(m.visible()) {
			m.cursor = 0
		}
		return m, nil

	case taskSavedMsg:
		if msg.err != nil {
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
		m.mode = taskModeBrowse
		notice := "Task created successfully"
		if m.form.isEdit {
			notice = "Task updated successfully"
		}
		var reloadCmd tea.Cmd
		m, reloadCmd = m.reload()
		return m, tea.Batch(notify(notice, false), reloadCmd)

	case taskFormClosedMsg:
		m.mode = taskModeBrowse
		return m, nil

	case taskDeletedMsg:
		m.deleteBusy = false
		m.mode = taskModeBrowse
		m.deleteTarget = nil
		if msg.err != nil {
			return m, notify("Failed to delete task: "+msg.err.Error(), true)
		}
		var reloadCmd tea.Cmd
		m, reloadCmd = m.reload()
		return m, tea.Batch(notify("Task deleted", false), reloadCmd)
	}

	switch m.mode {
	case taskModeForm:
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	case taskModeConfirm:
		return m.updateConfirm(msg)
	case taskModeSearch:
		return m.updateSearch(msg)
	}
	return m.updateBrowse(msg)
}

func (m TaskListModel) updateBrowse(msg tea.Msg) (TaskListModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	visible := m.visible()

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
		return m, nil

	case "n":
		var cmd tea.Cmd
		m.form, cmd = NewTaskFormModel(m.app, nil)
		m.mode = taskModeForm
		return m, cmd

	case "e", "enter":
		if m.cursor >= len(visible) {
			return m, nil
		}
		task := visible[m.cursor]
		var cmd tea.Cmd
		m.form, cmd = NewTaskFormModel(m.app, &task)
		m.mode = taskModeForm
		return m, cmd

	case "d":
		if m.cursor >= len(visible) {
			return m, nil
		}
		task := visible[m.cursor]
		m.deleteTarget = &task
		m.confirmDelete = false // default to Cancel for a destructive action
		m.mode = taskModeConfirm
		return m, nil

	case "f":
		m.filter.Status = nextCycle(statusCycle, m.filter.Status)
		m.cursor = 0
		return m, nil

	case "p":
		m.filter.Priority = nextCycle(priorityCycle, m.filter.Priority)
		m.cursor = 0
		return m, nil

	case "s":
		m.sort = nextSort(m.sort)
		m.cursor = 0
		return m, nil

	case "/":
		m.mode = taskModeSearch
		return m, nil

	case "r":
		m.app.Cache.InvalidateResource(cache.ResourceTasks)
		return m.reload()

	case "u":
		return m, switchTo(ViewUsers)

	case "o":
		return m, func() tea.Msg { return logoutRequestMsg{} }
	}
	return m, nil
}

func (m TaskListModel) updateConfirm(msg tea.Msg) (TaskListModel, tea.Cmd) {
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
		// dismissed: no DELETE is issued, the list stays as it was
		m.mode = taskModeBrowse
		m.deleteTarget = nil
		return m, nil

	case "y", "Y":
		return m.performDelete()

	case "enter":
		if !m.confirmDelete {
			m.mode = taskModeBrowse
			m.deleteTarget = nil
			return m, nil
		}
		return m.performDelete()
	}
	return m, nil
}

func (m TaskListModel) performDelete() (TaskListModel, tea.Cmd) {
	if m.deleteTarget == nil {
		m.mode = taskModeBrowse
		return m, nil
	}
	m.deleteBusy = true
	a := m.app
	id := m.deleteTarget.ID
	return m, func() tea.Msg {
		return taskDeletedMsg{err: forms.DeleteTask(context.Background(), a.Client, a.Cache, id)}
	}
}

func (m TaskListModel) updateSearch(msg tea.Msg) (TaskListModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "esc":
		m.mode = taskModeBrowse
		m.filter.Search = ""
		return m, nil
	case "enter":
		m.mode = taskModeBrowse
		return m, nil
	case "backspace":
		if len(m.filter.Search) > 0 {
			m.filter.Search = m.filter.Search[:len(m.filter.Search)-1]
		}
		return m, nil
	}
	if key.Type == tea.KeyRunes {
		m.filter.Search += string(key.Runes)
		m.cursor = 0
	}
	return m, nil
}

func nextCycle(cycle []string, current string) string {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

func nextSort(current filters.SortOrder) filters.SortOrder {
	for i, v := range sortCycle {
		if v == current {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return sortCycle[0]
}

// View renders the tasks view, or the active modal over a dimmed background.
func (m TaskListModel) View() string {
	switch m.mode {
	case taskModeForm:
		return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, m.form.View())
	case taskModeConfirm:
		return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, m.renderConfirm())
	}

	var b strings.Builder
	b.WriteString(m.renderStats())
	b.WriteString("\n")
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m TaskListModel) contentHeight() int {
	// header and notice take three lines
	h := m.height - 3
	if h < 10 {
		h = 10
	}
	return h
}

func (m TaskListModel) renderStats() string {
	stats := filters.CountByStatus(m.tasks)

	card := func(label string, count int, color string) string {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorBorder)).
			Padding(0, 2).
			Render(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(fmt.Sprintf("%d", count)) +
				" " + lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(label))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("pending", stats.Pending, ColorSecondaryText),
		" ",
		card("in-progress", stats.InProgress, ColorAccentBright),
		" ",
		card("completed", stats.Completed, ColorSuccess),
	)
}

func (m TaskListModel) renderFilterBar() string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)

	parts := []string{
		label.Render("status: ") + value.Render(orAll(m.filter.Status)),
		label.Render("priority: ") + value.Render(orAll(m.filter.Priority)),
		label.Render("sort: ") + value.Render(string(m.sort)),
	}
	if m.mode == taskModeSearch {
		parts = append(parts, label.Render("search: ")+value.Render(m.filter.Search+"█"))
	} else if m.filter.Search != "" {
		parts = append(parts, label.Render("search: ")+value.Render(m.filter.Search))
	}
	return " " + strings.Join(parts, "   ")
}

func orAll(v string) string {
	if v == "" {
		return filters.All
	}
	return v
}

func (m TaskListModel) renderTable() string {
	if m.loading {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Render("\n  Loading tasks...")
	}
	if m.loadErr != "" {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Render("\n  Failed to load tasks: " + m.loadErr)
	}

	visible := m.visible()
	if len(visible) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Render("\n  No tasks found.")
	}

	var b strings.Builder

	titleWidth := m.width - 58
	if titleWidth < 20 {
		titleWidth = 20
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-*s %-12s %-14s %-8s %s",
		titleWidth, "TASK", "DUE", "STATUS", "PRIORITY", "ASSIGNEE")))
	b.WriteString("\n")

	for i, task := range visible {
		title := task.Title
		if len(title) > titleWidth-1 {
			title = title[:titleWidth-4] + "..."
		}

		assignee := "-"
		if task.Assignee != nil {
			assignee = task.Assignee.Name
		}

		row := fmt.Sprintf("%-*s %-12s %-22s %-17s %s",
			titleWidth, title,
			formatDue(task.DueDate),
			StatusBadge(task.Status),
			PriorityBadge(task.Priority),
			assignee)

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

func formatDue(due time.Time) string {
	if due.IsZero() {
		return "-"
	}
	days := int(time.Until(due).Hours() / 24)
	switch {
	case days < 0:
		return "OVERDUE"
	case days == 0:
		return "TODAY"
	case days == 1:
		return "TOMORROW"
	}
	return due.Format("Jan 02 2006")
}

func (m TaskListModel) renderConfirm() string {
	var b strings.Builder
	b.WriteString("Delete this task? This action cannot be undone.\n\n")
	if m.deleteTarget != nil {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Render(m.deleteTarget.Title))
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

func confirmButtons(yesLabel, noLabel string, yesSelected bool) string {
	yes := lipgloss.NewStyle().Padding(0, 2)
	no := lipgloss.NewStyle().Padding(0, 2)
	if yesSelected {
		yes = yes.Background(lipgloss.Color(ColorError)).
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Bold(true)
	} else {
		no = no.Background(lipgloss.Color(ColorAccentMain)).
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Bold(true)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, yes.Render(yesLabel), "   ", no.Render(noLabel))
}

func (m TaskListModel) renderHelp() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Render(" ↑/↓ nav · n new · e edit · d delete · f status · p priority · s sort · / search · r refresh · u users · o logout · q quit")
}
