// Package filters implements the client-side task list filtering and sorting.
package filters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/taskdeck/taskdeck/internal/models"
)

// All is the no-op value for either filter axis.
const All = "all"

// TaskFilter selects tasks by status and priority. Both axes combine with
// logical AND; "all" (or empty) disables an axis. Search narrows further by
// title/description substring.
type TaskFilter struct {
	Status   string
	Priority string
	Search   string
}

// Apply returns the subset of tasks satisfying every active axis.
func (f TaskFilter) Apply(tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if !f.matches(task) {
			continue
		}
		out = append(out, task)
	}
	return out
}

func (f TaskFilter) matches(task models.Task) bool {
	if f.Status != "" && f.Status != All && task.Status != f.Status {
		return false
	}
	if f.Priority != "" && f.Priority != All &&
		models.NormalizePriority(task.Priority) != models.NormalizePriority(f.Priority) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(task.Title), needle) &&
			!strings.Contains(strings.ToLower(task.Description), needle) {
			return false
		}
	}
	return true
}

// SortOrder names a task list ordering.
type SortOrder string

const (
	SortNewest   SortOrder = "newest"   // creation timestamp, newest first
	SortOldest   SortOrder = "oldest"   // creation timestamp, oldest first
	SortDueDate  SortOrder = "due-date" // due date ascending
	SortPriority SortOrder = "priority" // urgent > high > medium > low
)

// ParseSortOrder validates a sort order name.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case SortNewest, SortOldest, SortDueDate, SortPriority:
		return SortOrder(s), nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// priorityRank orders priorities for sorting. Unrecognized values rank after
// every known priority.
func priorityRank(priority string) int {
	switch models.NormalizePriority(priority) {
	case models.PriorityUrgent:
		return 0
	case models.PriorityHigh:
		return 1
	case models.PriorityMedium:
		return 2
	case models.PriorityLow:
		return 3
	}
	return 4
}

// Sort returns a copy of tasks ordered by the given sort order. The sort is
// stable so equal elements keep their incoming order.
func Sort(tasks []models.Task, order SortOrder) []models.Task {
	sorted := make([]models.Task, len(tasks))
	copy(sorted, tasks)

	switch order {
	case SortNewest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	case SortOldest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		})
	case SortDueDate:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].DueDate.Before(sorted[j].DueDate)
		})
	case SortPriority:
		sort.SliceStable(sorted, func(i, j int) bool {
			return priorityRank(sorted[i].Priority) < priorityRank(sorted[j].Priority)
		})
	}
	return sorted
}

// Stats counts tasks per status for the dashboard cards.
type Stats struct {
	Pending    int
	InProgress int
	Completed  int
}

// CountByStatus tallies tasks into dashboard stats.
func CountByStatus(tasks []models.Task) Stats {
	var stats Stats
	for _, task := range tasks {
		switch task.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusInProgress:
			stats.InProgress++
		case models.StatusCompleted:
			stats.Completed++
		}
	}
	return stats
}
