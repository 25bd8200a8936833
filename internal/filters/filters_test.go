package filters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taskdeck/taskdeck/internal/models"
)

func sampleTasks() []models.Task {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []models.Task{
		{ID: "1", Title: "Fix login bug", Description: "Session expires early", Status: models.StatusPending, Priority: models.PriorityHigh, CreatedAt: base, DueDate: base.AddDate(0, 0, 5)},
		{ID: "2", Title: "Write onboarding docs", Description: "For new hires", Status: models.StatusInProgress, Priority: models.PriorityLow, CreatedAt: base.Add(time.Hour), DueDate: base.AddDate(0, 0, 1)},
		{ID: "3", Title: "Ship release", Description: "Cut the 2.0 release", Status: models.StatusCompleted, Priority: models.PriorityUrgent, CreatedAt: base.Add(2 * time.Hour), DueDate: base.AddDate(0, 0, 3)},
		{ID: "4", Title: "Fix flaky test", Description: "Login test is flaky", Status: models.StatusPending, Priority: models.PriorityMedium, CreatedAt: base.Add(3 * time.Hour), DueDate: base.AddDate(0, 0, 2)},
	}
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestFilterAxesCombineWithAnd(t *testing.T) {
	tasks := sampleTasks()

	got := TaskFilter{Status: models.StatusPending, Priority: models.PriorityHigh}.Apply(tasks)
	assert.Equal(t, []string{"1"}, ids(got))

	// one axis active, the other disabled
	got = TaskFilter{Status: models.StatusPending}.Apply(tasks)
	assert.Equal(t, []string{"1", "4"}, ids(got))

	got = TaskFilter{Status: All, Priority: All}.Apply(tasks)
	assert.Len(t, got, 4)
}

func TestFilterPriorityIsCaseInsensitive(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Priority: "HIGH"},
		{ID: "2", Priority: "low"},
	}
	got := TaskFilter{Priority: "high"}.Apply(tasks)
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestFilterSearchMatchesTitleAndDescription(t *testing.T) {
	tasks := sampleTasks()

	got := TaskFilter{Search: "LOGIN"}.Apply(tasks)
	assert.Equal(t, []string{"1", "4"}, ids(got))

	got = TaskFilter{Search: "new hires"}.Apply(tasks)
	assert.Equal(t, []string{"2"}, ids(got))

	got = TaskFilter{Status: models.StatusPending, Search: "flaky"}.Apply(tasks)
	assert.Equal(t, []string{"4"}, ids(got))
}

func TestSortOrders(t *testing.T) {
	tasks := sampleTasks()

	assert.Equal(t, []string{"4", "3", "2", "1"}, ids(Sort(tasks, SortNewest)))
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(Sort(tasks, SortOldest)))
	assert.Equal(t, []string{"2", "4", "3", "1"}, ids(Sort(tasks, SortDueDate)))
	assert.Equal(t, []string{"3", "1", "4", "2"}, ids(Sort(tasks, SortPriority)))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	tasks := sampleTasks()
	Sort(tasks, SortPriority)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(tasks))
}

func TestSortUnknownPriorityRanksLast(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Priority: "someday"},
		{ID: "2", Priority: models.PriorityLow},
	}
	assert.Equal(t, []string{"2", "1"}, ids(Sort(tasks, SortPriority)))
}

func TestSortIsStable(t *testing.T) {
	tasks := []models.Task{
		{ID: "a", Priority: models.PriorityHigh},
		{ID: "b", Priority: models.PriorityHigh},
		{ID: "c", Priority: models.PriorityHigh},
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids(Sort(tasks, SortPriority)))
}

func TestParseSortOrder(t *testing.T) {
	order, err := ParseSortOrder("due-date")
	assert.NoError(t, err)
	assert.Equal(t, SortDueDate, order)

	_, err = ParseSortOrder("alphabetical")
	assert.Error(t, err)
}

func TestCountByStatus(t *testing.T) {
	stats := CountByStatus(sampleTasks())
	assert.Equal(t, Stats{Pending: 2, InProgress: 1, Completed: 1}, stats)

	assert.Equal(t, Stats{}, CountByStatus(nil))
}
