package forms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/models"
)

var (
	plainUser = &models.User{ID: "u1", Name: "Alice", Role: models.RoleUser}
	manager   = &models.User{ID: "m1", Name: "Bob", Role: models.RoleManager}
)

func validTaskForm() TaskForm {
	return TaskForm{
		Title:       "Fix login bug",
		Description: "Session expires too early",
		Status:      models.StatusPending,
		Priority:    models.PriorityHigh,
		DueDate:     "2026-09-01",
		AssigneeID:  "u1",
	}
}

// countingClient records how many requests reach the server.
func countingClient(t *testing.T, status int, body any) (*api.Client, *int) {
	t.Helper()
	calls := new(int)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}))
	t.Cleanup(server.Close)
	return api.NewClient(server.URL, func() string { return "t" }), calls
}

func TestTaskFormValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*TaskForm)
		wantField string
	}{
		{"short title", func(f *TaskForm) { f.Title = "ab" }, "Title"},
		{"short description", func(f *TaskForm) { f.Description = "abcd" }, "Description"},
		{"bad status", func(f *TaskForm) { f.Status = "paused" }, "Status"},
		{"bad priority", func(f *TaskForm) { f.Priority = "critical" }, "Priority"},
		{"bad date", func(f *TaskForm) { f.DueDate = "tomorrow" }, "DueDate"},
		{"empty date", func(f *TaskForm) { f.DueDate = "" }, "DueDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validTaskForm()
			tt.mutate(&form)

			err := form.Validate(plainUser)
			var fieldErrs FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			assert.Contains(t, fieldErrs, tt.wantField)
		})
	}
}

func TestTaskFormValidationFailureNeverReachesNetwork(t *testing.T) {
	client, calls := countingClient(t, http.StatusOK, models.Task{})
	c := cache.New()

	form := validTaskForm()
	form.Title = "ab"

	_, err := form.Submit(context.Background(), client, c, plainUser)
	assert.Error(t, err)
	assert.Zero(t, *calls, "invalid input must be rejected before any request")
}

func TestTaskFormNormalizesPriority(t *testing.T) {
	form := validTaskForm()
	form.Priority = "  HIGH "

	require.NoError(t, form.Validate(plainUser))
	assert.Equal(t, models.PriorityHigh, form.Priority)
}

func TestTaskFormPlainUserIsForceAssignedToSelf(t *testing.T) {
	form := validTaskForm()
	form.AssigneeID = "someone-else"

	require.NoError(t, form.Validate(plainUser))
	assert.Equal(t, plainUser.ID, form.AssigneeID)
}

func TestTaskFormManagerMustPickAssignee(t *testing.T) {
	form := validTaskForm()
	form.AssigneeID = ""

	err := form.Validate(manager)
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "AssigneeID")

	form.AssigneeID = "u2"
	assert.NoError(t, form.Validate(manager))
}

func TestTaskFormSubmitRoutesCreateAndUpdate(t *testing.T) {
	var gotMethod, gotPath string
	var gotPayload api.TaskPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_ = json.NewEncoder(w).Encode(models.Task{ID: "42", Title: "Fix login bug"})
	}))
	defer server.Close()
	client := api.NewClient(server.URL, func() string { return "t" })
	c := cache.New()

	form := validTaskForm()
	task, err := form.Submit(context.Background(), client, c, plainUser)
	require.NoError(t, err)
	assert.Equal(t, "42", task.ID)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/tasks", gotPath)
	assert.Equal(t, "Fix login bug", gotPayload.Title)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), gotPayload.DueDate)

	form.ID = "42"
	_, err = form.Submit(context.Background(), client, c, plainUser)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/tasks/42", gotPath)
}

func TestTaskFormSubmitInvalidatesTaskCache(t *testing.T) {
	client, _ := countingClient(t, http.StatusOK, models.Task{ID: "1"})
	c := cache.New()

	fetches := 0
	load := func(ctx context.Context) ([]models.Task, error) {
		fetches++
		return nil, nil
	}
	key := cache.Collection(cache.ResourceTasks)

	_, _ = cache.Fetch(context.Background(), c, key, load)
	_, _ = cache.Fetch(context.Background(), c, key, load)
	assert.Equal(t, 1, fetches)

	form := validTaskForm()
	_, err := form.Submit(context.Background(), client, c, plainUser)
	require.NoError(t, err)

	_, _ = cache.Fetch(context.Background(), c, key, load)
	assert.Equal(t, 2, fetches, "a successful mutation must invalidate the collection")
}

func TestTaskFormSubmitKeepsCacheOnFailure(t *testing.T) {
	client, _ := countingClient(t, http.StatusInternalServerError, nil)
	c := cache.New()

	fetches := 0
	load := func(ctx context.Context) ([]models.Task, error) {
		fetches++
		return nil, nil
	}
	key := cache.Collection(cache.ResourceTasks)
	_, _ = cache.Fetch(context.Background(), c, key, load)

	form := validTaskForm()
	_, err := form.Submit(context.Background(), client, c, plainUser)
	assert.Error(t, err)

	_, _ = cache.Fetch(context.Background(), c, key, load)
	assert.Equal(t, 1, fetches, "a failed mutation must leave the cache intact")
}

func TestDeleteTaskInvalidatesTaskCache(t *testing.T) {
	client, calls := countingClient(t, http.StatusNoContent, nil)
	c := cache.New()

	fetches := 0
	load := func(ctx context.Context) ([]models.Task, error) {
		fetches++
		return nil, nil
	}
	key := cache.Collection(cache.ResourceTasks)
	_, _ = cache.Fetch(context.Background(), c, key, load)

	require.NoError(t, DeleteTask(context.Background(), client, c, "7"))
	assert.Equal(t, 1, *calls)

	_, _ = cache.Fetch(context.Background(), c, key, load)
	assert.Equal(t, 2, fetches)
}

func TestNewTaskFormDefaults(t *testing.T) {
	form := NewTaskForm(nil, plainUser)
	assert.Equal(t, models.StatusPending, form.Status)
	assert.Equal(t, models.PriorityMedium, form.Priority)
	assert.Equal(t, time.Now().Format("2006-01-02"), form.DueDate)
	assert.Equal(t, plainUser.ID, form.AssigneeID, "plain users default to self-assignment")

	form = NewTaskForm(nil, manager)
	assert.Empty(t, form.AssigneeID, "assigners start with no assignee picked")
}

func TestNewTaskFormPrefillsFromTask(t *testing.T) {
	task := &models.Task{
		ID:          "9",
		Title:       "Ship release",
		Description: "Cut the 2.0 release",
		Status:      models.StatusInProgress,
		Priority:    "HIGH",
		DueDate:     time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC),
		AssigneeID:  "u2",
	}

	form := NewTaskForm(task, manager)
	assert.Equal(t, "9", form.ID)
	assert.Equal(t, models.PriorityHigh, form.Priority, "prefill normalizes priority")
	assert.Equal(t, "2026-10-02", form.DueDate)
	assert.Equal(t, "u2", form.AssigneeID)
}
