package forms

import (
	"context"
	"time"

	"github.com/taskdeck/taskdeck/internal/access"
	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/models"
)

// TaskForm is the task create/update schema. ID empty means create.
type TaskForm struct {
	ID          string
	Title       string `validate:"required,min=3"`
	Description string `validate:"required,min=5"`
	Status      string `validate:"required,oneof=pending in-progress completed"`
	Priority    string `validate:"required,oneof=low medium high urgent"`
	DueDate     string `validate:"required,dateonly"`
	AssigneeID  string
}

var taskMessages = map[string]string{
	"Title":       "Title must be at least 3 characters",
	"Description": "Description must be at least 5 characters",
	"Status":      "Status must be pending, in-progress or completed",
	"Priority":    "Priority must be low, medium, high or urgent",
	"DueDate":     "Due date must be a valid date (YYYY-MM-DD)",
}

// NewTaskForm builds a form pre-filled from task, or a blank create form when
// task is nil. Plain users are always their own assignee.
func NewTaskForm(task *models.Task, actor *models.User) TaskForm {
	if task == nil {
		return TaskForm{
			Status:     models.StatusPending,
			Priority:   models.PriorityMedium,
			DueDate:    time.Now().Format(dateLayout),
			AssigneeID: defaultAssignee(actor),
		}
	}
	return TaskForm{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    models.NormalizePriority(task.Priority),
		DueDate:     task.DueDate.Format(dateLayout),
		AssigneeID:  task.AssigneeID,
	}
}

func defaultAssignee(actor *models.User) string {
	if actor != nil && !access.ForRole(actor.Role).AssignOthers {
		return actor.ID
	}
	return ""
}

// Validate checks the form against the schema. Managers and admins must pick
// an assignee; plain users are force-assigned to themselves.
func (f *TaskForm) Validate(actor *models.User) error {
	f.Priority = models.NormalizePriority(f.Priority)

	if access.ForRole(actor.Role).AssignOthers {
		if f.AssigneeID == "" {
			return FieldErrors{"AssigneeID": "Assignee is required"}
		}
	} else {
		f.AssigneeID = actor.ID
	}

	return structErrors(validate.Struct(f), taskMessages)
}

// Submit validates and then creates or updates the task. On success the task
// collection cache is invalidated so the next read refetches.
func (f *TaskForm) Submit(ctx context.Context, client *api.Client, c *cache.Cache, actor *models.User) (*models.Task, error) {
	if err := f.Validate(actor); err != nil {
		return nil, err
	}

	due, err := time.Parse(dateLayout, f.DueDate)
	if err != nil {
		return nil, FieldErrors{"DueDate": taskMessages["DueDate"]}
	}

	payload := api.TaskPayload{
		Title:       f.Title,
		Description: f.Description,
		Status:      f.Status,
		Priority:    f.Priority,
		DueDate:     due,
		AssigneeID:  f.AssigneeID,
	}

	var task *models.Task
	if f.ID == "" {
		task, err = client.CreateTask(ctx, payload)
	} else {
		task, err = client.UpdateTask(ctx, f.ID, payload)
	}
	if err != nil {
		return nil, err
	}

	c.InvalidateResource(cache.ResourceTasks)
	return task, nil
}

// DeleteTask deletes a task and invalidates the task collection. Callers are
// expected to have confirmed the action with the user first.
func DeleteTask(ctx context.Context, client *api.Client, c *cache.Cache, id string) error {
	if err := client.DeleteTask(ctx, id); err != nil {
		return err
	}
	c.InvalidateResource(cache.ResourceTasks)
	return nil
}
