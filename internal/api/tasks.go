package api

import (
	"context"
	"net/http"
	"time"

	"github.com/taskdeck/taskdeck/internal/models"
)

// TaskPayload is the body of a task create or update request.
type TaskPayload struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	DueDate     time.Time `json:"dueDate"`
	AssigneeID  string    `json:"assigneeId"`
}

// ListTasks returns the tasks visible to the current user.
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, payload TaskPayload) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask replaces the task identified by id.
func (c *Client) UpdateTask(ctx context.Context, id string, payload TaskPayload) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+id, payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes the task identified by id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil)
}
