package models

import (
	"strings"
	"time"
)

// Task statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Task priorities, lowest to highest.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Task represents a task as returned by the API.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	DueDate     time.Time `json:"dueDate"`
	CreatorID   string    `json:"creatorId"`
	AssigneeID  string    `json:"assigneeId"`
	Creator     *UserRef  `json:"creator,omitempty"`
	Assignee    *UserRef  `json:"assignee,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ValidStatus reports whether status is one of the three known statuses.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// NormalizePriority lowercases a priority value. The backend historically
// returned mixed-case priorities ("High"), so every comparison goes through
// this first. Unknown values pass through unchanged apart from case.
func NormalizePriority(priority string) string {
	return strings.ToLower(strings.TrimSpace(priority))
}

// ValidPriority reports whether priority is one of the four known priorities,
// ignoring case.
func ValidPriority(priority string) bool {
	switch NormalizePriority(priority) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
