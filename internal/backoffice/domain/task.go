package domain

import (
	"time"

	"github.com/backdeskhq/backdesk/pkg/idx"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskPending, TaskInProgress, TaskCompleted:
		return TaskStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Task is a unit of work assigned to exactly one staff member at creation.
// Ownership never transfers implicitly.
type Task struct {
	ID          idx.ID
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	AssigneeID  idx.ID
	ProjectID   idx.ID
	CreatedAt   time.Time
	DueDate     *time.Time
	CompletedAt *time.Time
}

// OwnedBy returns the assignee for ownership checks.
func (t Task) OwnedBy() idx.ID { return t.AssigneeID }
