package service

import (
	"context"
	"strings"
	"time"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/internal/backoffice/store"
	"github.com/backdeskhq/backdesk/pkg/idx"
)

// TaskService manages staff work items. Tasks are assigned to exactly one
// staff member at creation and never change hands implicitly; record-level
// access goes through the ownership guard, where a foreign id behaves exactly
// like a missing one.
type TaskService struct {
	Store store.Store
}

// CreateTaskParams are the admin-supplied inputs for a new task.
type CreateTaskParams struct {
	Title       string
	Description string
	Priority    domain.TaskPriority
	AssigneeID  idx.ID
	ProjectID   idx.ID
	DueDate     *time.Time
}

// CreateTask records a new task for a staff assignee. Only staff accounts can
// be assigned.
func (s *TaskService) CreateTask(ctx context.Context, p CreateTaskParams) (domain.Task, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return domain.Task{}, ErrInvalidInput
	}
	if p.Priority == "" {
		p.Priority = domain.TaskPriorityMedium
	}

	assignee, err := s.Store.Users().GetByID(ctx, p.AssigneeID)
	if err != nil {
		return domain.Task{}, err
	}
	if assignee.Role != domain.RoleStaff {
		return domain.Task{}, ErrInvalidInput
	}

	task := domain.Task{
		ID:          idx.New(),
		Title:       p.Title,
		Description: strings.TrimSpace(p.Description),
		Status:      domain.TaskPending,
		Priority:    p.Priority,
		AssigneeID:  p.AssigneeID,
		ProjectID:   p.ProjectID,
		CreatedAt:   time.Now().UTC(),
		DueDate:     p.DueDate,
	}
	if err := s.Store.Tasks().Create(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// GetTask fetches one task for its assignee or an admin.
func (s *TaskService) GetTask(ctx context.Context, principal *domain.User, id idx.ID) (domain.Task, error) {
	task, err := s.Store.Tasks().GetByID(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	if !domain.RequireOwnerOrAdmin(principal, task).Allowed() {
		return domain.Task{}, store.ErrNotFound
	}
	return task, nil
}

// ListMine returns the principal's own tasks, optionally filtered by status
// and priority.
func (s *TaskService) ListMine(ctx context.Context, principal *domain.User, status domain.TaskStatus, priority domain.TaskPriority) ([]domain.Task, error) {
	if !domain.RequireAuthenticated(principal).Allowed() {
		return nil, ErrForbidden
	}
	return s.Store.Tasks().ListByAssignee(ctx, principal.ID, status, priority)
}

// UpdateStatus moves a task through its lifecycle. Only the assignee or an
// admin may touch it. Completing a task stamps the completion time; moving a
// completed task back clears it.
func (s *TaskService) UpdateStatus(ctx context.Context, principal *domain.User, id idx.ID, status domain.TaskStatus) error {
	if _, err := domain.ParseTaskStatus(string(status)); err != nil {
		return err
	}

	var completedAt *time.Time
	if status == domain.TaskCompleted {
		now := time.Now().UTC()
		completedAt = &now
	}

	// Ownership check and write share one transaction.
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		task, err := tx.Tasks().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !domain.RequireOwnerOrAdmin(principal, task).Allowed() {
			return store.ErrNotFound
		}
		return tx.Tasks().UpdateStatus(ctx, id, status, completedAt)
	})
}
