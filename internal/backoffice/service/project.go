package service

import (
	"context"
	"strings"
	"time"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/internal/backoffice/store"
	"github.com/backdeskhq/backdesk/pkg/idx"
)

// ProjectService manages client engagements. Each project belongs to exactly
// one client; staff reach a project only through tasks assigned to them on it.
type ProjectService struct {
	Store store.Store
}

// CreateProjectParams are the admin-supplied inputs for a new project.
type CreateProjectParams struct {
	Name        string
	Description string
	ClientID    idx.ID
	Deadline    *time.Time
}

// CreateProject opens a new active project for a client account.
func (s *ProjectService) CreateProject(ctx context.Context, p CreateProjectParams) (domain.Project, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return domain.Project{}, ErrInvalidInput
	}

	client, err := s.Store.Users().GetByID(ctx, p.ClientID)
	if err != nil {
		return domain.Project{}, err
	}
	if client.Role != domain.RoleClient {
		return domain.Project{}, ErrInvalidInput
	}

	project := domain.Project{
		ID:          idx.New(),
		Name:        p.Name,
		Description: strings.TrimSpace(p.Description),
		Status:      domain.ProjectActive,
		Progress:    0,
		ClientID:    p.ClientID,
		CreatedAt:   time.Now().UTC(),
		Deadline:    p.Deadline,
	}
	if err := s.Store.Projects().Create(ctx, project); err != nil {
		return domain.Project{}, err
	}
	return project, nil
}

// GetProject fetches one project for its owning client or an admin.
func (s *ProjectService) GetProject(ctx context.Context, principal *domain.User, id idx.ID) (domain.Project, error) {
	project, err := s.Store.Projects().GetByID(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	if !domain.RequireOwnerOrAdmin(principal, project).Allowed() {
		return domain.Project{}, store.ErrNotFound
	}
	return project, nil
}

// ListMine returns the principal's own projects, newest first.
func (s *ProjectService) ListMine(ctx context.Context, principal *domain.User) ([]domain.Project, error) {
	if !domain.RequireAuthenticated(principal).Allowed() {
		return nil, ErrForbidden
	}
	return s.Store.Projects().ListByClient(ctx, principal.ID)
}

// ListForAssignee returns the distinct projects on which the given staff
// member holds at least one task.
func (s *ProjectService) ListForAssignee(ctx context.Context, assigneeID idx.ID) ([]domain.Project, error) {
	return s.Store.Projects().ListForAssignee(ctx, assigneeID)
}

// UpdateProgress sets the completion percentage, clamped to 0-100. Reaching
// 100 flips the project to completed.
func (s *ProjectService) UpdateProgress(ctx context.Context, id idx.ID, progress int) error {
	if progress < 0 || progress > 100 {
		return ErrInvalidInput
	}
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		project, err := tx.Projects().GetByID(ctx, id)
		if err != nil {
			return err
		}
		project.Progress = progress
		if progress == 100 {
			project.Status = domain.ProjectCompleted
		}
		return tx.Projects().Update(ctx, project)
	})
}
