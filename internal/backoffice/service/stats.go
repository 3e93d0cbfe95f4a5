package service

import (
	"context"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/internal/backoffice/store"
	"github.com/backdeskhq/backdesk/pkg/idx"
)

// StatsService aggregates the dashboard counters for each role's landing
// page.
type StatsService struct {
	Store store.Store
}

// AdminStats summarises the whole system.
type AdminStats struct {
	TotalUsers        int
	UsersByRole       map[domain.Role]int
	TotalProjects     int
	ActiveTasks       int
	UnresolvedTickets int
}

// StaffStats summarises one staff member's workload.
type StaffStats struct {
	TasksByStatus map[domain.TaskStatus]int
	Projects      int
}

// ClientStats summarises one client's engagement.
type ClientStats struct {
	ProjectsByStatus map[domain.ProjectStatus]int
	OpenTickets      int
	Documents        int
}

// Admin returns the system-wide counters.
func (s *StatsService) Admin(ctx context.Context) (AdminStats, error) {
	byRole, err := s.Store.Users().CountByRole(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	total := 0
	for _, n := range byRole {
		total += n
	}

	projects, err := s.Store.Projects().Count(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	tasks, err := s.Store.Tasks().CountActive(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	tickets, err := s.Store.Tickets().CountUnresolved(ctx)
	if err != nil {
		return AdminStats{}, err
	}

	return AdminStats{
		TotalUsers:        total,
		UsersByRole:       byRole,
		TotalProjects:     projects,
		ActiveTasks:       tasks,
		UnresolvedTickets: tickets,
	}, nil
}

// Staff returns the workload counters for one staff member.
func (s *StatsService) Staff(ctx context.Context, staffID idx.ID) (StaffStats, error) {
	byStatus, err := s.Store.Tasks().CountByStatusForAssignee(ctx, staffID)
	if err != nil {
		return StaffStats{}, err
	}
	projects, err := s.Store.Projects().ListForAssignee(ctx, staffID)
	if err != nil {
		return StaffStats{}, err
	}
	return StaffStats{TasksByStatus: byStatus, Projects: len(projects)}, nil
}

// Client returns the engagement counters for one client.
func (s *StatsService) Client(ctx context.Context, clientID idx.ID) (ClientStats, error) {
	byStatus, err := s.Store.Projects().CountByStatusForClient(ctx, clientID)
	if err != nil {
		return ClientStats{}, err
	}
	open, err := s.Store.Tickets().CountOpenForClient(ctx, clientID)
	if err != nil {
		return ClientStats{}, err
	}
	docs, err := s.Store.Documents().ListByClient(ctx, clientID)
	if err != nil {
		return ClientStats{}, err
	}
	return ClientStats{ProjectsByStatus: byStatus, OpenTickets: open, Documents: len(docs)}, nil
}
