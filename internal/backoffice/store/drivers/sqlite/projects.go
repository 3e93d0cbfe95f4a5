package sqlite

import (
	"context"
	"database/sql"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/pkg/idx"
)

type projectsRepo struct {
	q querier
}

const projectColumns = `id, name, description, status, progress, client_id, created_at, deadline`

func scanProject(row interface{ Scan(...any) error }) (domain.Project, error) {
	var (
		p        domain.Project
		id       string
		status   string
		clientID string
		deadline sql.NullTime
	)
	err := row.Scan(
		&id,
		&p.Name,
		&p.Description,
		&status,
		&p.Progress,
		&clientID,
		&p.CreatedAt,
		&deadline,
	)
	if err != nil {
		return domain.Project{}, err
	}
	p.ID = idx.ID(id)
	p.Status = domain.ProjectStatus(status)
	p.ClientID = idx.ID(clientID)
	p.Deadline = mapNullTimePtr(deadline)
	return p, nil
}

func (r *projectsRepo) Create(ctx context.Context, p domain.Project) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO projects (id, name, description, status, progress, client_id, created_at, deadline)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID.String(),
		p.Name,
		p.Description,
		string(p.Status),
		p.Progress,
		p.ClientID.String(),
		p.CreatedAt.UTC(),
		mapOptionalTime(p.Deadline),
	)
	return mapConstraint(err)
}

func (r *projectsRepo) Update(ctx context.Context, p domain.Project) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE projects SET name = ?, description = ?, status = ?, progress = ?, deadline = ? WHERE id = ?`,
		p.Name,
		p.Description,
		string(p.Status),
		p.Progress,
		mapOptionalTime(p.Deadline),
		p.ID.String(),
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *projectsRepo) GetByID(ctx context.Context, id idx.ID) (domain.Project, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id.String())
	p, err := scanProject(row)
	if err != nil {
		return domain.Project{}, mapNotFound(err)
	}
	return p, nil
}

func (r *projectsRepo) ListByClient(ctx context.Context, clientID idx.ID) ([]domain.Project, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE client_id = ? ORDER BY created_at DESC`,
		clientID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (r *projectsRepo) ListForAssignee(ctx context.Context, assigneeID idx.ID) ([]domain.Project, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT DISTINCT p.id, p.name, p.description, p.status, p.progress, p.client_id, p.created_at, p.deadline
		 FROM projects p
		 JOIN tasks t ON t.project_id = p.id
		 WHERE t.assignee_id = ?
		 ORDER BY p.created_at DESC`,
		assigneeID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

func collectProjects(rows *sql.Rows) ([]domain.Project, error) {
	var projects []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *projectsRepo) CountByStatusForClient(ctx context.Context, clientID idx.ID) (map[domain.ProjectStatus]int, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM projects WHERE client_id = ? GROUP BY status`,
		clientID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ProjectStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.ProjectStatus(status)] = n
	}
	return counts, rows.Err()
}

func (r *projectsRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n)
	return n, err
}
