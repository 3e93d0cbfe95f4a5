package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/pkg/idx"
)

type tasksRepo struct {
	q querier
}

const taskColumns = `id, title, description, status, priority, assignee_id, project_id, created_at, due_date, completed_at`

func scanTask(row interface{ Scan(...any) error }) (domain.Task, error) {
	var (
		t           domain.Task
		id          string
		status      string
		priority    string
		assigneeID  string
		projectID   sql.NullString
		dueDate     sql.NullTime
		completedAt sql.NullTime
	)
	err := row.Scan(
		&id,
		&t.Title,
		&t.Description,
		&status,
		&priority,
		&assigneeID,
		&projectID,
		&t.CreatedAt,
		&dueDate,
		&completedAt,
	)
	if err != nil {
		return domain.Task{}, err
	}
	t.ID = idx.ID(id)
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	t.AssigneeID = idx.ID(assigneeID)
	t.ProjectID = idx.ID(mapNullString(projectID))
	t.DueDate = mapNullTimePtr(dueDate)
	t.CompletedAt = mapNullTimePtr(completedAt)
	return t, nil
}

func (r *tasksRepo) Create(ctx context.Context, t domain.Task) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, status, priority, assignee_id, project_id, created_at, due_date, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(),
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		t.AssigneeID.String(),
		mapStringNull(t.ProjectID.String()),
		t.CreatedAt.UTC(),
		mapOptionalTime(t.DueDate),
		mapOptionalTime(t.CompletedAt),
	)
	return mapConstraint(err)
}

func (r *tasksRepo) GetByID(ctx context.Context, id idx.ID) (domain.Task, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id.String())
	t, err := scanTask(row)
	if err != nil {
		return domain.Task{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tasksRepo) ListByAssignee(ctx context.Context, assigneeID idx.ID, status domain.TaskStatus, priority domain.TaskPriority) ([]domain.Task, error) {
	sqlStr := `SELECT ` + taskColumns + ` FROM tasks WHERE assignee_id = ?`
	args := []any{assigneeID.String()}
	if status != "" {
		sqlStr += ` AND status = ?`
		args = append(args, string(status))
	}
	if priority != "" {
		sqlStr += ` AND priority = ?`
		args = append(args, string(priority))
	}
	sqlStr += ` ORDER BY due_date ASC`

	rows, err := r.q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *tasksRepo) UpdateStatus(ctx context.Context, id idx.ID, status domain.TaskStatus, completedAt *time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE tasks SET status = ?, completed_at = ? WHERE id = ?`,
		string(status), mapOptionalTime(completedAt), id.String())
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *tasksRepo) CountByStatusForAssignee(ctx context.Context, assigneeID idx.ID) (map[domain.TaskStatus]int, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM tasks WHERE assignee_id = ? GROUP BY status`,
		assigneeID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.TaskStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.TaskStatus(status)] = n
	}
	return counts, rows.Err()
}

func (r *tasksRepo) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE status != ?`,
		string(domain.TaskCompleted)).Scan(&n)
	return n, err
}
