package sqlite

import (
	"context"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/pkg/idx"
)

type ticketsRepo struct {
	q querier
}

const ticketColumns = `id, subject, message, status, priority, client_id, created_at, updated_at`

func scanTicket(row interface{ Scan(...any) error }) (domain.Ticket, error) {
	var (
		t        domain.Ticket
		id       string
		status   string
		priority string
		clientID string
	)
	err := row.Scan(
		&id,
		&t.Subject,
		&t.Message,
		&status,
		&priority,
		&clientID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return domain.Ticket{}, err
	}
	t.ID = idx.ID(id)
	t.Status = domain.TicketStatus(status)
	t.Priority = domain.TicketPriority(priority)
	t.ClientID = idx.ID(clientID)
	return t, nil
}

func (r *ticketsRepo) Create(ctx context.Context, t domain.Ticket) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO tickets (id, subject, message, status, priority, client_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(),
		t.Subject,
		t.Message,
		string(t.Status),
		string(t.Priority),
		t.ClientID.String(),
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *ticketsRepo) GetByID(ctx context.Context, id idx.ID) (domain.Ticket, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = ?`, id.String())
	t, err := scanTicket(row)
	if err != nil {
		return domain.Ticket{}, mapNotFound(err)
	}
	return t, nil
}

func (r *ticketsRepo) ListByClient(ctx context.Context, clientID idx.ID, limit int) ([]domain.Ticket, error) {
	sqlStr := `SELECT ` + ticketColumns + ` FROM tickets WHERE client_id = ? ORDER BY created_at DESC`
	args := []any{clientID.String()}
	if limit > 0 {
		sqlStr += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *ticketsRepo) CountOpenForClient(ctx context.Context, clientID idx.ID) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets WHERE client_id = ? AND status = ?`,
		clientID.String(), string(domain.TicketOpen)).Scan(&n)
	return n, err
}

func (r *ticketsRepo) CountUnresolved(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets WHERE status != ?`,
		string(domain.TicketResolved)).Scan(&n)
	return n, err
}
