package sqlite

import (
	"context"
	"database/sql"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/pkg/idx"
)

type documentsRepo struct {
	q querier
}

const documentColumns = `id, title, description, file_type, client_id, project_id, created_at`

func scanDocument(row interface{ Scan(...any) error }) (domain.Document, error) {
	var (
		d         domain.Document
		id        string
		clientID  string
		projectID sql.NullString
	)
	err := row.Scan(
		&id,
		&d.Title,
		&d.Description,
		&d.FileType,
		&clientID,
		&projectID,
		&d.CreatedAt,
	)
	if err != nil {
		return domain.Document{}, err
	}
	d.ID = idx.ID(id)
	d.ClientID = idx.ID(clientID)
	d.ProjectID = idx.ID(mapNullString(projectID))
	return d, nil
}

func (r *documentsRepo) Create(ctx context.Context, d domain.Document) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO documents (id, title, description, file_type, client_id, project_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID.String(),
		d.Title,
		d.Description,
		d.FileType,
		d.ClientID.String(),
		mapStringNull(d.ProjectID.String()),
		d.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *documentsRepo) GetByID(ctx context.Context, id idx.ID) (domain.Document, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id.String())
	d, err := scanDocument(row)
	if err != nil {
		return domain.Document{}, mapNotFound(err)
	}
	return d, nil
}

func (r *documentsRepo) ListByClient(ctx context.Context, clientID idx.ID) ([]domain.Document, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE client_id = ? ORDER BY created_at DESC`,
		clientID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
