package sqlite

import (
	"context"
	"time"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/pkg/idx"
)

type sessionsRepo struct {
	q querier
}

const sessionColumns = `id, user_id, token_hash, fingerprint, created_at, expires_at`

func (r *sessionsRepo) Create(ctx context.Context, s domain.Session) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, token_hash, fingerprint, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID.String(),
		s.UserID.String(),
		s.TokenHash,
		s.Fingerprint,
		s.CreatedAt.UTC(),
		s.ExpiresAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE token_hash = ?`, tokenHash)

	var (
		s      domain.Session
		id     string
		userID string
	)
	err := row.Scan(&id, &userID, &s.TokenHash, &s.Fingerprint, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.ID = idx.ID(id)
	s.UserID = idx.ID(userID)
	return s, nil
}

func (r *sessionsRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	// Intentionally no rows-affected check: logout is idempotent.
	_, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = ?`, tokenHash)
	return err
}

func (r *sessionsRepo) DeleteForUser(ctx context.Context, userID idx.ID) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID.String())
	return err
}

func (r *sessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
