package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/pkg/idx"
)

type usersRepo struct {
	q querier
}

const userColumns = `id, username, password_hash, role, email, created_at, last_login, encrypted_note`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u         domain.User
		id        string
		role      string
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&id,
		&u.Username,
		&u.PasswordHash,
		&role,
		&u.Email,
		&u.CreatedAt,
		&lastLogin,
		&u.EncryptedNote,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.ID = idx.ID(id)
	u.Role = domain.Role(role)
	u.LastLogin = mapNullTimePtr(lastLogin)
	return u, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id idx.ID) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id.String())
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, email, created_at, encrypted_note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(),
		u.Username,
		u.PasswordHash,
		string(u.Role),
		u.Email,
		u.CreatedAt.UTC(),
		u.EncryptedNote,
	)
	return mapConstraint(err)
}

func (r *usersRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *usersRepo) Search(ctx context.Context, query string, role domain.Role) ([]domain.User, error) {
	sqlStr := `SELECT ` + userColumns + ` FROM users`
	var (
		conds []string
		args  []any
	)
	if query != "" {
		conds = append(conds, `(username LIKE '%' || ? || '%' OR email LIKE '%' || ? || '%')`)
		args = append(args, query, query)
	}
	if role != "" {
		conds = append(conds, `role = ?`)
		args = append(args, string(role))
	}
	for i, c := range conds {
		if i == 0 {
			sqlStr += ` WHERE ` + c
		} else {
			sqlStr += ` AND ` + c
		}
	}
	sqlStr += ` ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows *sql.Rows) ([]domain.User, error) {
	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) UpdateProfile(ctx context.Context, id idx.ID, username, email string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ? WHERE id = ?`,
		username, email, id.String())
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *usersRepo) UpdateRole(ctx context.Context, id idx.ID, role domain.Role) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET role = ? WHERE id = ?`, string(role), id.String())
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id idx.ID, hash string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, hash, id.String())
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) UpdateLastLogin(ctx context.Context, id idx.ID, at time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`, at.UTC(), id.String())
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) UpdateEncryptedNote(ctx context.Context, id idx.ID, blob string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET encrypted_note = ? WHERE id = ?`, blob, id.String())
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) Delete(ctx context.Context, id idx.ID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) CountByRole(ctx context.Context) (map[domain.Role]int, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Role]int)
	for rows.Next() {
		var (
			role string
			n    int
		)
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		counts[domain.Role(role)] = n
	}
	return counts, rows.Err()
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errNoRowsAffected
	}
	return nil
}
