package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/internal/backoffice/store"
	"github.com/backdeskhq/backdesk/pkg/cryptox"
	"github.com/backdeskhq/backdesk/pkg/idx"
	"github.com/backdeskhq/backdesk/pkg/slogx"
)

var (
	ErrUsernameTaken = errors.New("username_taken")
	ErrInvalidInput  = errors.New("invalid_input")
	ErrSelfDelete    = errors.New("cannot_delete_self")
	ErrWeakPassword  = errors.New("password_too_short")
)

const minPasswordLength = 8

// UserService covers account administration. Every method here sits behind
// the admin role gate at the transport layer; the service trusts that and
// concerns itself with data validity.
type UserService struct {
	Store store.Store
}

// CreateUserParams are the inputs for a new account.
type CreateUserParams struct {
	Username string
	Password string
	Role     domain.Role
	Email    string
}

// CreateUser registers a new account with a hashed password verifier. The
// username must be unique; a collision returns ErrUsernameTaken.
func (s *UserService) CreateUser(ctx context.Context, p CreateUserParams) (domain.User, error) {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(p.Email)

	if p.Username == "" {
		return domain.User{}, ErrInvalidInput
	}
	if len(p.Password) < minPasswordLength {
		return domain.User{}, ErrWeakPassword
	}
	if _, err := domain.ParseRole(string(p.Role)); err != nil {
		return domain.User{}, err
	}
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return domain.User{}, ErrInvalidInput
		}
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New(),
		Username:     p.Username,
		PasswordHash: hash,
		Role:         p.Role,
		Email:        p.Email,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// GetUser fetches one account by id.
func (s *UserService) GetUser(ctx context.Context, id idx.ID) (domain.User, error) {
	return s.Store.Users().GetByID(ctx, id)
}

// ListUsers returns all accounts, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().List(ctx)
}

// SearchUsers filters accounts by a username/email substring and an optional
// role name. An unrecognised role name matches nothing rather than erroring,
// so the search form can pass user input straight through.
func (s *UserService) SearchUsers(ctx context.Context, query, roleName string) ([]domain.User, error) {
	var role domain.Role
	if roleName != "" {
		parsed, err := domain.ParseRole(roleName)
		if err != nil {
			return []domain.User{}, nil
		}
		role = parsed
	}
	return s.Store.Users().Search(ctx, strings.TrimSpace(query), role)
}

// UpdateProfile changes the username and email of an account. Renaming onto
// an existing username returns ErrUsernameTaken.
func (s *UserService) UpdateProfile(ctx context.Context, id idx.ID, username, email string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return ErrInvalidInput
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return ErrInvalidInput
		}
	}

	if err := s.Store.Users().UpdateProfile(ctx, id, username, email); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

// ChangeRole moves an account to a different role. Sessions stay live; the
// new role simply applies from the next request, because authorization always
// reads the role off the user record.
func (s *UserService) ChangeRole(ctx context.Context, id idx.ID, role domain.Role) error {
	if _, err := domain.ParseRole(string(role)); err != nil {
		return err
	}
	if err := s.Store.Users().UpdateRole(ctx, id, role); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("role changed", "user_id", id, "role", role)
	return nil
}

// ResetPassword replaces the password verifier and revokes every live session
// for the account, forcing a fresh login with the new credential.
func (s *UserService) ResetPassword(ctx context.Context, id idx.ID, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}
	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, id, hash); err != nil {
			return err
		}
		return tx.Sessions().DeleteForUser(ctx, id)
	})
}

// DeleteUser removes an account along with its sessions and owned records.
// An admin cannot delete their own account.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id idx.ID) error {
	if actorID == id {
		return ErrSelfDelete
	}
	if err := s.Store.Users().Delete(ctx, id); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("user deleted", "user_id", id)
	return nil
}
