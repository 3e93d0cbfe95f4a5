package service

import (
	"context"
	"errors"
	"time"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/internal/backoffice/store"
	"github.com/backdeskhq/backdesk/pkg/cryptox"
	"github.com/backdeskhq/backdesk/pkg/idx"
	"github.com/backdeskhq/backdesk/pkg/slogx"
)

// ErrSeedCredentials reports missing bootstrap credentials on an empty store.
var ErrSeedCredentials = errors.New("seed admin credentials required")

// SeedService creates the first admin account when the store is empty, so a
// fresh deployment is reachable without hand-editing the database.
type SeedService struct {
	Store store.Store
}

// EnsureAdmin creates an admin account with the given credentials if no user
// exists yet. On a populated store it does nothing and reports false.
func (s *SeedService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		return false, nil
	}
	if username == "" || len(password) < minPasswordLength {
		return false, ErrSeedCredentials
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return false, err
	}
	admin := domain.User{
		ID:           idx.New(),
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Store.Users().Create(ctx, admin); err != nil {
		return false, err
	}

	slogx.FromContext(ctx).Info("seeded initial admin", "user_id", admin.ID, "username", username)
	return true, nil
}
