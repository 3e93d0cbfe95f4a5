package service

import (
	"context"
	"testing"
	"time"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/internal/backoffice/store"
	"github.com/backdeskhq/backdesk/internal/backoffice/store/drivers/sqlite"
	"github.com/backdeskhq/backdesk/pkg/cryptox"
	"github.com/backdeskhq/backdesk/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func createUser(t *testing.T, s store.Store, username, password string, role domain.Role) domain.User {
	t.Helper()
	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)
	u := domain.User{
		ID:           idx.New(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	createUser(t, s, "alice", "correct-horse", domain.RoleStaff)

	svc := &AuthService{Store: s, SessionTTL: time.Hour}

	// Unknown user and wrong password must be indistinguishable.
	_, unknownErr := svc.Login(ctx, "nobody", "whatever", "fp")
	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)

	_, wrongErr := svc.Login(ctx, "alice", "wrong-password", "fp")
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)

	require.Equal(t, unknownErr, wrongErr)
}

func TestLoginIssuesFreshTokenEachTime(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	user := createUser(t, s, "alice", "correct-horse", domain.RoleStaff)

	svc := &AuthService{Store: s, SessionTTL: time.Hour}

	first, err := svc.Login(ctx, "alice", "correct-horse", "fp")
	require.NoError(t, err)
	require.NotEmpty(t, first.Token)
	require.Equal(t, user.ID, first.User.ID)

	second, err := svc.Login(ctx, "alice", "correct-horse", "fp")
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	// The pre-login token is dead: only the newly minted one resolves.
	_, err = svc.Resolve(ctx, first.Token, "fp")
	require.ErrorIs(t, err, ErrSessionInvalid)

	principal, err := svc.Resolve(ctx, second.Token, "fp")
	require.NoError(t, err)
	require.Equal(t, user.ID, principal.ID)
}

func TestLoginRecordsLastLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	user := createUser(t, s, "alice", "correct-horse", domain.RoleClient)
	require.Nil(t, user.LastLogin)

	svc := &AuthService{Store: s, SessionTTL: time.Hour}
	_, err := svc.Login(ctx, "alice", "correct-horse", "fp")
	require.NoError(t, err)

	reloaded, err := s.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLogin)
}

func TestResolveUsesCurrentRole(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	user := createUser(t, s, "alice", "correct-horse", domain.RoleClient)

	svc := &AuthService{Store: s, SessionTTL: time.Hour}
	res, err := svc.Login(ctx, "alice", "correct-horse", "fp")
	require.NoError(t, err)

	// Promote mid-session. The very next resolution reflects the new role.
	require.NoError(t, s.Users().UpdateRole(ctx, user.ID, domain.RoleStaff))

	principal, err := svc.Resolve(ctx, res.Token, "fp")
	require.NoError(t, err)
	require.Equal(t, domain.RoleStaff, principal.Role)
}

func TestResolveRejectsFingerprintMismatch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	createUser(t, s, "alice", "correct-horse", domain.RoleStaff)

	svc := &AuthService{Store: s, SessionTTL: time.Hour}
	res, err := svc.Login(ctx, "alice", "correct-horse", "fp-original")
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, res.Token, "fp-hijacker")
	require.ErrorIs(t, err, ErrSessionInvalid)

	// The mismatch killed the session outright; the real fingerprint no
	// longer works either.
	_, err = svc.Resolve(ctx, res.Token, "fp-original")
	require.ErrorIs(t, err, ErrSessionInvalid)
}

func TestResolveRejectsExpiredSession(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	createUser(t, s, "alice", "correct-horse", domain.RoleStaff)

	svc := &AuthService{Store: s, SessionTTL: -time.Minute}
	res, err := svc.Login(ctx, "alice", "correct-horse", "fp")
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, res.Token, "fp")
	require.ErrorIs(t, err, ErrSessionInvalid)
}

func TestResolveRejectsGarbageToken(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	svc := &AuthService{Store: s, SessionTTL: time.Hour}

	_, err := svc.Resolve(ctx, "", "fp")
	require.ErrorIs(t, err, ErrSessionInvalid)

	_, err = svc.Resolve(ctx, "not-a-real-token", "fp")
	require.ErrorIs(t, err, ErrSessionInvalid)
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	createUser(t, s, "alice", "correct-horse", domain.RoleStaff)

	svc := &AuthService{Store: s, SessionTTL: time.Hour}
	res, err := svc.Login(ctx, "alice", "correct-horse", "fp")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.Token))
	_, err = svc.Resolve(ctx, res.Token, "fp")
	require.ErrorIs(t, err, ErrSessionInvalid)

	// A second logout with the same token is a no-op, not an error.
	require.NoError(t, svc.Logout(ctx, res.Token))
	require.NoError(t, svc.Logout(ctx, ""))
}
