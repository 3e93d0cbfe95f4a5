package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/internal/backoffice/store"
	"github.com/backdeskhq/backdesk/pkg/cryptox"
	"github.com/backdeskhq/backdesk/pkg/idx"
	"github.com/backdeskhq/backdesk/pkg/slogx"
)

var (
	// ErrInvalidCredentials is returned for every authentication failure,
	// whether the username is unknown or the password is wrong. Callers must
	// not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrSessionInvalid covers expired, revoked, fingerprint-mismatched and
	// plain unknown sessions alike.
	ErrSessionInvalid = errors.New("session_invalid")
)

// AuthService owns the credential check and the session lifecycle.
type AuthService struct {
	Store      store.Store
	SessionTTL time.Duration
}

// LoginResult carries the freshly minted session token back to the transport
// layer. The token exists nowhere else: the store only holds its hash.
type LoginResult struct {
	Token     string
	User      domain.User
	ExpiresAt time.Time
}

// Login verifies a username/password pair and establishes a new session bound
// to the caller's fingerprint.
//
// Any session the user already held is destroyed first and a brand-new token
// is minted, so a token planted before authentication is worthless afterward.
// The destroy/mint/timestamp sequence runs in one transaction.
func (s *AuthService) Login(ctx context.Context, username, password, fingerprint string) (*LoginResult, error) {
	log := slogx.FromContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("login rejected", "reason", "unknown_user")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Warn("login rejected", "reason", "bad_password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := cryptox.GenerateToken(cryptox.SessionTokenSize)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := domain.Session{
		ID:          idx.New(),
		UserID:      user.ID,
		TokenHash:   cryptox.FingerprintToken(token),
		Fingerprint: fingerprint,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.sessionTTL()),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().DeleteForUser(ctx, user.ID); err != nil {
			return err
		}
		if err := tx.Sessions().Create(ctx, session); err != nil {
			return err
		}
		return tx.Users().UpdateLastLogin(ctx, user.ID, now)
	})
	if err != nil {
		return nil, err
	}

	user.LastLogin = &now
	log.Info("login succeeded", "user_id", user.ID, "role", user.Role)

	return &LoginResult{Token: token, User: user, ExpiresAt: session.ExpiresAt}, nil
}

// Resolve turns a presented token into the current principal. The role comes
// off the user record, never the session, so a role change made after login
// takes effect on the very next request.
//
// An expired session or a fingerprint that no longer matches the one bound at
// login kills the session on the spot.
func (s *AuthService) Resolve(ctx context.Context, token, fingerprint string) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrSessionInvalid
	}

	hash := cryptox.FingerprintToken(token)
	session, err := s.Store.Sessions().GetByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrSessionInvalid
		}
		return domain.User{}, err
	}

	if session.Expired(time.Now().UTC()) {
		_ = s.Store.Sessions().DeleteByTokenHash(ctx, hash)
		return domain.User{}, ErrSessionInvalid
	}

	if session.Fingerprint != fingerprint {
		slogx.FromContext(ctx).Warn("session fingerprint mismatch", "user_id", session.UserID)
		_ = s.Store.Sessions().DeleteByTokenHash(ctx, hash)
		return domain.User{}, ErrSessionInvalid
	}

	user, err := s.Store.Users().GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrSessionInvalid
		}
		return domain.User{}, err
	}

	return user, nil
}

// Logout revokes the session behind a token. Revoking a token that maps to no
// session is not an error; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Store.Sessions().DeleteByTokenHash(ctx, cryptox.FingerprintToken(token))
}

func (s *AuthService) sessionTTL() time.Duration {
	if s.SessionTTL == 0 {
		return 12 * time.Hour
	}
	return s.SessionTTL
}
