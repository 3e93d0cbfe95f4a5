package domain

import (
	"time"

	"github.com/backdeskhq/backdesk/pkg/idx"
)

// Session binds an opaque server-issued token to one principal. It carries no
// role of its own: the role is re-resolved from the user record on every
// request so a stale session can never assert outdated claims.
//
// TokenHash is the SHA-256 fingerprint of the token handed to the client; the
// token itself is never stored. Fingerprint is a digest of stable request
// characteristics bound at login, and a session is invalidated when it stops
// matching mid-session.
type Session struct {
	ID          idx.ID
	UserID      idx.ID
	TokenHash   string
	Fingerprint string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the session has passed its expiry at time now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
