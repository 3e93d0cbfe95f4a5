package domain

import (
	"time"

	"github.com/backdeskhq/backdesk/pkg/idx"
)

// User is a principal: one stable identity with exactly one role. The
// password is stored only as an argon2id verifier; the sensitive note only as
// an opaque ciphertext blob, empty until first written.
type User struct {
	ID            idx.ID
	Username      string // unique, compared case-sensitively as stored
	PasswordHash  string // argon2id PHC encoded
	Role          Role
	Email         string // optional
	CreatedAt     time.Time
	LastLogin     *time.Time
	EncryptedNote string // sealed blob, never surfaced to callers
}

// OwnedBy lets a user record pass through the ownership guard: a user owns
// their own profile and note.
func (u User) OwnedBy() idx.ID { return u.ID }
