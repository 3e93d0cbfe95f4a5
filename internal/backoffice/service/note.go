package service

import (
	"context"
	"errors"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/internal/backoffice/store"
	"github.com/backdeskhq/backdesk/pkg/cryptox"
	"github.com/backdeskhq/backdesk/pkg/idx"
)

// ErrForbidden reports a role-gate failure on an operation the caller could
// otherwise see exists.
var ErrForbidden = errors.New("forbidden")

// NoteService reads and writes the per-user sensitive note. Plaintext exists
// only inside a request: at rest the note is always a sealed blob.
type NoteService struct {
	Store  store.Store
	Sealer *cryptox.Sealer
}

// Get decrypts a user's note for the owner or an admin. Anyone else gets
// store.ErrNotFound, same as if the user id did not exist.
//
// An empty stored note comes back as the empty string. A blob that fails
// authentication (tampered row, secret changed underneath it) surfaces as
// cryptox.ErrDecryptFailed so callers can render a placeholder instead of
// garbage.
func (s *NoteService) Get(ctx context.Context, principal *domain.User, userID idx.ID) (string, error) {
	target, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !domain.RequireOwnerOrAdmin(principal, target).Allowed() {
		return "", store.ErrNotFound
	}
	return s.Sealer.Open(target.EncryptedNote)
}

// Set seals a new note value and overwrites the stored blob wholesale.
// Writing the empty string clears the note.
func (s *NoteService) Set(ctx context.Context, principal *domain.User, userID idx.ID, note string) error {
	blob, err := s.Sealer.Seal(note)
	if err != nil {
		return err
	}

	// Ownership check and write ride the same transaction so a concurrent
	// delete or ownership change cannot slip between them.
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		target, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if !domain.RequireOwnerOrAdmin(principal, target).Allowed() {
			return store.ErrNotFound
		}
		return tx.Users().UpdateEncryptedNote(ctx, userID, blob)
	})
}
