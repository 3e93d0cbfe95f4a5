package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/internal/backoffice/service"
	"github.com/backdeskhq/backdesk/internal/backoffice/store"
	"github.com/backdeskhq/backdesk/pkg/cryptox"
	"github.com/backdeskhq/backdesk/pkg/httpx"
	"github.com/backdeskhq/backdesk/pkg/slogx"
)

// writeServiceError maps service-layer sentinels onto HTTP status codes.
// Anything unrecognised is a 500 and gets logged; the client never sees
// internal error text.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials")
	case errors.Is(err, service.ErrSessionInvalid):
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalid")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, service.ErrUsernameTaken):
		httpx.WriteError(w, http.StatusConflict, "username_taken")
	case errors.Is(err, service.ErrSelfDelete):
		httpx.WriteError(w, http.StatusConflict, "cannot_delete_self")
	case errors.Is(err, service.ErrWeakPassword):
		httpx.WriteError(w, http.StatusBadRequest, "password_too_short")
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidStatus):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input")
	case errors.Is(err, cryptox.ErrDecryptFailed):
		// The stored blob failed authentication. Tell the caller the note is
		// unreadable rather than handing back garbage bytes.
		httpx.WriteError(w, http.StatusUnprocessableEntity, "note_unreadable")
	default:
		slogx.FromContext(ctx).Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error")
	}
}
