package http

import (
	"encoding/json"
	"net/http"

	"github.com/backdeskhq/backdesk/internal/backoffice/service"
	"github.com/backdeskhq/backdesk/pkg/httpx"
	"github.com/backdeskhq/backdesk/pkg/idx"
)

type NoteHandler struct {
	NoteService *service.NoteService
}

type noteResponse struct {
	Note string `json:"note"`
}

type noteRequest struct {
	Note string `json:"note"`
}

// HandleGetOwn returns the caller's own note, decrypted.
func (h *NoteHandler) HandleGetOwn(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	h.respond(w, r, p.ID)
}

// HandleSetOwn overwrites the caller's own note.
func (h *NoteHandler) HandleSetOwn(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	h.update(w, r, p.ID)
}

// HandleGetUser returns another user's note. The ownership guard inside the
// service allows only the owner or an admin through; this route class is
// admin-gated anyway.
func (h *NoteHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "not_found")
		return
	}
	h.respond(w, r, id)
}

// HandleSetUser overwrites another user's note.
func (h *NoteHandler) HandleSetUser(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "not_found")
		return
	}
	h.update(w, r, id)
}

func (h *NoteHandler) respond(w http.ResponseWriter, r *http.Request, userID idx.ID) {
	note, err := h.NoteService.Get(r.Context(), PrincipalFromContext(r.Context()), userID)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, noteResponse{Note: note})
}

func (h *NoteHandler) update(w http.ResponseWriter, r *http.Request, userID idx.ID) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input")
		return
	}
	if err := h.NoteService.Set(r.Context(), PrincipalFromContext(r.Context()), userID, req.Note); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
