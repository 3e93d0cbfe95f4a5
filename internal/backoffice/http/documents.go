package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/internal/backoffice/service"
	"github.com/backdeskhq/backdesk/pkg/httpx"
	"github.com/backdeskhq/backdesk/pkg/idx"
)

type DocumentsHandler struct {
	DocumentService *service.DocumentService
}

type documentResponse struct {
	DocumentID  string    `json:"document_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	FileType    string    `json:"file_type,omitempty"`
	ProjectID   string    `json:"project_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toDocumentResponse(d domain.Document) documentResponse {
	return documentResponse{
		DocumentID:  d.ID.String(),
		Title:       d.Title,
		Description: d.Description,
		FileType:    d.FileType,
		ProjectID:   d.ProjectID.String(),
		CreatedAt:   d.CreatedAt,
	}
}

// HandleListMine returns the calling client's documents.
func (h *DocumentsHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	docs, err := h.DocumentService.ListMine(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"documents": out})
}

// HandleView returns one document for its owning client or an admin. A
// document owned by someone else is a 404, not a 403.
func (h *DocumentsHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "not_found")
		return
	}
	doc, err := h.DocumentService.ViewDocument(r.Context(), PrincipalFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDocumentResponse(doc))
}

type addDocumentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	FileType    string `json:"file_type"`
	ClientID    string `json:"client_id"`
	ProjectID   string `json:"project_id"`
}

// HandleAdd registers a new document under a client account. Admin only.
func (h *DocumentsHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req addDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input")
		return
	}
	clientID, err := idx.Parse(req.ClientID)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input")
		return
	}
	var projectID idx.ID
	if req.ProjectID != "" {
		projectID, err = idx.Parse(req.ProjectID)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_input")
			return
		}
	}

	doc, err := h.DocumentService.AddDocument(r.Context(), service.AddDocumentParams{
		Title:       req.Title,
		Description: req.Description,
		FileType:    req.FileType,
		ClientID:    clientID,
		ProjectID:   projectID,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toDocumentResponse(doc))
}
