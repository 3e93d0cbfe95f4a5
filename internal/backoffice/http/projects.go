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

type ProjectsHandler struct {
	ProjectService *service.ProjectService
}

type projectResponse struct {
	ProjectID   string     `json:"project_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toProjectResponse(p domain.Project) projectResponse {
	return projectResponse{
		ProjectID:   p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		Progress:    p.Progress,
		Deadline:    p.Deadline,
		CreatedAt:   p.CreatedAt,
	}
}

func toProjectResponses(projects []domain.Project) []projectResponse {
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	return out
}

// HandleListMine returns the calling client's projects.
func (h *ProjectsHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	projects, err := h.ProjectService.ListMine(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"projects": toProjectResponses(projects)})
}

// HandleListAssigned returns the projects the calling staff member works on.
func (h *ProjectsHandler) HandleListAssigned(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	projects, err := h.ProjectService.ListForAssignee(r.Context(), p.ID)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"projects": toProjectResponses(projects)})
}

// HandleGet returns one project for its owning client or an admin.
func (h *ProjectsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "not_found")
		return
	}
	project, err := h.ProjectService.GetProject(r.Context(), PrincipalFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProjectResponse(project))
}

type createProjectRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ClientID    string     `json:"client_id"`
	Deadline    *time.Time `json:"deadline"`
}

// HandleCreate opens a new project for a client. Admin only.
func (h *ProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input")
		return
	}
	clientID, err := idx.Parse(req.ClientID)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input")
		return
	}

	project, err := h.ProjectService.CreateProject(r.Context(), service.CreateProjectParams{
		Name:        req.Name,
		Description: req.Description,
		ClientID:    clientID,
		Deadline:    req.Deadline,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProjectResponse(project))
}

type updateProgressRequest struct {
	Progress int `json:"progress"`
}

// HandleUpdateProgress sets the completion percentage. Admin only.
func (h *ProjectsHandler) HandleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "not_found")
		return
	}
	var req updateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input")
		return
	}
	if err := h.ProjectService.UpdateProgress(r.Context(), id, req.Progress); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
