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

type TasksHandler struct {
	TaskService *service.TaskService
}

type taskResponse struct {
	TaskID      string     `json:"task_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	ProjectID   string     `json:"project_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func toTaskResponse(t domain.Task) taskResponse {
	return taskResponse{
		TaskID:      t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		ProjectID:   t.ProjectID.String(),
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
	}
}

// HandleListMine returns the caller's tasks, optionally filtered by the
// status and priority query parameters.
func (h *TasksHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())

	status := domain.TaskStatus(r.URL.Query().Get("status"))
	priority := domain.TaskPriority(r.URL.Query().Get("priority"))

	tasks, err := h.TaskService.ListMine(r.Context(), p, status, priority)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"tasks": out})
}

// HandleGet returns one task for its assignee or an admin.
func (h *TasksHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "not_found")
		return
	}
	task, err := h.TaskService.GetTask(r.Context(), PrincipalFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

type updateTaskStatusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateStatus moves a task through its lifecycle.
func (h *TasksHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "not_found")
		return
	}
	var req updateTaskStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input")
		return
	}
	err = h.TaskService.UpdateStatus(r.Context(), PrincipalFromContext(r.Context()), id, domain.TaskStatus(req.Status))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	AssigneeID  string     `json:"assignee_id"`
	ProjectID   string     `json:"project_id"`
	DueDate     *time.Time `json:"due_date"`
}

// HandleCreate registers a new task for a staff assignee. Admin only.
func (h *TasksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input")
		return
	}

	assigneeID, err := idx.Parse(req.AssigneeID)
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

	task, err := h.TaskService.CreateTask(r.Context(), service.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.TaskPriority(req.Priority),
		AssigneeID:  assigneeID,
		ProjectID:   projectID,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTaskResponse(task))
}
