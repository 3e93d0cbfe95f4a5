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

type AdminUsersHandler struct {
	UserService *service.UserService
}

type userResponse struct {
	UserID    string     `json:"user_id"`
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	Email     string     `json:"email,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		UserID:    u.ID.String(),
		Username:  u.Username,
		Role:      string(u.Role),
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

func toUserResponses(users []domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

// HandleList returns every account, or a filtered set when the q/role query
// parameters are present.
func (h *AdminUsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	role := r.URL.Query().Get("role")

	var (
		users []domain.User
		err   error
	)
	if q == "" && role == "" {
		users, err = h.UserService.ListUsers(r.Context())
	} else {
		users, err = h.UserService.SearchUsers(r.Context(), q, role)
	}
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"users": toUserResponses(users)})
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}

// HandleCreate registers a new account.
func (h *AdminUsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input")
		return
	}

	user, err := h.UserService.CreateUser(r.Context(), service.CreateUserParams{
		Username: req.Username,
		Password: req.Password,
		Role:     domain.Role(req.Role),
		Email:    req.Email,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

// HandleGet returns one account.
func (h *AdminUsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "not_found")
		return
	}
	user, err := h.UserService.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

type updateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// HandleUpdateProfile renames an account or changes its email.
func (h *AdminUsersHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "not_found")
		return
	}
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input")
		return
	}
	if err := h.UserService.UpdateProfile(r.Context(), id, req.Username, req.Email); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

// HandleChangeRole moves an account to a different role. Live sessions stay
// up; the new role applies from the next request.
func (h *AdminUsersHandler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "not_found")
		return
	}
	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input")
		return
	}
	if err := h.UserService.ChangeRole(r.Context(), id, domain.Role(req.Role)); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// HandleResetPassword replaces an account's password and revokes its
// sessions.
func (h *AdminUsersHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "not_found")
		return
	}
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input")
		return
	}
	if err := h.UserService.ResetPassword(r.Context(), id, req.Password); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes an account and everything it owns.
func (h *AdminUsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "not_found")
		return
	}
	actor := PrincipalFromContext(r.Context())
	if err := h.UserService.DeleteUser(r.Context(), actor.ID, id); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
