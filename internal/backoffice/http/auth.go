package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/backdeskhq/backdesk/internal/backoffice/service"
	"github.com/backdeskhq/backdesk/pkg/httpx"
)

type AuthHandler struct {
	AuthService *service.AuthService
	// SecureCookies marks the session cookie Secure. Off only for local
	// plain-http development.
	SecureCookies bool
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HandleLogin authenticates a username/password pair and establishes a
// session. Credentials arrive as a form post or a JSON body; the token comes
// back both as an HttpOnly cookie and in the body for non-browser clients.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_input")
			return
		}
	} else {
		req.Username = r.FormValue("username")
		req.Password = r.FormValue("password")
	}

	res, err := h.AuthService.Login(r.Context(), req.Username, req.Password, Fingerprint(r))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Token:     res.Token,
		UserID:    res.User.ID.String(),
		Username:  res.User.Username,
		Role:      string(res.User.Role),
		ExpiresAt: res.ExpiresAt,
	})
}

// HandleLogout revokes the presented session, if any, and clears the cookie.
// Always succeeds.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthService.Logout(r.Context(), sessionToken(r)); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

type meResponse struct {
	UserID    string     `json:"user_id"`
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	Email     string     `json:"email,omitempty"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// HandleMe returns the current principal.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, meResponse{
		UserID:    p.ID.String(),
		Username:  p.Username,
		Role:      string(p.Role),
		Email:     p.Email,
		LastLogin: p.LastLogin,
	})
}
