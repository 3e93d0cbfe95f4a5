package http

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/internal/backoffice/service"
	"github.com/backdeskhq/backdesk/pkg/httpx"
	"github.com/backdeskhq/backdesk/pkg/slogx"
)

// SessionCookie is the cookie that carries the opaque session token. The
// token is also accepted as a bearer credential in the Authorization header.
const SessionCookie = "backdesk_session"

type principalKey struct{}

// PrincipalFromContext returns the authenticated user attached by
// AuthnMiddleware, or nil for an anonymous request.
func PrincipalFromContext(ctx context.Context) *domain.User {
	p, _ := ctx.Value(principalKey{}).(*domain.User)
	return p
}

// Fingerprint digests the stable request characteristics a session is bound
// to. It changes when the caller's address or client software does, which is
// exactly when a replayed token should stop working.
func Fingerprint(r *http.Request) string {
	sum := sha256.Sum256([]byte(httpx.ClientIP(r) + "|" + r.UserAgent()))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func sessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); len(auth) > 7 && auth[:7] == "Bearer " {
		return auth[7:]
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// AuthnMiddleware resolves the presented session token into a principal and
// attaches it to the request context. An absent or invalid token leaves the
// request anonymous; the role gates downstream decide whether that matters.
func AuthnMiddleware(auth *service.AuthService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.Resolve(r.Context(), token, Fingerprint(r))
			if err != nil {
				if !errors.Is(err, service.ErrSessionInvalid) {
					slogx.FromContext(r.Context()).Error("session resolution failed", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, &user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route class behind exactly one role. Anonymous callers
// get 401; authenticated callers holding any other role get 403. There is no
// role hierarchy: an admin is rejected from a staff route like anyone else.
func RequireRole(role domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil {
				httpx.WriteError(w, http.StatusUnauthorized, "authentication_required")
				return
			}
			if !domain.RequireRole(p, role).Allowed() {
				slogx.FromContext(r.Context()).Warn("role gate denied",
					"user_id", p.ID, "have", p.Role, "want", role)
				httpx.WriteError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated gates routes open to any signed-in principal.
func RequireAuthenticated() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if PrincipalFromContext(r.Context()) == nil {
				httpx.WriteError(w, http.StatusUnauthorized, "authentication_required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
