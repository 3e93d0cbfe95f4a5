package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/internal/backoffice/service"
	"github.com/backdeskhq/backdesk/internal/backoffice/store"
	"github.com/backdeskhq/backdesk/pkg/httpx"
	"github.com/backdeskhq/backdesk/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	secure       bool

	store           store.Store
	AuthService     *service.AuthService
	UserService     *service.UserService
	NoteService     *service.NoteService
	TaskService     *service.TaskService
	ProjectService  *service.ProjectService
	TicketService   *service.TicketService
	DocumentService *service.DocumentService
	StatsService    *service.StatsService
}

func NewRouter(buildVersion string, secureCookies bool, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		secure:       secureCookies,
		store:        st,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.SecurityHeaders(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAdmin()
	r.registerStaff()
	r.registerClient()
	r.registerNotes()
	r.registerSystem()
}

// ServeHTTP applies the global middleware chain in front of the mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService, SecureCookies: r.secure}

	// POST /login - strict limit keyed by IP plus the claimed username, so
	// one address cannot brute-force many accounts in parallel.
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
		),
	)

	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			AuthnMiddleware(r.AuthService),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /v1/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			AuthnMiddleware(r.AuthService),
			RequireAuthenticated(),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	users := &AdminUsersHandler{UserService: r.UserService}
	tasks := &TasksHandler{TaskService: r.TaskService}
	projects := &ProjectsHandler{ProjectService: r.ProjectService}
	docs := &DocumentsHandler{DocumentService: r.DocumentService}
	stats := &StatsHandler{StatsService: r.StatsService}

	admin := func(h http.HandlerFunc) http.Handler {
		return httpx.Chain(h,
			AuthnMiddleware(r.AuthService),
			RequireRole(domain.RoleAdmin),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/admin/users", admin(users.HandleList))
	r.Mux.Handle("POST /v1/admin/users", admin(users.HandleCreate))
	r.Mux.Handle("GET /v1/admin/users/{id}", admin(users.HandleGet))
	r.Mux.Handle("PATCH /v1/admin/users/{id}", admin(users.HandleUpdateProfile))
	r.Mux.Handle("PUT /v1/admin/users/{id}/role", admin(users.HandleChangeRole))
	r.Mux.Handle("PUT /v1/admin/users/{id}/password", admin(users.HandleResetPassword))
	r.Mux.Handle("DELETE /v1/admin/users/{id}", admin(users.HandleDelete))

	r.Mux.Handle("POST /v1/admin/tasks", admin(tasks.HandleCreate))
	r.Mux.Handle("POST /v1/admin/projects", admin(projects.HandleCreate))
	r.Mux.Handle("PUT /v1/admin/projects/{id}/progress", admin(projects.HandleUpdateProgress))
	r.Mux.Handle("POST /v1/admin/documents", admin(docs.HandleAdd))

	r.Mux.Handle("GET /v1/admin/stats", admin(stats.HandleAdmin))
}

func (r *Router) registerStaff() {
	tasks := &TasksHandler{TaskService: r.TaskService}
	projects := &ProjectsHandler{ProjectService: r.ProjectService}
	stats := &StatsHandler{StatsService: r.StatsService}

	staff := func(h http.HandlerFunc) http.Handler {
		return httpx.Chain(h,
			AuthnMiddleware(r.AuthService),
			RequireRole(domain.RoleStaff),
			httpx.RateLimitByIP(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /v1/staff/tasks", staff(tasks.HandleListMine))
	r.Mux.Handle("GET /v1/staff/tasks/{id}", staff(tasks.HandleGet))
	r.Mux.Handle("PUT /v1/staff/tasks/{id}/status", staff(tasks.HandleUpdateStatus))
	r.Mux.Handle("GET /v1/staff/projects", staff(projects.HandleListAssigned))
	r.Mux.Handle("GET /v1/staff/stats", staff(stats.HandleStaff))
}

func (r *Router) registerClient() {
	projects := &ProjectsHandler{ProjectService: r.ProjectService}
	tickets := &TicketsHandler{TicketService: r.TicketService}
	docs := &DocumentsHandler{DocumentService: r.DocumentService}
	stats := &StatsHandler{StatsService: r.StatsService}

	client := func(h http.HandlerFunc) http.Handler {
		return httpx.Chain(h,
			AuthnMiddleware(r.AuthService),
			RequireRole(domain.RoleClient),
			httpx.RateLimitByIP(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /v1/client/projects", client(projects.HandleListMine))
	r.Mux.Handle("GET /v1/client/projects/{id}", client(projects.HandleGet))
	r.Mux.Handle("GET /v1/client/tickets", client(tickets.HandleListMine))
	r.Mux.Handle("GET /v1/client/tickets/{id}", client(tickets.HandleGet))
	r.Mux.Handle("POST /v1/client/tickets",
		httpx.Chain(http.HandlerFunc(tickets.HandleOpen),
			AuthnMiddleware(r.AuthService),
			RequireRole(domain.RoleClient),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/client/documents", client(docs.HandleListMine))
	r.Mux.Handle("GET /v1/client/documents/{id}", client(docs.HandleView))
	r.Mux.Handle("GET /v1/client/stats", client(stats.HandleClient))
}

func (r *Router) registerNotes() {
	h := &NoteHandler{NoteService: r.NoteService}

	authed := func(handler http.HandlerFunc) http.Handler {
		return httpx.Chain(handler,
			AuthnMiddleware(r.AuthService),
			RequireAuthenticated(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		)
	}
	admin := func(handler http.HandlerFunc) http.Handler {
		return httpx.Chain(handler,
			AuthnMiddleware(r.AuthService),
			RequireRole(domain.RoleAdmin),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		)
	}

	// Every signed-in user manages their own note.
	r.Mux.Handle("GET /v1/me/note", authed(h.HandleGetOwn))
	r.Mux.Handle("PUT /v1/me/note", authed(h.HandleSetOwn))

	// Admins reach any user's note through the user resource.
	r.Mux.Handle("GET /v1/admin/users/{id}/note", admin(h.HandleGetUser))
	r.Mux.Handle("PUT /v1/admin/users/{id}/note", admin(h.HandleSetUser))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.store, r.startTime, r.buildVersion))
}
