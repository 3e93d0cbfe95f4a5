package http

import (
	"net/http"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/internal/backoffice/service"
	"github.com/backdeskhq/backdesk/pkg/httpx"
)

type StatsHandler struct {
	StatsService *service.StatsService
}

// HandleAdmin returns the system-wide dashboard counters.
func (h *StatsHandler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	stats, err := h.StatsService.Admin(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"total_users":        stats.TotalUsers,
		"users_by_role":      roleCounts(stats.UsersByRole),
		"total_projects":     stats.TotalProjects,
		"active_tasks":       stats.ActiveTasks,
		"unresolved_tickets": stats.UnresolvedTickets,
	})
}

// HandleStaff returns the caller's workload counters.
func (h *StatsHandler) HandleStaff(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	stats, err := h.StatsService.Staff(r.Context(), p.ID)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	byStatus := make(map[string]int, len(stats.TasksByStatus))
	for status, n := range stats.TasksByStatus {
		byStatus[string(status)] = n
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"tasks_by_status": byStatus,
		"projects":        stats.Projects,
	})
}

// HandleClient returns the caller's engagement counters.
func (h *StatsHandler) HandleClient(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	stats, err := h.StatsService.Client(r.Context(), p.ID)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	byStatus := make(map[string]int, len(stats.ProjectsByStatus))
	for status, n := range stats.ProjectsByStatus {
		byStatus[string(status)] = n
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"projects_by_status": byStatus,
		"open_tickets":       stats.OpenTickets,
		"documents":          stats.Documents,
	})
}

func roleCounts(m map[domain.Role]int) map[string]int {
	out := make(map[string]int, len(m))
	for role, n := range m {
		out[string(role)] = n
	}
	return out
}
