package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/internal/backoffice/service"
	"github.com/backdeskhq/backdesk/pkg/httpx"
	"github.com/backdeskhq/backdesk/pkg/idx"
)

type TicketsHandler struct {
	TicketService *service.TicketService
}

type ticketResponse struct {
	TicketID  string    `json:"ticket_id"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toTicketResponse(t domain.Ticket) ticketResponse {
	return ticketResponse{
		TicketID:  t.ID.String(),
		Subject:   t.Subject,
		Message:   t.Message,
		Status:    string(t.Status),
		Priority:  string(t.Priority),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// HandleListMine returns the calling client's tickets, newest first. The
// limit query parameter caps the result.
func (h *TicketsHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	tickets, err := h.TicketService.ListMine(r.Context(), PrincipalFromContext(r.Context()), limit)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	out := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"tickets": out})
}

// HandleGet returns one ticket for its owning client or an admin.
func (h *TicketsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "not_found")
		return
	}
	ticket, err := h.TicketService.GetTicket(r.Context(), PrincipalFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTicketResponse(ticket))
}

type openTicketRequest struct {
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}

// HandleOpen raises a new support ticket for the calling client.
func (h *TicketsHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	var req openTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input")
		return
	}

	ticket, err := h.TicketService.OpenTicket(r.Context(), PrincipalFromContext(r.Context()),
		req.Subject, req.Message, domain.TicketPriority(req.Priority))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTicketResponse(ticket))
}
