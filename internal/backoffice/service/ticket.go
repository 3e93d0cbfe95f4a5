package service

import (
	"context"
	"strings"
	"time"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/internal/backoffice/store"
	"github.com/backdeskhq/backdesk/pkg/idx"
)

// TicketService handles client support requests.
type TicketService struct {
	Store store.Store
}

// OpenTicket raises a new support ticket for the calling client.
func (s *TicketService) OpenTicket(ctx context.Context, principal *domain.User, subject, message string, priority domain.TicketPriority) (domain.Ticket, error) {
	if !domain.RequireAuthenticated(principal).Allowed() {
		return domain.Ticket{}, ErrForbidden
	}

	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)
	if subject == "" || message == "" {
		return domain.Ticket{}, ErrInvalidInput
	}
	if priority == "" {
		priority = domain.TicketPriorityNormal
	} else if _, err := domain.ParseTicketPriority(string(priority)); err != nil {
		return domain.Ticket{}, err
	}

	now := time.Now().UTC()
	ticket := domain.Ticket{
		ID:        idx.New(),
		Subject:   subject,
		Message:   message,
		Status:    domain.TicketOpen,
		Priority:  priority,
		ClientID:  principal.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Tickets().Create(ctx, ticket); err != nil {
		return domain.Ticket{}, err
	}
	return ticket, nil
}

// GetTicket fetches one ticket for its owning client or an admin.
func (s *TicketService) GetTicket(ctx context.Context, principal *domain.User, id idx.ID) (domain.Ticket, error) {
	ticket, err := s.Store.Tickets().GetByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	if !domain.RequireOwnerOrAdmin(principal, ticket).Allowed() {
		return domain.Ticket{}, store.ErrNotFound
	}
	return ticket, nil
}

// ListMine returns the principal's own tickets, newest first. limit <= 0
// returns all of them.
func (s *TicketService) ListMine(ctx context.Context, principal *domain.User, limit int) ([]domain.Ticket, error) {
	if !domain.RequireAuthenticated(principal).Allowed() {
		return nil, ErrForbidden
	}
	return s.Store.Tickets().ListByClient(ctx, principal.ID, limit)
}
