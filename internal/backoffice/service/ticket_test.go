package service

import (
	"context"
	"testing"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/internal/backoffice/store"
	"github.com/stretchr/testify/require"
)

func TestOpenTicket(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &TicketService{Store: s}

	alice := createUser(t, s, "alice", "long-enough-pw", domain.RoleClient)

	ticket, err := svc.OpenTicket(ctx, &alice, "Billing question", "My invoice looks wrong", "")
	require.NoError(t, err)
	require.Equal(t, domain.TicketOpen, ticket.Status)
	require.Equal(t, domain.TicketPriorityNormal, ticket.Priority)
	require.Equal(t, alice.ID, ticket.ClientID)

	_, err = svc.OpenTicket(ctx, &alice, "", "body", "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.OpenTicket(ctx, &alice, "Subject", "body", domain.TicketPriority("critical"))
	require.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.OpenTicket(ctx, nil, "Subject", "body", "")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestTicketOwnership(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &TicketService{Store: s}

	alice := createUser(t, s, "alice", "long-enough-pw", domain.RoleClient)
	bob := createUser(t, s, "bob", "long-enough-pw", domain.RoleClient)
	admin := createUser(t, s, "admin", "long-enough-pw", domain.RoleAdmin)

	ticket, err := svc.OpenTicket(ctx, &alice, "Subject", "body", domain.TicketPriorityHigh)
	require.NoError(t, err)

	_, err = svc.GetTicket(ctx, &alice, ticket.ID)
	require.NoError(t, err)
	_, err = svc.GetTicket(ctx, &admin, ticket.ID)
	require.NoError(t, err)

	_, err = svc.GetTicket(ctx, &bob, ticket.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	mine, err := svc.ListMine(ctx, &alice, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	none, err := svc.ListMine(ctx, &bob, 0)
	require.NoError(t, err)
	require.Empty(t, none)
}
