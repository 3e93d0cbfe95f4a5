package domain

import (
	"errors"
	"time"

	"github.com/backdeskhq/backdesk/pkg/idx"
)

// ErrInvalidStatus reports a status or priority value outside its closed set.
var ErrInvalidStatus = errors.New("domain: invalid status")

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
)

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityNormal TicketPriority = "normal"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

func ParseTicketPriority(s string) (TicketPriority, error) {
	switch TicketPriority(s) {
	case TicketPriorityLow, TicketPriorityNormal, TicketPriorityHigh, TicketPriorityUrgent:
		return TicketPriority(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Ticket is a support request raised by one client.
type Ticket struct {
	ID        idx.ID
	Subject   string
	Message   string
	Status    TicketStatus
	Priority  TicketPriority
	ClientID  idx.ID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Ticket) OwnedBy() idx.ID { return t.ClientID }
