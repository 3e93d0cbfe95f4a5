package domain

import (
	"time"

	"github.com/backdeskhq/backdesk/pkg/idx"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

// Project belongs to exactly one client.
type Project struct {
	ID          idx.ID
	Name        string
	Description string
	Status      ProjectStatus
	Progress    int // 0-100
	ClientID    idx.ID
	CreatedAt   time.Time
	Deadline    *time.Time
}

func (p Project) OwnedBy() idx.ID { return p.ClientID }
