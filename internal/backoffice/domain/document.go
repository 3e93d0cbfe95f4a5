package domain

import (
	"time"

	"github.com/backdeskhq/backdesk/pkg/idx"
)

// Document is a client-owned record (invoice, contract, report). Access goes
// through the ownership guard: only the owning client or an admin may read it.
type Document struct {
	ID          idx.ID
	Title       string
	Description string
	FileType    string
	ClientID    idx.ID
	ProjectID   idx.ID
	CreatedAt   time.Time
}

func (d Document) OwnedBy() idx.ID { return d.ClientID }
