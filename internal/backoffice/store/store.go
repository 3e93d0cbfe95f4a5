package store

import (
	"context"
	"errors"
	"time"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/pkg/idx"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and make it obvious at
// the call site which table a service touches.
type Store interface {
	Users() Users
	Sessions() Sessions
	Tasks() Tasks
	Projects() Projects
	Tickets() Tickets
	Documents() Documents

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. A non-nil error from fn rolls
	// the transaction back; nil commits it. Multi-step sequences that must be
	// atomic (login's verify/regenerate/timestamp, ownership-gated writes) go
	// through here.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetByID returns a user by id.
	GetByID(ctx context.Context, id idx.ID) (domain.User, error)

	// GetByUsername does an exact, case-sensitive lookup. Used during login.
	GetByUsername(ctx context.Context, username string) (domain.User, error)

	// Create inserts a new user. Username uniqueness is enforced here by the
	// schema; a duplicate returns ErrAlreadyExists.
	Create(ctx context.Context, u domain.User) error

	// List returns all users ordered by creation date (newest first).
	List(ctx context.Context) ([]domain.User, error)

	// Search filters users by a username/email substring and an optional
	// role. Empty query and empty role mean no filter.
	Search(ctx context.Context, query string, role domain.Role) ([]domain.User, error)

	// UpdateProfile sets the username and email. A username collision with
	// another user returns ErrAlreadyExists.
	UpdateProfile(ctx context.Context, id idx.ID, username, email string) error

	// UpdateRole changes the role. The change only affects checks performed
	// after the next principal resolution.
	UpdateRole(ctx context.Context, id idx.ID, role domain.Role) error

	// UpdatePasswordHash replaces the password verifier.
	UpdatePasswordHash(ctx context.Context, id idx.ID, hash string) error

	// UpdateLastLogin records the authentication timestamp.
	UpdateLastLogin(ctx context.Context, id idx.ID, at time.Time) error

	// UpdateEncryptedNote overwrites the sealed note blob wholesale. An empty
	// blob clears the note.
	UpdateEncryptedNote(ctx context.Context, id idx.ID, blob string) error

	// Delete removes the user; owned resources and sessions cascade with it.
	Delete(ctx context.Context, id idx.ID) error

	// CountByRole returns how many users hold each role.
	CountByRole(ctx context.Context) (map[domain.Role]int, error)

	// IsEmpty reports whether there are no users (bootstrap seeding check).
	IsEmpty(ctx context.Context) (bool, error)
}

type Sessions interface {
	// Create stores a new session row. The opaque token never reaches the
	// store; only its fingerprint hash does.
	Create(ctx context.Context, s domain.Session) error

	// GetByTokenHash returns the session bound to a token fingerprint.
	GetByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error)

	// DeleteByTokenHash removes one session. Deleting an absent session is
	// not an error, which makes logout idempotent.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteForUser removes every session belonging to a user. Called at
	// login (fixation defense) and on user deletion.
	DeleteForUser(ctx context.Context, userID idx.ID) error

	// DeleteExpired sweeps sessions past their expiry. Housekeeping.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Tasks interface {
	Create(ctx context.Context, t domain.Task) error
	GetByID(ctx context.Context, id idx.ID) (domain.Task, error)

	// ListByAssignee returns the assignee's tasks ordered by due date.
	// Zero-valued status/priority mean no filter.
	ListByAssignee(ctx context.Context, assigneeID idx.ID, status domain.TaskStatus, priority domain.TaskPriority) ([]domain.Task, error)

	// UpdateStatus sets the status and, when completing, the completion time.
	UpdateStatus(ctx context.Context, id idx.ID, status domain.TaskStatus, completedAt *time.Time) error

	// CountByStatusForAssignee returns per-status counts for one assignee.
	CountByStatusForAssignee(ctx context.Context, assigneeID idx.ID) (map[domain.TaskStatus]int, error)

	// CountActive counts tasks not yet completed, across all assignees.
	CountActive(ctx context.Context) (int, error)
}

type Projects interface {
	Create(ctx context.Context, p domain.Project) error
	GetByID(ctx context.Context, id idx.ID) (domain.Project, error)

	// Update rewrites the mutable project fields (name, description, status,
	// progress, deadline).
	Update(ctx context.Context, p domain.Project) error

	// ListByClient returns a client's projects, newest first.
	ListByClient(ctx context.Context, clientID idx.ID) ([]domain.Project, error)

	// ListForAssignee returns the distinct projects that have at least one
	// task assigned to the given staff member.
	ListForAssignee(ctx context.Context, assigneeID idx.ID) ([]domain.Project, error)

	// CountByStatusForClient returns per-status counts for one client.
	CountByStatusForClient(ctx context.Context, clientID idx.ID) (map[domain.ProjectStatus]int, error)

	Count(ctx context.Context) (int, error)
}

type Tickets interface {
	Create(ctx context.Context, t domain.Ticket) error
	GetByID(ctx context.Context, id idx.ID) (domain.Ticket, error)

	// ListByClient returns a client's tickets, newest first. limit <= 0
	// returns all of them.
	ListByClient(ctx context.Context, clientID idx.ID, limit int) ([]domain.Ticket, error)

	// CountOpenForClient counts a client's tickets still in the open state.
	CountOpenForClient(ctx context.Context, clientID idx.ID) (int, error)

	// CountUnresolved counts tickets not yet resolved, across all clients.
	CountUnresolved(ctx context.Context) (int, error)
}

type Documents interface {
	Create(ctx context.Context, d domain.Document) error
	GetByID(ctx context.Context, id idx.ID) (domain.Document, error)
	ListByClient(ctx context.Context, clientID idx.ID) ([]domain.Document, error)
}
