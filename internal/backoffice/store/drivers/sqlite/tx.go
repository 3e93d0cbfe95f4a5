package sqlite

import (
	"context"
	"database/sql"

	"github.com/backdeskhq/backdesk/internal/backoffice/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // outer DB stays open; caller commits or rolls back

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx starts

func (t *txStore) Users() store.Users         { return &usersRepo{q: t.tx} }
func (t *txStore) Sessions() store.Sessions   { return &sessionsRepo{q: t.tx} }
func (t *txStore) Tasks() store.Tasks         { return &tasksRepo{q: t.tx} }
func (t *txStore) Projects() store.Projects   { return &projectsRepo{q: t.tx} }
func (t *txStore) Tickets() store.Tickets     { return &ticketsRepo{q: t.tx} }
func (t *txStore) Documents() store.Documents { return &documentsRepo{q: t.tx} }
