// Package repomanager wires the concrete repository set behind a single
// constructor so the rest of the app depends on one injection point.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/notevault/internal/repositories/records"
	"github.com/dmitrijs2005/notevault/internal/repositories/sessions"
	"github.com/dmitrijs2005/notevault/internal/repositories/users"
)

// RepositoryManager exposes the repositories plus lifecycle hooks of the
// backing store.
type RepositoryManager interface {
	Users() users.Repository
	Records() records.Repository
	Sessions() sessions.Repository

	Conn() *sql.DB
	RunMigrations(ctx context.Context) error
	Close() error
}
