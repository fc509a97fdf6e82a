package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/notevault/internal/repositories/records"
	"github.com/dmitrijs2005/notevault/internal/repositories/sessions"
	"github.com/dmitrijs2005/notevault/internal/repositories/users"
)

// InMemoryRepositoryManager serves the same repository set from process
// memory. Used in tests; production state always lives in the durable store.
type InMemoryRepositoryManager struct {
	users    users.Repository
	records  records.Repository
	sessions sessions.Repository
}

func (m *InMemoryRepositoryManager) Conn() *sql.DB {
	return nil
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Records() records.Repository {
	return m.records
}

func (m *InMemoryRepositoryManager) Sessions() sessions.Repository {
	return m.sessions
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{
		users:    users.NewInMemoryRepository(),
		records:  records.NewInMemoryRepository(),
		sessions: sessions.NewInMemoryRepository(),
	}
}
