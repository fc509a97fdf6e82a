package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/models"
)

// InMemoryRepository is a map-backed Repository used in tests and as a
// storage double. Mirrors the merge-write semantics of the Postgres
// implementation. Safe for concurrent use.
type InMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[int64]models.Session
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{sessions: make(map[int64]models.Session)}
}

func (r *InMemoryRepository) Save(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[session.UserID]
	if !ok {
		s = models.Session{UserID: session.UserID}
	}

	s.State = session.State
	if session.Draft.FolderID != "" {
		s.Draft.FolderID = session.Draft.FolderID
	}
	if session.Draft.CategoryID != "" {
		s.Draft.CategoryID = session.Draft.CategoryID
	}
	if session.Draft.Title != "" {
		s.Draft.Title = session.Draft.Title
	}
	if session.Draft.Description != "" {
		s.Draft.Description = session.Draft.Description
	}
	s.UpdatedAt = time.Now()

	r.sessions[session.UserID] = s

	return nil
}

func (r *InMemoryRepository) Load(ctx context.Context, userID int64) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[userID]
	if !ok {
		return nil, common.ErrSessionNotFound
	}
	return &s, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, userID)

	return nil
}
