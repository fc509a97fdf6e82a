package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/models"
)

// InMemoryRepository is a map-backed Repository used in tests and as a
// storage double. Safe for concurrent use.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[int64]models.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[int64]models.User)}
}

func (r *InMemoryRepository) Upsert(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	u, ok := r.users[user.ID]
	if !ok {
		u = models.User{ID: user.ID, CreatedAt: now}
	}
	u.Name = user.Name
	u.IsAdmin = user.IsAdmin
	u.Started = true
	u.UpdatedAt = now
	r.users[user.ID] = u

	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *InMemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.users)), nil
}
