package records

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/models"
)

// InMemoryRepository is a map-backed Repository used in tests and as a
// storage double. Safe for concurrent use.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]models.Record
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[string]models.Record)}
}

func (r *InMemoryRepository) Create(ctx context.Context, record *models.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := *record
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Active = true
	rec.Views = 0
	r.records[rec.ID] = rec

	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &rec, nil
}

func (r *InMemoryRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Record
	for _, rec := range r.records {
		if rec.OwnerID == ownerID {
			rec := rec
			result = append(result, &rec)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

func (r *InMemoryRepository) SetActive(ctx context.Context, id string, ownerID int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok || rec.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	rec.Active = active
	rec.UpdatedAt = time.Now()
	r.records[id] = rec

	return nil
}

func (r *InMemoryRepository) UpdateContent(ctx context.Context, id string, ownerID int64, storageKey, contentURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok || rec.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	rec.StorageKey = storageKey
	rec.ContentURL = contentURL
	rec.UpdatedAt = time.Now()
	r.records[id] = rec

	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string, ownerID int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok || rec.OwnerID != ownerID {
		return "", common.ErrorNotFound
	}
	delete(r.records, id)

	return rec.StorageKey, nil
}

func (r *InMemoryRepository) IncrementViews(ctx context.Context, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return "", common.ErrorNotFound
	}
	if !rec.Active {
		return "", common.ErrRecordInactive
	}
	rec.Views++
	rec.UpdatedAt = time.Now()
	r.records[id] = rec

	return rec.ContentURL, nil
}

func (r *InMemoryRepository) Stats(ctx context.Context) (*Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := &Stats{}
	for _, rec := range r.records {
		s.Records++
		if rec.Active {
			s.ActiveRecords++
		}
		s.TotalViews += rec.Views
	}

	return s, nil
}
