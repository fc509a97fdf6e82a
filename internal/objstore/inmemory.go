package objstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/notevault/internal/common"
)

// InMemoryStore is a map-backed Store used in tests. URLs use a memory://
// scheme so misdirected requests fail loudly.
type InMemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// FailPut, when set, makes every Put fail. Lets tests exercise the
	// storage-failure branch of the transfer pipeline.
	FailPut bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{objects: make(map[string][]byte)}
}

func (s *InMemoryStore) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailPut {
		return "", fmt.Errorf("put %s: simulated storage failure", key)
	}

	b := make([]byte, len(body))
	copy(b, body)
	s.objects[key] = b

	return s.url(key), nil
}

func (s *InMemoryStore) Copy(ctx context.Context, srcKey, dstKey string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.objects[srcKey]
	if !ok {
		return "", fmt.Errorf("copy %s: %w", srcKey, common.ErrorNotFound)
	}

	b := make([]byte, len(src))
	copy(b, src)
	s.objects[dstKey] = b

	return s.url(dstKey), nil
}

func (s *InMemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)

	return nil
}

// Get returns a stored object; test helper.
func (s *InMemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.objects[key]
	return b, ok
}

// Len returns the number of stored objects; test helper.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.objects)
}

func (s *InMemoryStore) url(key string) string {
	return "memory://bucket/" + key
}
