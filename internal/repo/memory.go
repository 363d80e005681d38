package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/itinerary/backend/internal/domain"
)

// memoryKVRepo keeps values in process memory. Nothing survives the process;
// use it for tests and throwaway sessions.
type memoryKVRepo struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKVRepo constructs an empty in-memory KVRepo.
func NewMemoryKVRepo() KVRepo {
	return &memoryKVRepo{data: map[string][]byte{}}
}

func (r *memoryKVRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.data[key]
	if !ok {
		return nil, fmt.Errorf("repo.MemoryKVRepo.Get: %w", domain.ErrNotFound)
	}
	return append([]byte(nil), v...), nil
}

func (r *memoryKVRepo) Put(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[key] = append([]byte(nil), value...)
	return nil
}

func (r *memoryKVRepo) Close() error { return nil }
