package store

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps snapshots in process memory. Nothing survives a
// restart; it backs tests and `--store memory`.
type MemoryRepository struct {
	mu      sync.RWMutex
	data    map[string][]byte
	updated map[string]time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: map[string][]byte{}, updated: map[string]time.Time{}}
}

func (r *MemoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return bytes.Clone(v), nil
}

func (r *MemoryRepository) Put(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[key] = bytes.Clone(value)
	r.updated[key] = time.Now()
	return nil
}

func (r *MemoryRepository) PutAll(_ context.Context, values map[string][]byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for k, v := range values {
		r.data[k] = bytes.Clone(v)
		r.updated[k] = now
	}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range keys {
		delete(r.data, k)
		delete(r.updated, k)
	}
	return nil
}

func (r *MemoryRepository) Inventory(_ context.Context) ([]KeyInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]KeyInfo, 0, len(r.data))
	for k := range r.data {
		out = append(out, KeyInfo{Key: k, UpdatedAt: r.updated[k]})
	}
	sortInventory(out)
	return out, nil
}

func (r *MemoryRepository) Close() error { return nil }
