package settings

import (
	"context"
	"sync"
)

type MemoryRepository struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{values: make(map[string][]byte)}
}

func (r *MemoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clone(r.values[key]), nil
}

func (r *MemoryRepository) Set(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = clone(value)
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, key string, fn UpdateFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := fn(clone(r.values[key]))
	if err != nil {
		return err
	}
	r.values[key] = clone(next)
	return nil
}

func (r *MemoryRepository) Close() error { return nil }

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
