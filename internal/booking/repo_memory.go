package booking

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory repository useful for tests.
type MemoryRepo struct {
	mu    sync.Mutex
	items map[string]Request
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]Request)}
}

func (r *MemoryRepo) Insert(ctx context.Context, b Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[b.ID] = b
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Request, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	return b, ok, nil
}

func (r *MemoryRepo) List(ctx context.Context, status Status) ([]Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Request
	for _, b := range r.items {
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id string, status Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok {
		return false, nil
	}
	b.Status = status
	b.UpdatedAt = time.Now().UTC()
	r.items[id] = b
	return true, nil
}
