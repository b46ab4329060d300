package documents

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory repository useful for tests.
// It is not intended for production use.
type MemoryRepo struct {
	mu    sync.Mutex
	items map[string]Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]Document)}
}

func (r *MemoryRepo) Insert(ctx context.Context, d Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[d.ID] = d
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Document, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[id]
	return d, ok, nil
}

func (r *MemoryRepo) List(ctx context.Context, caseID string) ([]Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Document
	for _, d := range r.items {
		if caseID != "" && (d.CaseID == nil || *d.CaseID != caseID) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, d Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[d.ID] = d
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *MemoryRepo) UnlinkCase(ctx context.Context, caseID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, d := range r.items {
		if d.CaseID != nil && *d.CaseID == caseID {
			d.CaseID = nil
			d.IsCaseLinked = false
			r.items[id] = d
			n++
		}
	}
	return n, nil
}
