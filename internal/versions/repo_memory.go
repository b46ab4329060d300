package versions

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory repository useful for tests.
// It is not intended for production use.
type MemoryRepo struct {
	mu        sync.Mutex
	versions  map[string]Version
	approvals map[string][]Approval // keyed by version id
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		versions:  make(map[string]Version),
		approvals: make(map[string][]Approval),
	}
}

func (r *MemoryRepo) Insert(ctx context.Context, v Version) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.Number == 0 {
		max := 0
		for _, existing := range r.versions {
			if existing.DocumentID == v.DocumentID && existing.Number > max {
				max = existing.Number
			}
		}
		v.Number = max + 1
	}
	r.versions[v.ID] = v
	return v.Number, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Version, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.versions[id]
	return v, ok, nil
}

func (r *MemoryRepo) ListByDocument(ctx context.Context, documentID string) ([]Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Version
	for _, v := range r.versions {
		if v.DocumentID == documentID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.versions[id]
	if !ok {
		return nil
	}
	v.Status = status
	v.UpdatedAt = updatedAt
	r.versions[id] = v
	return nil
}

func (r *MemoryRepo) InsertApproval(ctx context.Context, a Approval) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Mirror the unique (version_id, locale) constraint.
	for _, existing := range r.approvals[a.VersionID] {
		if existing.Locale == a.Locale {
			return nil
		}
	}
	r.approvals[a.VersionID] = append(r.approvals[a.VersionID], a)
	return nil
}

func (r *MemoryRepo) ListApprovals(ctx context.Context, versionID string) ([]Approval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Approval, len(r.approvals[versionID]))
	copy(out, r.approvals[versionID])
	return out, nil
}
