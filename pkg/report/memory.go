package report

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and ephemeral use.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]*Report
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]*Report)}
}

// Save persists one report.
func (s *MemoryStore) Save(ctx context.Context, r *Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *r
	s.reports[r.ID] = &clone
	return nil
}

// Get returns a report by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *r
	return &clone, nil
}

// List returns reports newest first.
func (s *MemoryStore) List(ctx context.Context, opts ListOptions) ([]*Report, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	s.mu.RLock()
	all := make([]*Report, 0, len(s.reports))
	for _, r := range s.reports {
		if opts.OnlyInvalid && r.Valid {
			continue
		}
		all = append(all, r)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].RecordedAt.Equal(all[j].RecordedAt) {
			return all[i].RecordedAt.After(all[j].RecordedAt)
		}
		return all[i].ID < all[j].ID
	})

	if opts.Offset >= len(all) {
		return nil, nil
	}
	all = all[opts.Offset:]
	if len(all) > limit {
		all = all[:limit]
	}

	out := make([]*Report, len(all))
	for i, r := range all {
		clone := *r
		out[i] = &clone
	}
	return out, nil
}

// Count returns the number of stored reports.
func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.reports)), nil
}

// DeleteOlderThan removes reports recorded before the cutoff.
func (s *MemoryStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for id, r := range s.reports {
		if r.RecordedAt.Before(cutoff) {
			delete(s.reports, id)
			deleted++
		}
	}
	return deleted, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
