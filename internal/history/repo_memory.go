package history

import (
	"context"
	"sync"
)

// MemoryRepo keeps interactions in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	byOwner map[string][]Interaction
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byOwner: make(map[string][]Interaction)}
}

// Append stores the interaction. Only the newest maxListLimit entries per
// owner are retained, since nothing older can be listed.
func (r *MemoryRepo) Append(ctx context.Context, in Interaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	in, err := prepare(in)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	items := append(r.byOwner[in.OwnerID], in)
	if len(items) > maxListLimit {
		items = append(items[:0:0], items[len(items)-maxListLimit:]...)
	}
	r.byOwner[in.OwnerID] = items
	return nil
}

// ListByOwner returns the owner's interactions, newest first.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string, limit int) ([]Interaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = clampLimit(limit)
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.byOwner[ownerID]
	out := make([]Interaction, 0, min(limit, len(items)))
	for i := len(items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, items[i])
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
