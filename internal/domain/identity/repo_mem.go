package identity

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medirecord/medirecord/internal/platform/store"
)

// MemoryRepository holds the identity registry in memory and mirrors it to
// the durable snapshot after every mutation. Construction seeds the fixture
// defaults; loading an existing snapshot replaces them wholesale, so
// repeated startups never duplicate seed data.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []*Identity
	snap  store.Snapshot
	log   zerolog.Logger
}

func NewMemoryRepository(snap store.Snapshot, logger zerolog.Logger) *MemoryRepository {
	r := &MemoryRepository{snap: snap, log: logger, items: seedIdentities()}
	var loaded []*Identity
	found, err := snap.Load(store.KeyIdentities, &loaded)
	if err != nil {
		logger.Warn().Err(err).Msg("load identity registry, keeping seed data")
	}
	if found {
		r.items = loaded
	}
	return r
}

func (r *MemoryRepository) GetByID(_ context.Context, identityID string) (*Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.items {
		if id.IdentityID == identityID {
			cp := *id
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) Insert(_ context.Context, id *Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.IdentityID == id.IdentityID {
			// Insert of a known ID keeps the stored record authoritative.
			return nil
		}
	}
	cp := *id
	r.items = append(r.items, &cp)
	r.persistLocked()
	return nil
}

func (r *MemoryRepository) List(_ context.Context, limit, offset int) ([]*Identity, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := len(r.items)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := make([]*Identity, 0, end-offset)
	for _, id := range r.items[offset:end] {
		cp := *id
		out = append(out, &cp)
	}
	return out, total, nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

// persistLocked writes the full registry under its snapshot key. Persistence
// failure is non-fatal: the in-memory state keeps serving, unpersisted.
func (r *MemoryRepository) persistLocked() {
	if err := r.snap.Save(store.KeyIdentities, r.items); err != nil {
		r.log.Warn().Err(err).Msg("persist identity registry")
	}
}
