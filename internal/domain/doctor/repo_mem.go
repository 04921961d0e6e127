package doctor

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medirecord/medirecord/internal/platform/store"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items []*Doctor
	snap  store.Snapshot
	log   zerolog.Logger
}

func NewMemoryRepository(snap store.Snapshot, logger zerolog.Logger) *MemoryRepository {
	r := &MemoryRepository{snap: snap, log: logger, items: seedDoctors()}
	var loaded []*Doctor
	found, err := snap.Load(store.KeyDoctors, &loaded)
	if err != nil {
		logger.Warn().Err(err).Msg("load doctor registry, keeping seed data")
	}
	if found {
		r.items = loaded
	}
	return r
}

func (r *MemoryRepository) GetByID(_ context.Context, doctorID string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.items {
		if d.DoctorID == doctorID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) GetByIdentity(_ context.Context, identityID string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.items {
		if d.IdentityID == identityID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) Insert(_ context.Context, d *Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.IdentityID == d.IdentityID {
			return ErrIdentityTaken
		}
	}
	cp := *d
	r.items = append(r.items, &cp)
	r.persistLocked()
	return nil
}

func (r *MemoryRepository) List(_ context.Context, limit, offset int) ([]*Doctor, int, error) {
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
	out := make([]*Doctor, 0, end-offset)
	for _, d := range r.items[offset:end] {
		cp := *d
		out = append(out, &cp)
	}
	return out, total, nil
}

func (r *MemoryRepository) ListAll(_ context.Context) ([]*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Doctor, 0, len(r.items))
	for _, d := range r.items {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func (r *MemoryRepository) persistLocked() {
	if err := r.snap.Save(store.KeyDoctors, r.items); err != nil {
		r.log.Warn().Err(err).Msg("persist doctor registry")
	}
}
