package access

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medirecord/medirecord/internal/platform/store"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items []*Request
	snap  store.Snapshot
	log   zerolog.Logger
}

func NewMemoryRepository(snap store.Snapshot, logger zerolog.Logger) *MemoryRepository {
	r := &MemoryRepository{snap: snap, log: logger}
	var loaded []*Request
	found, err := snap.Load(store.KeyAccessRequests, &loaded)
	if err != nil {
		logger.Warn().Err(err).Msg("load access request registry")
	}
	if found {
		r.items = loaded
	}
	return r
}

func (r *MemoryRepository) GetByID(_ context.Context, requestID string) (*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, req := range r.items {
		if req.RequestID == requestID {
			cp := *req
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) Insert(_ context.Context, req *Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *req
	r.items = append(r.items, &cp)
	r.persistLocked()
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, req *Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.items {
		if existing.RequestID == req.RequestID {
			cp := *req
			r.items[i] = &cp
			r.persistLocked()
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepository) FindPending(_ context.Context, doctorID, patientID string) (*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, req := range r.items {
		if req.DoctorID == doctorID && req.PatientID == patientID && req.Status == StatusPending {
			cp := *req
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) ListPendingByPatient(_ context.Context, patientID string) ([]*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Request
	for _, req := range r.items {
		if req.PatientID == patientID && req.Status == StatusPending {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MemoryRepository) ListByDoctor(_ context.Context, doctorID string) ([]*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Request
	for _, req := range r.items {
		if req.DoctorID == doctorID {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func (r *MemoryRepository) persistLocked() {
	if err := r.snap.Save(store.KeyAccessRequests, r.items); err != nil {
		r.log.Warn().Err(err).Msg("persist access request registry")
	}
}
