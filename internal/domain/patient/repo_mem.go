package patient

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medirecord/medirecord/internal/platform/store"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items []*Patient
	snap  store.Snapshot
	log   zerolog.Logger
}

func NewMemoryRepository(snap store.Snapshot, logger zerolog.Logger) *MemoryRepository {
	r := &MemoryRepository{snap: snap, log: logger, items: seedPatients()}
	var loaded []*Patient
	found, err := snap.Load(store.KeyPatients, &loaded)
	if err != nil {
		logger.Warn().Err(err).Msg("load patient registry, keeping seed data")
	}
	if found {
		r.items = loaded
	}
	return r
}

func (r *MemoryRepository) GetByID(_ context.Context, patientID string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p := r.findByIDLocked(patientID); p != nil {
		return copyPatient(p), nil
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) GetByIdentity(_ context.Context, identityID string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.items {
		if p.IdentityID == identityID {
			return copyPatient(p), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) Insert(_ context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.IdentityID == p.IdentityID {
			return ErrIdentityTaken
		}
	}
	r.items = append(r.items, copyPatient(p))
	r.persistLocked()
	return nil
}

func (r *MemoryRepository) AddAuthorizedDoctor(_ context.Context, patientID, doctorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.findByIDLocked(patientID)
	if p == nil {
		return ErrNotFound
	}
	if p.Authorized(doctorID) {
		return nil
	}
	p.AuthorizedDoctorIDs = append(p.AuthorizedDoctorIDs, doctorID)
	r.persistLocked()
	return nil
}

func (r *MemoryRepository) RemoveAuthorizedDoctor(_ context.Context, patientID, doctorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.findByIDLocked(patientID)
	if p == nil {
		return ErrNotFound
	}
	kept := p.AuthorizedDoctorIDs[:0]
	for _, id := range p.AuthorizedDoctorIDs {
		if id != doctorID {
			kept = append(kept, id)
		}
	}
	p.AuthorizedDoctorIDs = kept
	r.persistLocked()
	return nil
}

func (r *MemoryRepository) ListByAuthorizedDoctor(_ context.Context, doctorID string) ([]*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Patient
	for _, p := range r.items {
		if p.Authorized(doctorID) {
			out = append(out, copyPatient(p))
		}
	}
	return out, nil
}

func (r *MemoryRepository) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
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
	out := make([]*Patient, 0, end-offset)
	for _, p := range r.items[offset:end] {
		out = append(out, copyPatient(p))
	}
	return out, total, nil
}

func (r *MemoryRepository) ListAll(_ context.Context) ([]*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Patient, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, copyPatient(p))
	}
	return out, nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func (r *MemoryRepository) findByIDLocked(patientID string) *Patient {
	for _, p := range r.items {
		if p.PatientID == patientID {
			return p
		}
	}
	return nil
}

func (r *MemoryRepository) persistLocked() {
	if err := r.snap.Save(store.KeyPatients, r.items); err != nil {
		r.log.Warn().Err(err).Msg("persist patient registry")
	}
}

func copyPatient(p *Patient) *Patient {
	cp := *p
	cp.AuthorizedDoctorIDs = append([]string(nil), p.AuthorizedDoctorIDs...)
	return &cp
}
