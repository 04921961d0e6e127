package history

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medirecord/medirecord/internal/platform/store"
)

// MemoryRepository owns two registry keys: the entry collection and the
// derived per-patient file index. Both are written together under one lock
// so the two lists cannot drift apart.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []*Entry
	files   []*FileRecord
	snap    store.Snapshot
	log     zerolog.Logger
}

func NewMemoryRepository(snap store.Snapshot, logger zerolog.Logger) *MemoryRepository {
	r := &MemoryRepository{snap: snap, log: logger}
	r.entries = seedEntries()
	r.files = filesFromEntries(r.entries)

	var loadedEntries []*Entry
	found, err := snap.Load(store.KeyMedicalHistory, &loadedEntries)
	if err != nil {
		logger.Warn().Err(err).Msg("load history registry, keeping seed data")
	}
	if found {
		r.entries = loadedEntries
		// Rebuild the index unless a persisted one exists.
		r.files = filesFromEntries(r.entries)
	}
	var loadedFiles []*FileRecord
	if found, _ := snap.Load(store.KeyPatientFiles, &loadedFiles); found {
		r.files = loadedFiles
	}
	return r
}

func (r *MemoryRepository) Append(_ context.Context, e *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := copyEntry(e)
	r.entries = append(r.entries, cp)
	r.indexDocumentsLocked(cp)
	r.persistLocked()
	return nil
}

func (r *MemoryRepository) ListByPatient(_ context.Context, patientID string) ([]*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Entry
	for _, e := range r.entries {
		if e.PatientID == patientID {
			out = append(out, copyEntry(e))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (r *MemoryRepository) ListFiles(_ context.Context, patientID string) ([]File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.files {
		if rec.PatientID == patientID {
			return append([]File(nil), rec.Files...), nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries), nil
}

func (r *MemoryRepository) indexDocumentsLocked(e *Entry) {
	if len(e.Documents) == 0 {
		return
	}
	var rec *FileRecord
	for _, existing := range r.files {
		if existing.PatientID == e.PatientID {
			rec = existing
			break
		}
	}
	if rec == nil {
		rec = &FileRecord{PatientID: e.PatientID}
		r.files = append(r.files, rec)
	}
	for _, d := range e.Documents {
		rec.Files = append(rec.Files, File{
			Name: d.Name,
			Type: fileType(d.Name),
			Date: e.Date,
			URL:  d.URL,
		})
	}
}

func (r *MemoryRepository) persistLocked() {
	if err := r.snap.Save(store.KeyMedicalHistory, r.entries); err != nil {
		r.log.Warn().Err(err).Msg("persist history registry")
	}
	if err := r.snap.Save(store.KeyPatientFiles, r.files); err != nil {
		r.log.Warn().Err(err).Msg("persist file registry")
	}
}

func filesFromEntries(entries []*Entry) []*FileRecord {
	byPatient := make(map[string]*FileRecord)
	var out []*FileRecord
	for _, e := range entries {
		for _, d := range e.Documents {
			rec := byPatient[e.PatientID]
			if rec == nil {
				rec = &FileRecord{PatientID: e.PatientID}
				byPatient[e.PatientID] = rec
				out = append(out, rec)
			}
			rec.Files = append(rec.Files, File{
				Name: d.Name,
				Type: fileType(d.Name),
				Date: e.Date,
				URL:  d.URL,
			})
		}
	}
	return out
}

func copyEntry(e *Entry) *Entry {
	cp := *e
	cp.Documents = append([]Document(nil), e.Documents...)
	return &cp
}
