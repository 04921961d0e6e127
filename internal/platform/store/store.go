// Package store implements the durable registry snapshot: every collection
// in the system is serialized as a whole JSON array under a well-known key
// in a local LevelDB database. Writes replace the entire value; there are
// no partial updates. A read of a missing or corrupt key falls back to the
// caller's in-memory defaults rather than failing.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/syndtr/goleveldb/leveldb"
)

// Registry keys. Each key holds one fully serialized collection.
const (
	KeyIdentities     = "identityRegistry"
	KeyPatients       = "patientRegistry"
	KeyDoctors        = "doctorRegistry"
	KeyMedicalHistory = "medicalHistoryRegistry"
	KeyAccessRequests = "accessRequestRegistry"
	KeyPatientFiles   = "patientFileRegistry"
)

// Snapshot is the persistence boundary the repositories talk to.
type Snapshot interface {
	// Load unmarshals the value under key into v. It reports false when the
	// key is absent. A corrupt value is logged and treated as absent so that
	// callers keep their seeded defaults.
	Load(key string, v interface{}) (bool, error)
	// Save marshals v and replaces the value under key.
	Save(key string, v interface{}) error
	Close() error
}

type levelSnapshot struct {
	db  *leveldb.DB
	log zerolog.Logger
}

// Open opens (or creates) the snapshot database at path.
func Open(path string, logger zerolog.Logger) (Snapshot, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	return &levelSnapshot{db: db, log: logger}, nil
}

func (s *levelSnapshot) Load(key string, v interface{}) (bool, error) {
	data, err := s.db.Get([]byte(key), nil)
	if err == leveldb.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warn().Str("key", key).Err(err).Msg("corrupt snapshot value, keeping defaults")
		return false, nil
	}
	return true, nil
}

func (s *levelSnapshot) Save(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.db.Put([]byte(key), data, nil); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *levelSnapshot) Close() error {
	return s.db.Close()
}
