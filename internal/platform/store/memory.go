package store

import (
	"encoding/json"
	"sync"
)

// memorySnapshot keeps serialized collections in a map. Used by tests and by
// `serve --ephemeral`, where data should not outlive the process.
type memorySnapshot struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// OpenMemory returns a Snapshot that never touches disk.
func OpenMemory() Snapshot {
	return &memorySnapshot{values: make(map[string][]byte)}
}

func (s *memorySnapshot) Load(key string, v interface{}) (bool, error) {
	s.mu.RLock()
	data, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *memorySnapshot) Save(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[key] = data
	s.mu.Unlock()
	return nil
}

func (s *memorySnapshot) Close() error { return nil }
