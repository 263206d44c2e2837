package storage

import "sync"

// MemoryStore is a map-backed DurableStore. State lives for the process only;
// intended for tests and ephemeral runs.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// NoopStore is the DurableStore for environments without persistent storage.
// Gets always miss and writes vanish; core logic never has to branch on the
// execution environment.
type NoopStore struct{}

func (NoopStore) Get(string) (string, bool) { return "", false }
func (NoopStore) Set(string, string)        {}
func (NoopStore) Remove(string)             {}
