// Package storage provides DurableStore implementations: a JSON file on disk
// for desktop use, a Redis-backed store for kiosk deployments, an in-memory
// store for tests, and a no-op store for environments without persistence.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// FileStore persists key/value pairs as a single JSON document on disk.
// Writes go through a temp file plus rename so a crash mid-write never leaves
// a half-written document. I/O errors are logged and swallowed: durable
// storage failing must degrade, not break, the client.
type FileStore struct {
	path string
	log  zerolog.Logger

	mu     sync.Mutex
	values map[string]string
}

// NewFileStore loads the document at path, starting empty when the file is
// missing or unreadable.
func NewFileStore(path string, log zerolog.Logger) *FileStore {
	s := &FileStore{path: path, log: log, values: map[string]string{}}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("state file unreadable, starting empty")
		}
		return s
	}
	if err := json.Unmarshal(raw, &s.values); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("state file corrupt, starting empty")
		s.values = map[string]string{}
	}
	return s
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.flushLocked()
}

func (s *FileStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.flushLocked()
}

func (s *FileStore) flushLocked() {
	raw, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		s.log.Error().Err(err).Msg("state marshal failed")
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("state dir create failed")
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		s.log.Error().Err(err).Str("path", tmp).Msg("state write failed")
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("state rename failed")
	}
}
