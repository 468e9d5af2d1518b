// ABOUTME: File-backed store persisting CLI session state as JSON
// ABOUTME: Holds tokens and cached user under the same keys the web session uses

package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists keys to a single JSON file. Tokens end up in this
// file, so it is created with owner-only permissions.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// NewFileStore loads (or initializes) the store at path.
// A missing or unreadable file starts empty rather than failing; a
// corrupt session file behaves like a logged-out state.
func NewFileStore(path string) *FileStore {
	s := &FileStore{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		slog.Warn("Session file is corrupt, starting fresh", "path", path, "error", err)
		s.data = make(map[string]string)
	}
	return s
}

// DefaultSessionPath returns the per-user session file location.
func DefaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "ecofinds", "session.json")
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.data[key]
	return val, ok
}

func (s *FileStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	s.persist()
}

func (s *FileStore) Delete(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	s.persist()
}

func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string)
	s.persist()
}

// persist writes the current map to disk. Callers hold s.mu.
func (s *FileStore) persist() {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		slog.Warn("Failed to encode session file", "error", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		slog.Warn("Failed to create session directory", "error", err)
		return
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		slog.Warn("Failed to write session file", "path", s.path, "error", err)
	}
}
