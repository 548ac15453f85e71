package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

// Storage is the persisted key-value store holding the session token and
// identity record, the SDK's analogue of the dashboard's browser storage.
// Implementations must tolerate concurrent access.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Storage keys. These mirror the names the dashboard persists client-side.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// MemoryStorage is an in-process Storage, used in tests and for callers
// that manage persistence themselves.
type MemoryStorage struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{m: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *MemoryStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// FileStorage persists the key-value map as a single JSON file. A missing
// or malformed file is treated as empty, never as an error: corrupt
// persisted state means "not logged in", not a crash.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage creates a FileStorage at the given path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// DefaultFileStorage stores credentials under the user's XDG config
// directory (quizdesk/credentials.json).
func DefaultFileStorage() (*FileStorage, error) {
	path, err := xdg.ConfigFile(filepath.Join("quizdesk", "credentials.json"))
	if err != nil {
		return nil, err
	}
	return NewFileStorage(path), nil
}

func (s *FileStorage) load() map[string]string {
	m := make(map[string]string)
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return m
	}
	// ignore decode errors: malformed state reads as absent
	_ = json.Unmarshal(raw, &m)
	return m
}

func (s *FileStorage) save(m map[string]string) error {
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

func (s *FileStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.load()[key]
	return v, ok
}

func (s *FileStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.load()
	m[key] = value
	return s.save(m)
}

func (s *FileStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.load()
	delete(m, key)
	return s.save(m)
}
