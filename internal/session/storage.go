package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenStorage persists the bearer token across restarts. The token is the
// only durable state the panel owns.
type TokenStorage interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStorage keeps the token in a single file, created with 0600.
type FileTokenStorage struct {
	path string
}

func NewFileTokenStorage(path string) *FileTokenStorage {
	return &FileTokenStorage{path: path}
}

func (f *FileTokenStorage) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (f *FileTokenStorage) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func (f *FileTokenStorage) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// MemoryTokenStorage is an in-process TokenStorage. SSH sessions use it so
// each connection authenticates fresh; tests use it to avoid the filesystem.
type MemoryTokenStorage struct {
	token string
}

func NewMemoryTokenStorage(token string) *MemoryTokenStorage {
	return &MemoryTokenStorage{token: token}
}

func (m *MemoryTokenStorage) Load() (string, error) { return m.token, nil }

func (m *MemoryTokenStorage) Save(token string) error {
	m.token = token
	return nil
}

func (m *MemoryTokenStorage) Clear() error {
	m.token = ""
	return nil
}
