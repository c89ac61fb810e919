package storage

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// JSONStore keeps each key in its own file under a directory. Writes go through a
// temporary file and rename, so a crash never leaves a half-written value.
type JSONStore struct {
	dir    string
	loaded bool
}

func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{dir: dir}
}

func (s *JSONStore) Init() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	s.loaded = true
	return nil
}

func (s *JSONStore) Load() error {
	info, err := os.Stat(s.dir)
	if err != nil || !info.IsDir() {
		return ErrNotInitialized
	}
	s.loaded = true
	return nil
}

func (s *JSONStore) Close() error {
	s.loaded = false
	return nil
}

// fileFor maps a key to a file name that is safe on every filesystem
func (s *JSONStore) fileFor(key string) string {
	name := key
	if strings.ContainsAny(key, `/\:*?"<>|`) || strings.HasPrefix(key, ".") {
		name = "b64-" + base64.RawURLEncoding.EncodeToString([]byte(key))
	}
	return filepath.Join(s.dir, name+".json")
}

func (s *JSONStore) Get(key string) (string, bool, error) {
	if !s.loaded {
		return "", false, ErrNotInitialized
	}
	data, err := os.ReadFile(s.fileFor(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return string(data), true, nil
}

func (s *JSONStore) Set(key, value string) error {
	if !s.loaded {
		return ErrNotInitialized
	}
	path := s.fileFor(key)
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (s *JSONStore) Remove(key string) error {
	if !s.loaded {
		return ErrNotInitialized
	}
	if err := os.Remove(s.fileFor(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}

func (s *JSONStore) Path() string {
	return s.dir
}
