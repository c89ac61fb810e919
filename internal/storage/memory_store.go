package storage

import (
	"errors"
	"sync"
)

// ErrQuotaExceeded mirrors a full browser-style storage area
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// MemoryStore is a volatile Provider with optional quota and failure injection, used by tests
// and by the "memory" driver.
type MemoryStore struct {
	mu      sync.Mutex
	data    map[string]string
	quota   int
	failErr error
	writes  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Init() error  { return nil }
func (s *MemoryStore) Load() error  { return nil }
func (s *MemoryStore) Close() error { return nil }
func (s *MemoryStore) Path() string { return ":memory:" }

// SetQuota limits the total stored bytes; 0 disables the limit
func (s *MemoryStore) SetQuota(bytes int) {
	s.mu.Lock()
	s.quota = bytes
	s.mu.Unlock()
}

// FailWrites makes every Set and Remove return err until called again with nil
func (s *MemoryStore) FailWrites(err error) {
	s.mu.Lock()
	s.failErr = err
	s.mu.Unlock()
}

// Writes counts successful Set calls
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	if s.quota > 0 {
		used := 0
		for k, v := range s.data {
			if k != key {
				used += len(k) + len(v)
			}
		}
		if used+len(key)+len(value) > s.quota {
			return ErrQuotaExceeded
		}
	}
	s.data[key] = value
	s.writes++
	return nil
}

func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	delete(s.data, key)
	return nil
}
