package remote

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Backend that counts calls and can be told to fail, for tests and
// for the server's default backing store.
type Memory struct {
	mu      sync.Mutex
	data    map[string]Record
	now     func() time.Time
	failErr error
	saves   int
	loads   int
	pings   int
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]Record), now: time.Now}
}

// UseClock replaces the time source for UpdatedAt stamps
func (m *Memory) UseClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

// FailWith makes every call return err until called again with nil
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	m.failErr = err
	m.mu.Unlock()
}

// Calls returns the number of Save, Load and Ping calls made so far, failed ones included
func (m *Memory) Calls() (saves, loads, pings int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves, m.loads, m.pings
}

func (m *Memory) Load(_ context.Context, key string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.failErr != nil {
		return Record{}, m.failErr
	}
	r, ok := m.data[key]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

func (m *Memory) Save(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.failErr != nil {
		return m.failErr
	}
	m.data[key] = Record{Value: value, UpdatedAt: m.now().UTC()}
	return nil
}

func (m *Memory) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pings++
	return m.failErr
}

func (m *Memory) Close() error { return nil }

// Keys returns the stored keys
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}
