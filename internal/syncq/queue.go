// Package syncq keeps the durable queue of document changes waiting to reach the remote
// backend, and the syncer that drains it.
package syncq

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/julianstephens/glowup/internal/clock"
	"github.com/julianstephens/glowup/internal/constants"
	apperr "github.com/julianstephens/glowup/internal/errors"
	"github.com/julianstephens/glowup/internal/logger"
	"github.com/julianstephens/glowup/internal/models"
)

type Kind string

const (
	KindSnapshot Kind = "snapshot"
	KindDelta    Kind = "delta"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusInflight Status = "inflight"
)

// Entry is one queued change. Snapshot payloads are whole documents.
type Entry struct {
	ID         string `json:"id"`
	Kind       Kind   `json:"kind"`
	Payload    string `json:"payload"`
	Status     Status `json:"status"`
	EnqueuedAt string `json:"enqueuedAt"`
	Attempts   int    `json:"attempts"`
	LastError  string `json:"lastError,omitempty"`
}

// KV is the slice of storage.Provider the queue persists through
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Queue is a FIFO of entries persisted under a single key. The front entry is the only
// one ever inflight.
type Queue struct {
	mu      sync.Mutex
	kv      KV
	clock   clock.Clock
	entropy io.Reader
	entries []Entry
}

func NewQueue(kv KV, c clock.Clock) *Queue {
	if c == nil {
		c = clock.Real{}
	}
	return &Queue{
		kv:      kv,
		clock:   c,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Load restores persisted entries. An entry left inflight by a crash goes back to pending.
func (q *Queue) Load() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	raw, ok, err := q.kv.Get(constants.SyncQueueKey)
	if err != nil {
		return fmt.Errorf("failed to read sync queue: %w", err)
	}
	q.entries = nil
	if !ok {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		logger.Warn("sync queue is unreadable, starting empty", "error", err)
		return nil
	}
	for i := range entries {
		if entries[i].Status == StatusInflight {
			entries[i].Status = StatusPending
		}
	}
	q.entries = entries
	return nil
}

func (q *Queue) persistLocked() error {
	if len(q.entries) == 0 {
		if err := q.kv.Remove(constants.SyncQueueKey); err != nil {
			return &apperr.PersistenceError{Op: "remove", Key: constants.SyncQueueKey, Err: err}
		}
		return nil
	}
	data, err := json.Marshal(q.entries)
	if err != nil {
		return err
	}
	if err := q.kv.Set(constants.SyncQueueKey, string(data)); err != nil {
		return &apperr.PersistenceError{Op: "set", Key: constants.SyncQueueKey, Err: err}
	}
	return nil
}

func (q *Queue) newEntryLocked(kind Kind, payload []byte) Entry {
	now := q.clock.Now()
	return Entry{
		ID:         ulid.MustNew(ulid.Timestamp(now), q.entropy).String(),
		Kind:       kind,
		Payload:    string(payload),
		Status:     StatusPending,
		EnqueuedAt: models.FormatTimestamp(now),
	}
}

// EnqueueSnapshot queues a whole document. It supersedes every pending entry, so at most one
// snapshot waits behind an inflight entry. The entry is kept in memory even when the queue
// cannot be persisted.
func (q *Queue) EnqueueSnapshot(payload []byte) (Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.Status == StatusInflight {
			kept = append(kept, e)
		}
	}
	e := q.newEntryLocked(KindSnapshot, payload)
	q.entries = append(kept, e)
	return e, q.persistLocked()
}

// Record queues snapshot. Its signature matches store.Listener.
func (q *Queue) Record(snapshot []byte) error {
	_, err := q.EnqueueSnapshot(snapshot)
	return err
}

// EnqueueDelta appends a change record behind everything already queued.
func (q *Queue) EnqueueDelta(payload []byte) (Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e := q.newEntryLocked(KindDelta, payload)
	q.entries = append(q.entries, e)
	return e, q.persistLocked()
}

// Entries returns a copy of the queue, front first
func (q *Queue) Entries() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Pending counts entries not yet handed to the backend
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, e := range q.entries {
		if e.Status == StatusPending {
			n++
		}
	}
	return n
}

// begin marks the front entry inflight and returns it
func (q *Queue) begin() (Entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 || q.entries[0].Status != StatusPending {
		return Entry{}, false
	}
	q.entries[0].Status = StatusInflight
	q.entries[0].Attempts++
	if err := q.persistLocked(); err != nil {
		logger.Warn("failed to persist sync queue", "error", err)
	}
	return q.entries[0], true
}

func (q *Queue) indexLocked(id string) int {
	for i, e := range q.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// complete drops an entry the backend accepted
func (q *Queue) complete(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	i := q.indexLocked(id)
	if i < 0 {
		return nil
	}
	q.entries = append(q.entries[:i], q.entries[i+1:]...)
	return q.persistLocked()
}

// fail returns an entry to pending, in place
func (q *Queue) fail(id string, cause error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	i := q.indexLocked(id)
	if i < 0 {
		return
	}
	q.entries[i].Status = StatusPending
	q.entries[i].LastError = cause.Error()
	if err := q.persistLocked(); err != nil {
		logger.Warn("failed to persist sync queue", "error", err)
	}
}

// Reset empties the queue and removes it from storage
func (q *Queue) Reset() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = nil
	return q.persistLocked()
}
