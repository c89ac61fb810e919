// Package store owns the application document. All reads return copies and all writes go
// through the mutators, which validate, persist and notify subscribers in call order.
package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/julianstephens/glowup/internal/clock"
	"github.com/julianstephens/glowup/internal/constants"
	apperr "github.com/julianstephens/glowup/internal/errors"
	"github.com/julianstephens/glowup/internal/logger"
	"github.com/julianstephens/glowup/internal/models"
	"github.com/julianstephens/glowup/internal/srs"
	"github.com/julianstephens/glowup/internal/storage"
)

// Listener receives the serialized document after every successful durable write. An error
// leaves the store dirty so Flush hands the snapshot over again.
type Listener func(snapshot []byte) error

type Store struct {
	mu        sync.Mutex
	kv        storage.Provider
	clock     clock.Clock
	srs       *srs.Scheduler
	newID     func() string
	doc       models.Document
	audit     []AuditEntry
	loaded    bool
	dirty     bool
	listeners []Listener
}

type Option func(*Store)

func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator replaces the uuid generator, for deterministic tests
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func New(kv storage.Provider, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		clock: clock.Real{},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.srs = srs.New(s.clock)
	return s
}

// Load reads the persisted document, or starts from the default document when none exists.
// A document that cannot be parsed is copied aside under "<key>.corrupt" and replaced.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	raw, ok, err := s.kv.Get(constants.DocumentKey)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	doc := models.NewDocument(now)
	if ok {
		parsed, err := models.ParseDocument([]byte(raw), now)
		if err != nil {
			logger.Warn("stored document is unreadable, starting fresh", "error", err)
			if err := s.kv.Set(constants.DocumentKey+".corrupt", raw); err != nil {
				return &apperr.PersistenceError{Op: "set", Key: constants.DocumentKey + ".corrupt", Err: err}
			}
		} else {
			doc = parsed
		}
	}

	audit, err := s.readAudit()
	if err != nil {
		logger.Warn("audit log is unreadable, starting a new one", "error", err)
	}

	s.doc = doc
	s.audit = audit
	s.loaded = true
	s.dirty = false
	logger.Debug("store loaded", "habits", len(doc.Habits), "lastUpdated", doc.LastUpdated)
	return nil
}

// Subscribe registers fn to receive every committed snapshot. Listeners run synchronously
// under the store lock and must not call back into the store.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) Clock() clock.Clock { return s.clock }

func (s *Store) Today() string { return clock.Today(s.clock) }

// Snapshot returns a copy of the whole document
func (s *Store) Snapshot() (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return models.Document{}, apperr.ErrStoreNotLoaded
	}
	return models.Clone(s.doc), nil
}

// LastUpdated returns the document's lastUpdated timestamp
func (s *Store) LastUpdated() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.LastUpdated
}

// Dirty reports whether the in-memory document has changes the last durable write lost
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Flush retries a failed durable write
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return apperr.ErrStoreNotLoaded
	}
	if !s.dirty {
		return nil
	}
	return s.commitLocked("flush", "document", "", true)
}

// commitLocked persists the document and, when notify is set, hands the snapshot to the
// listeners. On a failed write the in-memory document is kept and marked dirty.
func (s *Store) commitLocked(action, kind, entityID string, notify bool) error {
	s.doc.LastUpdated = models.FormatTimestamp(s.clock.Now())
	data, err := s.doc.Marshal()
	if err != nil {
		s.dirty = true
		return &apperr.PersistenceError{Op: "marshal", Key: constants.DocumentKey, Err: err}
	}
	if err := s.kv.Set(constants.DocumentKey, string(data)); err != nil {
		s.dirty = true
		logger.Error("failed to persist document", "action", action, "kind", kind, "error", err)
		return &apperr.PersistenceError{Op: "set", Key: constants.DocumentKey, Err: err}
	}
	s.dirty = false

	if action != "flush" {
		s.recordLocked(action, kind, entityID)
	}
	if notify {
		for _, fn := range s.listeners {
			if err := fn(data); err != nil {
				s.dirty = true
				logger.Error("subscriber rejected snapshot", "action", action, "error", err)
				return &apperr.PersistenceError{Op: "notify", Key: constants.DocumentKey, Err: err}
			}
		}
	}
	return nil
}

// Save writes the current document unconditionally, without notifying subscribers
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLoaded(); err != nil {
		return err
	}
	return s.commitLocked("save", "document", "", false)
}

func (s *Store) checkLoaded() error {
	if !s.loaded {
		return apperr.ErrStoreNotLoaded
	}
	return nil
}

// ExportData serializes the full document
func (s *Store) ExportData() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLoaded(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(s.doc, "", "  ")
}

// ImportData replaces the whole document with a snapshot. Missing sections become empty
// collections; anything other than a JSON object is rejected without changing state.
func (s *Store) ImportData(data []byte) error {
	return s.replace(data, "import", true)
}

// ApplyRemote replaces the document with one pulled from the remote backend when the store
// holds no unsaved changes and accept, called under the store lock with the local
// lastUpdated, agrees. Subscribers are not
// notified, so the pulled state is not queued back to the remote.
func (s *Store) ApplyRemote(data []byte, accept func(lastUpdated string) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLoaded(); err != nil {
		return false, err
	}
	// unsaved local changes win like queued ones
	if s.dirty || (accept != nil && !accept(s.doc.LastUpdated)) {
		return false, nil
	}
	if err := s.replaceLocked(data, "pull", false); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) replace(data []byte, action string, notify bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLoaded(); err != nil {
		return err
	}
	return s.replaceLocked(data, action, notify)
}

func (s *Store) replaceLocked(data []byte, action string, notify bool) error {
	doc, err := models.ParseDocument(data, s.clock.Now())
	if err != nil {
		return err
	}
	s.doc = doc
	return s.commitLocked(action, "document", "", notify)
}

// Reset discards the document, the audit log and the archive marker, in memory and on
// disk, and starts again from the default document.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range []string{constants.DocumentKey, constants.AuditLogKey, constants.LastSeenKey} {
		if err := s.kv.Remove(key); err != nil {
			return &apperr.PersistenceError{Op: "remove", Key: key, Err: err}
		}
	}
	s.doc = models.NewDocument(s.clock.Now())
	s.audit = nil
	s.dirty = false
	s.loaded = true
	return nil
}
