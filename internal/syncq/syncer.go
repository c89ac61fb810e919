package syncq

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/julianstephens/glowup/internal/connectivity"
	"github.com/julianstephens/glowup/internal/constants"
	apperr "github.com/julianstephens/glowup/internal/errors"
	"github.com/julianstephens/glowup/internal/logger"
	"github.com/julianstephens/glowup/internal/models"
	"github.com/julianstephens/glowup/internal/remote"
)

// Target is the local side of a pull. ApplyRemote must call accept with its current
// lastUpdated while no local change can land, and replace nothing when accept says no.
type Target interface {
	ApplyRemote(data []byte, accept func(lastUpdated string) bool) (bool, error)
}

// Syncer drains a Queue into a remote backend, front to back, while the monitor reports
// online.
type Syncer struct {
	queue   *Queue
	backend remote.Backend
	monitor connectivity.Monitor
	key     string
	timeout time.Duration
	group   singleflight.Group
	trigger chan struct{}
}

// NewSyncer builds a syncer that writes snapshots under key. A zero timeout uses the
// default remote timeout.
func NewSyncer(q *Queue, backend remote.Backend, monitor connectivity.Monitor, key string, timeout time.Duration) *Syncer {
	if key == "" {
		key = constants.DocumentKey
	}
	if timeout <= 0 {
		timeout = constants.DefaultRemoteTimeout
	}
	return &Syncer{
		queue:   q,
		backend: backend,
		monitor: monitor,
		key:     key,
		timeout: timeout,
		trigger: make(chan struct{}, 1),
	}
}

func (s *Syncer) keyFor(e Entry) string {
	if e.Kind == KindDelta {
		return s.key + "/delta/" + e.ID
	}
	return s.key
}

// Drain sends queued entries until the queue is empty, a send fails or the connection
// drops. Concurrent calls share one drain. It returns the number of entries sent.
func (s *Syncer) Drain(ctx context.Context) (int, error) {
	v, err, shared := s.group.Do("drain", func() (any, error) {
		return s.drain(ctx)
	})
	if shared {
		logger.Debug("joined in-progress drain")
	}
	n, _ := v.(int)
	return n, err
}

func (s *Syncer) drain(ctx context.Context) (int, error) {
	if s.queue.Len() == 0 {
		return 0, nil
	}
	sent := 0
	for {
		if !s.monitor.Online() {
			return sent, apperr.ErrOffline
		}
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		e, ok := s.queue.begin()
		if !ok {
			return sent, nil
		}

		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := s.backend.Save(callCtx, s.keyFor(e), e.Payload)
		cancel()
		if err != nil {
			s.queue.fail(e.ID, err)
			logger.Warn("sync drain halted", "entry", e.ID, "attempts", e.Attempts, "error", err)
			return sent, &apperr.SyncError{EntryID: e.ID, Err: err}
		}
		if err := s.queue.complete(e.ID); err != nil {
			logger.Warn("sent entry could not be removed from storage", "entry", e.ID, "error", err)
		}
		sent++
		logger.Debug("sync entry sent", "entry", e.ID, "kind", e.Kind)
	}
}

// Trigger requests a drain from Run without blocking
func (s *Syncer) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Run drains on every transition to online and on every Trigger until ctx is done.
func (s *Syncer) Run(ctx context.Context) {
	updates, cancel := s.monitor.Subscribe()
	defer cancel()

	s.runDrain(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case online, ok := <-updates:
			if !ok {
				return
			}
			if online {
				s.runDrain(ctx)
			}
		case <-s.trigger:
			s.runDrain(ctx)
		}
	}
}

func (s *Syncer) runDrain(ctx context.Context) {
	if !s.monitor.Online() {
		return
	}
	n, err := s.Drain(ctx)
	if err != nil && !errors.Is(err, apperr.ErrOffline) && !errors.Is(err, context.Canceled) {
		logger.Warn("sync drain failed", "sent", n, "error", err)
		return
	}
	if n > 0 {
		logger.Info("sync drain complete", "sent", n)
	}
}

// Pull imports the remote document when it is newer than the local one. Local changes still
// waiting in the queue win, so nothing is imported while entries are pending.
func (s *Syncer) Pull(ctx context.Context, target Target) (bool, error) {
	if !s.monitor.Online() {
		return false, apperr.ErrOffline
	}
	if n := s.queue.Len(); n > 0 {
		logger.Info("skipping pull, local changes pending", "entries", n)
		return false, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rec, err := s.backend.Load(callCtx, s.key)
	if errors.Is(err, remote.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	at := remoteAt(rec)
	return target.ApplyRemote([]byte(rec.Value), func(lastUpdated string) bool {
		if n := s.queue.Len(); n > 0 {
			logger.Info("discarding pull, local changes queued meanwhile", "entries", n)
			return false
		}
		return at.After(models.ParseTimestamp(lastUpdated))
	})
}

// remoteAt prefers the document's own lastUpdated over the backend's write time, since a
// pushed snapshot is always written after it was stamped.
func remoteAt(rec remote.Record) time.Time {
	var head struct {
		LastUpdated string `json:"lastUpdated"`
	}
	if json.Unmarshal([]byte(rec.Value), &head) == nil {
		if t := models.ParseTimestamp(head.LastUpdated); !t.IsZero() {
			return t
		}
	}
	return rec.UpdatedAt
}
