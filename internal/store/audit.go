package store

import (
	"encoding/json"

	"github.com/oklog/ulid/v2"

	"github.com/julianstephens/glowup/internal/constants"
	"github.com/julianstephens/glowup/internal/logger"
	"github.com/julianstephens/glowup/internal/models"
)

// AuditEntry records one committed mutation
type AuditEntry struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Kind      string `json:"kind"`
	EntityID  string `json:"entityId,omitempty"`
}

// AuditLog returns the most recent mutations, oldest first
func (s *Store) AuditLog() []AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}

func (s *Store) readAudit() ([]AuditEntry, error) {
	raw, ok, err := s.kv.Get(constants.AuditLogKey)
	if err != nil || !ok {
		return nil, err
	}
	var entries []AuditEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// recordLocked appends to the audit log. The log is best effort: a failed write is logged
// and never fails the mutation that produced it.
func (s *Store) recordLocked(action, kind, entityID string) {
	now := s.clock.Now()
	s.audit = append(s.audit, AuditEntry{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Timestamp: models.FormatTimestamp(now),
		Action:    action,
		Kind:      kind,
		EntityID:  entityID,
	})
	if over := len(s.audit) - constants.AuditLogLimit; over > 0 {
		s.audit = append([]AuditEntry(nil), s.audit[over:]...)
	}

	data, err := json.Marshal(s.audit)
	if err != nil {
		logger.Warn("failed to encode audit log", "error", err)
		return
	}
	if err := s.kv.Set(constants.AuditLogKey, string(data)); err != nil {
		logger.Warn("failed to persist audit log", "error", err)
	}
}
