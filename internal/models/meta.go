package models

import (
	"encoding/json"
	"time"

	"github.com/julianstephens/glowup/internal/constants"
)

// Meta carries the identity and audit timestamps shared by every stored record.
// It is embedded, so its fields flatten into the record's JSON.
type Meta struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt,omitempty"` // RFC3339
	UpdatedAt string `json:"updatedAt,omitempty"` // RFC3339, never before CreatedAt
}

// Entity is implemented by pointers to every record type held in a collection.
type Entity interface {
	GetID() string
	Identity() *Meta
	Validate() error
	Initialize(id string, now time.Time)
	Touch(now time.Time)
}

func (m Meta) GetID() string { return m.ID }

// Identity exposes the embedded Meta so stores can restore fields a patch must not change.
func (m *Meta) Identity() *Meta { return m }

// Initialize assigns a fresh identity and creation time.
func (m *Meta) Initialize(id string, now time.Time) {
	m.ID = id
	m.CreatedAt = FormatTimestamp(now)
	m.UpdatedAt = ""
}

// Touch stamps UpdatedAt with now, never moving it behind CreatedAt or a previous update.
func (m *Meta) Touch(now time.Time) {
	floor := latest(ParseTimestamp(m.CreatedAt), ParseTimestamp(m.UpdatedAt))
	if now.Before(floor) {
		now = floor
	}
	m.UpdatedAt = FormatTimestamp(now)
}

// FormatTimestamp renders t in the document's timestamp format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

// ParseTimestamp parses an RFC3339 timestamp, returning the zero time for empty or bad input.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// Clone returns a deep copy of v. Records are plain JSON data, so a round-trip copies every
// nested slice and map.
func Clone[T any](v T) T {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

func validDate(s string) bool {
	_, err := time.Parse(constants.DateFormat, s)
	return err == nil
}
