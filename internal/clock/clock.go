// Package clock provides the time source used by the store, archiver and schedulers.
package clock

import (
	"sync"
	"time"

	"github.com/julianstephens/glowup/internal/constants"
)

// Clock reports the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Manual is a settable clock for tests and simulations.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a Manual clock positioned at t.
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

// Fixed parses a YYYY-MM-DD date (local noon) into a Manual clock. It panics on bad input.
func Fixed(date string) *Manual {
	d, err := time.ParseInLocation(constants.DateFormat, date, time.Local)
	if err != nil {
		panic(err)
	}
	return NewManual(d.Add(12 * time.Hour))
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// AddDays moves the clock by n calendar days, keeping the local time of day.
func (m *Manual) AddDays(n int) {
	m.mu.Lock()
	m.now = m.now.AddDate(0, 0, n)
	m.mu.Unlock()
}

// Today returns the local calendar date of c as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().Format(constants.DateFormat)
}

// ParseDate parses a YYYY-MM-DD date at local midnight.
func ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(constants.DateFormat, date, time.Local)
}

// AddDays shifts a YYYY-MM-DD date by n days.
func AddDays(date string, n int) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// Month returns the YYYY-MM month key of a YYYY-MM-DD date.
func Month(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}
