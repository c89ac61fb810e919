// Package archive files each elapsed day's habit performance into its month's chart.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/glowup/internal/clock"
	"github.com/julianstephens/glowup/internal/constants"
	"github.com/julianstephens/glowup/internal/logger"
)

// Target is the part of the entity store the archiver writes to
type Target interface {
	LastSeenDate() (string, error)
	SetLastSeenDate(date string) error
	ArchiveDates(dates []string) (int, error)
	// FirstActivityDate is the earliest date with recorded habit activity, or ""
	FirstActivityDate() string
}

type Archiver struct {
	target Target
	clock  clock.Clock
}

func New(target Target, c clock.Clock) *Archiver {
	if c == nil {
		c = clock.Real{}
	}
	return &Archiver{target: target, clock: c}
}

// PendingDates lists the dates to archive when the last check ran on lastSeen and the
// current date is today: every date from lastSeen up to, but not including, today. It is
// empty when today is not after lastSeen.
func PendingDates(lastSeen, today string) ([]string, error) {
	if lastSeen == "" || lastSeen >= today {
		return nil, nil
	}
	from, err := clock.ParseDate(lastSeen)
	if err != nil {
		return nil, fmt.Errorf("invalid last seen date %q: %w", lastSeen, err)
	}
	to, err := clock.ParseDate(today)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", today, err)
	}

	var dates []string
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(constants.DateFormat))
	}
	return dates, nil
}

// Check archives every day that has elapsed since the previous check and returns how many
// were filed. Without a previous check it starts from the earliest recorded activity; with
// no history at all it only records today. lastSeenDate moves only after the filed stats
// were written.
func (a *Archiver) Check() (int, error) {
	today := clock.Today(a.clock)
	lastSeen, err := a.target.LastSeenDate()
	if err != nil {
		return 0, err
	}
	if lastSeen == "" {
		lastSeen = a.target.FirstActivityDate()
		if lastSeen == "" || lastSeen >= today {
			return 0, a.target.SetLastSeenDate(today)
		}
	}
	if lastSeen >= today {
		return 0, nil
	}

	dates, err := PendingDates(lastSeen, today)
	if err != nil {
		logger.Warn("resetting unreadable last seen date", "value", lastSeen, "error", err)
		return 0, a.target.SetLastSeenDate(today)
	}

	filed, err := a.target.ArchiveDates(dates)
	if err != nil {
		return filed, fmt.Errorf("failed to archive %d days: %w", len(dates), err)
	}
	if err := a.target.SetLastSeenDate(today); err != nil {
		return filed, err
	}
	logger.Info("archived daily stats", "from", dates[0], "to", dates[len(dates)-1], "filed", filed)
	return filed, nil
}

// Run checks once immediately and then on every tick of interval until ctx is done.
func (a *Archiver) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = constants.DefaultArchiveInterval
	}
	if _, err := a.Check(); err != nil {
		logger.Error("archive check failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.Check(); err != nil {
				logger.Error("archive check failed", "error", err)
			}
		}
	}
}
