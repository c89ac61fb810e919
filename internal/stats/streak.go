// Package stats derives aggregates from the entity store's collections. Every function is
// pure: inputs are copies and nothing is written back.
package stats

import (
	"time"

	"github.com/julianstephens/glowup/internal/clock"
	"github.com/julianstephens/glowup/internal/constants"
	"github.com/julianstephens/glowup/internal/models"
)

// HabitStreak counts consecutive scheduled days, ending today, on which the habit was
// completed or justified. Unscheduled days are skipped. Today may still be open, so a
// missing completion for today does not break the streak; any other missed scheduled day
// does. It also returns the latest date marked completed, on or before today.
func HabitStreak(h models.Habit, completions []models.HabitCompletion, today string) (int, string) {
	byDate := make(map[string]models.HabitCompletion)
	earliest := ""
	lastCompleted := ""
	for _, c := range completions {
		if c.HabitID != h.ID || c.Date > today {
			continue
		}
		byDate[c.Date] = c
		if earliest == "" || c.Date < earliest {
			earliest = c.Date
		}
		if c.Status == models.StatusCompleted && c.Date > lastCompleted {
			lastCompleted = c.Date
		}
	}
	if earliest == "" || len(h.DaysOfWeek) == 0 {
		return 0, lastCompleted
	}

	day, err := clock.ParseDate(today)
	if err != nil {
		return 0, lastCompleted
	}

	streak := 0
	for {
		date := day.Format(constants.DateFormat)
		if date < earliest {
			break
		}
		if h.ScheduledOn(day.Weekday()) {
			c, ok := byDate[date]
			switch {
			case ok && c.Counts():
				streak++
			case date == today && (!ok || c.Status != models.StatusNotCompleted):
				// today is still open
			default:
				return streak, lastCompleted
			}
		}
		day = day.AddDate(0, 0, -1)
	}
	return streak, lastCompleted
}

// ViceStreak counts the unbroken run of marked days ending today (or yesterday, when today
// is not marked yet). The run ends at the first unmarked day; a relapse anywhere inside the
// run resets the streak to 0.
func ViceStreak(viceID string, completions []models.ViceCompletion, today string) int {
	byDate := make(map[string]models.ViceStatus)
	for _, c := range completions {
		if c.ViceID == viceID && c.Date <= today {
			byDate[c.Date] = c.Status
		}
	}

	day, err := clock.ParseDate(today)
	if err != nil {
		return 0
	}
	if _, ok := byDate[today]; !ok {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for i := 0; i <= len(byDate); i++ {
		status, ok := byDate[day.Format(constants.DateFormat)]
		if !ok {
			break
		}
		if status == models.ViceRelapse {
			return 0
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func weekdayOf(date string) (time.Weekday, bool) {
	d, err := clock.ParseDate(date)
	if err != nil {
		return 0, false
	}
	return d.Weekday(), true
}
