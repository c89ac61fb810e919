package store

import (
	"time"

	"github.com/julianstephens/glowup/internal/clock"
	"github.com/julianstephens/glowup/internal/constants"
	apperr "github.com/julianstephens/glowup/internal/errors"
	"github.com/julianstephens/glowup/internal/models"
	"github.com/julianstephens/glowup/internal/stats"
)

const dateFormat = constants.DateFormat

func parseDate(date string) (time.Time, error) { return clock.ParseDate(date) }

func monthlyCharts(d *models.Document) *[]models.MonthlyChart { return &d.MonthlyCharts }

func (s *Store) GetMonthlyCharts() []models.MonthlyChart {
	return list(s, monthlyCharts)
}

func (s *Store) GetMonthlyChart(month string) (models.MonthlyChart, bool) {
	for _, c := range s.GetMonthlyCharts() {
		if c.Month == month {
			return c, true
		}
	}
	return models.MonthlyChart{}, false
}

func (s *Store) GetDailyStats(date string) (models.DailyStats, bool) {
	chart, ok := s.GetMonthlyChart(clock.Month(date))
	if !ok {
		return models.DailyStats{}, false
	}
	for _, st := range chart.DailyStats {
		if st.Date == date {
			return st, true
		}
	}
	return models.DailyStats{}, false
}

// LiveStats computes the stats of date from current data without archiving them
func (s *Store) LiveStats(date string) models.DailyStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stats.DailyStatsFor(date, s.doc.Habits, s.doc.HabitCompletions)
}

// ArchiveDates files the stats of each date into the chart of that date's month. Dates that
// already have stats are skipped, never recomputed. Habit streaks are refreshed against
// today afterwards. It returns the number of dates filed.
func (s *Store) ArchiveDates(dates []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLoaded(); err != nil {
		return 0, err
	}

	filed := 0
	for _, date := range dates {
		st := stats.DailyStatsFor(date, s.doc.Habits, s.doc.HabitCompletions)
		var ok bool
		s.doc.MonthlyCharts, ok = stats.FileDailyStats(s.doc.MonthlyCharts, st)
		if ok {
			filed++
		}
	}
	streaks := s.refreshStreaksLocked(s.clock.Now().Format(dateFormat))
	if filed == 0 && !streaks && !s.dirty {
		return 0, nil
	}
	return filed, s.commitLocked("archive", "monthlyChart", "", true)
}

// FirstActivityDate returns the earliest habit completion date, or "" when nothing was
// ever completed
func (s *Store) FirstActivityDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	first := ""
	for _, c := range s.doc.HabitCompletions {
		if _, err := parseDate(c.Date); err != nil {
			continue
		}
		if first == "" || c.Date < first {
			first = c.Date
		}
	}
	return first
}

// LastSeenDate returns the date of the last archive check, or "" before the first one
func (s *Store) LastSeenDate() (string, error) {
	v, ok, err := s.kv.Get(constants.LastSeenKey)
	if err != nil {
		return "", &apperr.PersistenceError{Op: "get", Key: constants.LastSeenKey, Err: err}
	}
	if !ok {
		return "", nil
	}
	return v, nil
}

func (s *Store) SetLastSeenDate(date string) error {
	if err := s.kv.Set(constants.LastSeenKey, date); err != nil {
		return &apperr.PersistenceError{Op: "set", Key: constants.LastSeenKey, Err: err}
	}
	return nil
}
