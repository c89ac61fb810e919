package models

import (
	"time"

	apperr "github.com/julianstephens/glowup/internal/errors"
)

type CompletionStatus string

const (
	StatusCompleted    CompletionStatus = "completed"
	StatusNotCompleted CompletionStatus = "not_completed"
	StatusJustified    CompletionStatus = "justified"
)

// Habit represents a recurring practice scheduled on specific weekdays
type Habit struct {
	Meta
	Name           string `json:"name"`
	Category       string `json:"category"`
	Time           string `json:"time,omitempty"` // HH:MM
	DaysOfWeek     []int  `json:"daysOfWeek"`     // 0-6, Sunday first
	IsEssential    bool   `json:"isEssential"`
	Weight         int    `json:"weight"` // 1-3 points
	AdditionalInfo string `json:"additionalInfo,omitempty"`
	Streak         int    `json:"streak"`                  // cached, see stats.HabitStreak
	LastCompleted  string `json:"lastCompleted,omitempty"` // YYYY-MM-DD
}

func (h *Habit) Validate() error {
	if h.Name == "" {
		return apperr.Invalid("habit", "name", "cannot be empty")
	}
	if h.Weight < 1 || h.Weight > 3 {
		return apperr.Invalid("habit", "weight", "must be between 1 and 3")
	}
	if len(h.DaysOfWeek) == 0 {
		return apperr.Invalid("habit", "daysOfWeek", "must contain at least one weekday")
	}
	seen := make(map[int]bool, len(h.DaysOfWeek))
	for _, d := range h.DaysOfWeek {
		if d < 0 || d > 6 {
			return apperr.Invalid("habit", "daysOfWeek", "must contain weekdays 0-6")
		}
		if seen[d] {
			return apperr.Invalid("habit", "daysOfWeek", "contains a duplicate weekday")
		}
		seen[d] = true
	}
	if h.Time != "" {
		if _, err := time.Parse("15:04", h.Time); err != nil {
			return apperr.Invalid("habit", "time", "must be HH:MM")
		}
	}
	if h.LastCompleted != "" && !validDate(h.LastCompleted) {
		return apperr.Invalid("habit", "lastCompleted", "must be YYYY-MM-DD")
	}
	return nil
}

// ScheduledOn reports whether the habit is due on the given weekday
func (h *Habit) ScheduledOn(wd time.Weekday) bool {
	for _, d := range h.DaysOfWeek {
		if time.Weekday(d) == wd {
			return true
		}
	}
	return false
}

// HabitCompletion is the single record of a habit on one date
type HabitCompletion struct {
	Meta
	HabitID       string           `json:"habitId"`
	Date          string           `json:"date"` // YYYY-MM-DD
	Status        CompletionStatus `json:"status"`
	Justification string           `json:"justification,omitempty"`
	CompletedAt   string           `json:"completedAt,omitempty"`
}

func (c *HabitCompletion) Validate() error {
	if c.HabitID == "" {
		return apperr.Invalid("habit completion", "habitId", "cannot be empty")
	}
	if !validDate(c.Date) {
		return apperr.Invalid("habit completion", "date", "must be YYYY-MM-DD")
	}
	switch c.Status {
	case StatusCompleted, StatusNotCompleted, StatusJustified:
	default:
		return apperr.Invalid("habit completion", "status", "must be completed, not_completed or justified")
	}
	return nil
}

// Counts reports whether the completion keeps a streak alive
func (c *HabitCompletion) Counts() bool {
	return c.Status == StatusCompleted || c.Status == StatusJustified
}

// DailyStats is the archived performance of one calendar date
type DailyStats struct {
	Date            string `json:"date"` // YYYY-MM-DD
	TotalHabits     int    `json:"totalHabits"`
	CompletedHabits int    `json:"completedHabits"`
	TotalPoints     int    `json:"totalPoints"`
	EarnedPoints    int    `json:"earnedPoints"`
	Percentage      int    `json:"percentage"`
}

// MonthlyChart groups the archived stats of one month
type MonthlyChart struct {
	Month              string       `json:"month"` // YYYY-MM
	DailyStats         []DailyStats `json:"dailyStats"`
	AveragePerformance int          `json:"averagePerformance"`
	BestDay            string       `json:"bestDay"`
	WorstDay           string       `json:"worstDay"`
	TotalDays          int          `json:"totalDays"`
	CompletedDays      int          `json:"completedDays"`
}

// Has reports whether stats for date are already archived in the chart
func (m *MonthlyChart) Has(date string) bool {
	for _, s := range m.DailyStats {
		if s.Date == date {
			return true
		}
	}
	return false
}
