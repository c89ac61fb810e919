package store

import (
	apperr "github.com/julianstephens/glowup/internal/errors"
	"github.com/julianstephens/glowup/internal/models"
	"github.com/julianstephens/glowup/internal/stats"
)

func habits(d *models.Document) *[]models.Habit { return &d.Habits }

func habitCompletions(d *models.Document) *[]models.HabitCompletion {
	return &d.HabitCompletions
}

func (s *Store) GetHabits() []models.Habit { return list(s, habits) }

func (s *Store) GetHabit(id string) (models.Habit, bool) { return get(s, habits, id) }

// AddHabit creates a habit. Its streak starts at zero regardless of the input.
func (s *Store) AddHabit(h models.Habit) (models.Habit, error) {
	h.Streak = 0
	h.LastCompleted = ""
	return add(s, "habit", habits, h)
}

func (s *Store) UpdateHabit(id string, patch func(*models.Habit)) (bool, error) {
	return update(s, "habit", habits, id, patch)
}

// DeleteHabit removes a habit together with its completions
func (s *Store) DeleteHabit(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLoaded(); err != nil {
		return false, err
	}
	if removeWhere(&s.doc.Habits, func(h *models.Habit) bool { return h.ID == id }) == 0 {
		return false, nil
	}
	removeWhere(&s.doc.HabitCompletions, func(c *models.HabitCompletion) bool { return c.HabitID == id })
	return true, s.commitLocked("delete", "habit", id, true)
}

// HabitsForDate returns the habits scheduled on date's weekday
func (s *Store) HabitsForDate(date string) []models.Habit {
	d, err := parseDate(date)
	if err != nil {
		return []models.Habit{}
	}
	out := []models.Habit{}
	for _, h := range s.GetHabits() {
		if h.ScheduledOn(d.Weekday()) {
			out = append(out, h)
		}
	}
	return out
}

// GetHabitCompletions returns the completions recorded on date, or all of them when date is empty
func (s *Store) GetHabitCompletions(date string) []models.HabitCompletion {
	all := list(s, habitCompletions)
	if date == "" {
		return all
	}
	out := []models.HabitCompletion{}
	for _, c := range all {
		if c.Date == date {
			out = append(out, c)
		}
	}
	return out
}

// CompleteHabit records the status of a habit on date (today when empty), replacing any
// earlier entry for that day, and refreshes the habit's streak. It returns false for an
// unknown habit.
func (s *Store) CompleteHabit(habitID, date string, status models.CompletionStatus, justification string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLoaded(); err != nil {
		return false, err
	}

	hi := indexOf[models.Habit](s.doc.Habits, habitID)
	if hi < 0 {
		return false, nil
	}

	now := s.clock.Now()
	today := now.Format(dateFormat)
	if date == "" {
		date = today
	}
	if date > today {
		return false, apperr.Invalid("habit completion", "date", "cannot be in the future")
	}

	c := models.HabitCompletion{
		HabitID:       habitID,
		Date:          date,
		Status:        status,
		Justification: justification,
		CompletedAt:   models.FormatTimestamp(now),
	}
	if err := c.Validate(); err != nil {
		return false, err
	}

	ci := -1
	for i := range s.doc.HabitCompletions {
		if s.doc.HabitCompletions[i].HabitID == habitID && s.doc.HabitCompletions[i].Date == date {
			ci = i
			break
		}
	}
	if ci >= 0 {
		c.Meta = s.doc.HabitCompletions[ci].Meta
		c.Touch(now)
		s.doc.HabitCompletions[ci] = c
	} else {
		c.Initialize(s.newID(), now)
		s.doc.HabitCompletions = append(s.doc.HabitCompletions, c)
	}

	s.refreshStreakLocked(hi, today)
	return true, s.commitLocked("complete", "habit", habitID, true)
}

// RefreshStreaks recomputes every habit's cached streak against today and persists when any changed
func (s *Store) RefreshStreaks() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLoaded(); err != nil {
		return false, err
	}
	if !s.refreshStreaksLocked(s.clock.Now().Format(dateFormat)) {
		return false, nil
	}
	return true, s.commitLocked("refresh", "habit", "", true)
}

func (s *Store) refreshStreaksLocked(today string) bool {
	changed := false
	for i := range s.doc.Habits {
		if s.refreshStreakLocked(i, today) {
			changed = true
		}
	}
	return changed
}

func (s *Store) refreshStreakLocked(i int, today string) bool {
	h := &s.doc.Habits[i]
	streak, last := stats.HabitStreak(*h, s.doc.HabitCompletions, today)
	if h.Streak == streak && h.LastCompleted == last {
		return false
	}
	h.Streak = streak
	h.LastCompleted = last
	return true
}
