package srs

import (
	"math"
	"time"

	"github.com/julianstephens/glowup/internal/constants"
	"github.com/julianstephens/glowup/internal/models"
)

// NewWord fills in the scheduling state of a word that has never been reviewed; it is due
// immediately.
func (s *Scheduler) NewWord(w models.VocabularyWord) models.VocabularyWord {
	w.LastReviewed = ""
	w.ReviewCount = 0
	w.IntervalDays = constants.VocabularyInitialInterval
	w.NextReviewAt = models.FormatTimestamp(s.clock.Now())
	return w
}

// ReviewWord records a review of w. The second review on the same calendar day is rejected:
// it returns false and w unchanged.
func (s *Scheduler) ReviewWord(w models.VocabularyWord, success bool) (models.VocabularyWord, bool) {
	now := s.clock.Now()
	today := now.Format(constants.DateFormat)
	if w.LastReviewed == today {
		return w, false
	}

	if success {
		prev := max(w.IntervalDays, 1)
		w.IntervalDays = max(1, int(math.Round(float64(prev)*constants.VocabularyGrowthFactor)))
	} else {
		w.IntervalDays = constants.VocabularyInitialInterval
	}
	w.ReviewCount++
	w.LastReviewed = today
	w.NextReviewAt = models.FormatTimestamp(now.Add(time.Duration(w.IntervalDays) * 24 * time.Hour))
	return w, true
}

// WordDue reports whether w should be reviewed at now. Words that were never scheduled, or
// whose schedule cannot be parsed, are due.
func WordDue(w models.VocabularyWord, now time.Time) bool {
	if w.NextReviewAt == "" {
		return true
	}
	at := models.ParseTimestamp(w.NextReviewAt)
	return at.IsZero() || !at.After(now)
}

func (s *Scheduler) DueWords(words []models.VocabularyWord) []models.VocabularyWord {
	now := s.clock.Now()
	due := []models.VocabularyWord{}
	for _, w := range words {
		if WordDue(w, now) {
			due = append(due, w)
		}
	}
	return due
}
