package srs

import (
	"fmt"
	"math"

	"github.com/julianstephens/glowup/internal/clock"
	"github.com/julianstephens/glowup/internal/constants"
	"github.com/julianstephens/glowup/internal/models"
)

// Outcome is the recall grade of a flashcard review
type Outcome string

const (
	Again Outcome = "again"
	Hard  Outcome = "hard"
	Good  Outcome = "good"
	Easy  Outcome = "easy"
)

func ParseOutcome(s string) (Outcome, error) {
	switch o := Outcome(s); o {
	case Again, Hard, Good, Easy:
		return o, nil
	}
	return "", fmt.Errorf("invalid review outcome %q: must be again, hard, good or easy", s)
}

// NewFlashcard fills in the scheduling state of a card that has never been reviewed.
// The card is due on the day it is created.
func (s *Scheduler) NewFlashcard(card models.Flashcard) models.Flashcard {
	card.LastReviewed = ""
	card.NextReview = s.today()
	card.Interval = constants.FlashcardInitialInterval
	card.Ease = constants.FlashcardInitialEase
	card.Streak = 0
	return card
}

// ReviewFlashcard applies outcome to card and schedules its next review relative to today.
func (s *Scheduler) ReviewFlashcard(card models.Flashcard, outcome Outcome) (models.Flashcard, error) {
	today := s.today()

	interval := max(card.Interval, 1)
	ease := card.Ease
	if ease == 0 {
		ease = constants.FlashcardInitialEase
	}

	switch outcome {
	case Again:
		interval = 1
		ease -= constants.FlashcardAgainPenalty
		card.Streak = 0
	case Hard:
		interval = int(math.Round(float64(interval) * constants.FlashcardHardFactor))
		ease -= constants.FlashcardHardPenalty
	case Good:
		interval = int(math.Round(float64(interval) * ease))
		card.Streak++
	case Easy:
		interval = int(math.Floor(float64(interval) * ease * constants.FlashcardEasyBonus))
		ease += constants.FlashcardEasyBonusEase
		card.Streak++
	default:
		return card, fmt.Errorf("invalid review outcome %q", outcome)
	}

	card.Interval = max(interval, 1)
	card.Ease = math.Min(constants.FlashcardMaxEase, math.Max(constants.FlashcardMinEase, ease))

	next, err := clock.AddDays(today, card.Interval)
	if err != nil {
		return card, err
	}
	card.LastReviewed = today
	card.NextReview = next
	return card, nil
}

// FlashcardDue reports whether card should be reviewed on date
func FlashcardDue(card models.Flashcard, date string) bool {
	return card.NextReview == "" || card.NextReview <= date
}

// DueFlashcards returns the cards due today, in their original order
func (s *Scheduler) DueFlashcards(cards []models.Flashcard) []models.Flashcard {
	today := s.today()
	due := []models.Flashcard{}
	for _, c := range cards {
		if FlashcardDue(c, today) {
			due = append(due, c)
		}
	}
	return due
}
