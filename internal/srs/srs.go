// Package srs schedules flashcard and vocabulary reviews with spaced repetition.
package srs

import (
	"github.com/julianstephens/glowup/internal/clock"
)

type Scheduler struct {
	clock clock.Clock
}

func New(c clock.Clock) *Scheduler {
	if c == nil {
		c = clock.Real{}
	}
	return &Scheduler{clock: c}
}

func (s *Scheduler) today() string {
	return clock.Today(s.clock)
}
