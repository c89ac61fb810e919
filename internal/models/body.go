package models

import apperr "github.com/julianstephens/glowup/internal/errors"

type Measurements struct {
	Chest  *float64 `json:"chest,omitempty"`
	Waist  *float64 `json:"waist,omitempty"`
	Hips   *float64 `json:"hips,omitempty"`
	Arms   *float64 `json:"arms,omitempty"`
	Thighs *float64 `json:"thighs,omitempty"`
}

// Photos reference blob ids or URLs, never image bytes
type Photos struct {
	Front string `json:"front,omitempty"`
	Side  string `json:"side,omitempty"`
	Back  string `json:"back,omitempty"`
}

type SelfAssessment struct {
	Energy     int `json:"energy"`     // 1-10
	Confidence int `json:"confidence"` // 1-10
	SelfEsteem int `json:"selfEsteem"` // 1-10
}

type BodyMeasurement struct {
	Meta
	Date           string         `json:"date"` // YYYY-MM-DD
	Weight         *float64       `json:"weight,omitempty"`
	Measurements   *Measurements  `json:"measurements,omitempty"`
	Photos         *Photos        `json:"photos,omitempty"`
	SelfAssessment SelfAssessment `json:"selfAssessment"`
	Notes          string         `json:"notes,omitempty"`
}

func (b *BodyMeasurement) Validate() error {
	if !validDate(b.Date) {
		return apperr.Invalid("body measurement", "date", "must be YYYY-MM-DD")
	}
	if b.Weight != nil && *b.Weight <= 0 {
		return apperr.Invalid("body measurement", "weight", "must be positive")
	}
	for _, score := range []int{b.SelfAssessment.Energy, b.SelfAssessment.Confidence, b.SelfAssessment.SelfEsteem} {
		// 0 means not assessed
		if score < 0 || score > 10 {
			return apperr.Invalid("body measurement", "selfAssessment", "scores must be between 1 and 10")
		}
	}
	return nil
}

type WorkoutType string

const (
	WorkoutTraining WorkoutType = "treino"
	WorkoutRest     WorkoutType = "descanso"
	WorkoutRecovery WorkoutType = "recuperacao"
)

type Set struct {
	Reps     int      `json:"reps"`
	Weight   *float64 `json:"weight,omitempty"`   // kg
	Duration int      `json:"duration,omitempty"` // seconds
	Rest     int      `json:"rest,omitempty"`     // seconds
}

type Exercise struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Sets  []Set  `json:"sets"`
	Notes string `json:"notes,omitempty"`
}

type WorkoutEntry struct {
	Meta
	Date      string      `json:"date"`
	Type      WorkoutType `json:"type"`
	Exercises []Exercise  `json:"exercises"`
	Notes     string      `json:"notes,omitempty"`
	Duration  int         `json:"duration,omitempty"` // minutes
}

func (w *WorkoutEntry) Validate() error {
	if !validDate(w.Date) {
		return apperr.Invalid("workout", "date", "must be YYYY-MM-DD")
	}
	switch w.Type {
	case WorkoutTraining, WorkoutRest, WorkoutRecovery:
	default:
		return apperr.Invalid("workout", "type", "must be treino, descanso or recuperacao")
	}
	for _, ex := range w.Exercises {
		if ex.Name == "" {
			return apperr.Invalid("workout", "exercises", "exercise name cannot be empty")
		}
	}
	return nil
}

type JournalEntry struct {
	Meta
	Date          string `json:"date"`
	WhatWentWell  string `json:"whatWentWell"`
	WhatToImprove string `json:"whatToImprove"`
	HowIFelt      string `json:"howIFelt"`
	Mood          int    `json:"mood"` // 1-10
}

func (j *JournalEntry) Validate() error {
	if !validDate(j.Date) {
		return apperr.Invalid("journal entry", "date", "must be YYYY-MM-DD")
	}
	if j.Mood < 1 || j.Mood > 10 {
		return apperr.Invalid("journal entry", "mood", "must be between 1 and 10")
	}
	return nil
}

type Milestone struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	CompletedAt string `json:"completedAt,omitempty"`
}

type Goal struct {
	Meta
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        string      `json:"type"` // daily, monthly, long_term
	Deadline    string      `json:"deadline,omitempty"`
	Status      string      `json:"status"`   // in_progress, completed, paused, cancelled
	Progress    int         `json:"progress"` // 0-100
	Milestones  []Milestone `json:"milestones,omitempty"`
}

func (g *Goal) Validate() error {
	if g.Title == "" {
		return apperr.Invalid("goal", "title", "cannot be empty")
	}
	switch g.Type {
	case "daily", "monthly", "long_term":
	default:
		return apperr.Invalid("goal", "type", "must be daily, monthly or long_term")
	}
	switch g.Status {
	case "in_progress", "completed", "paused", "cancelled":
	default:
		return apperr.Invalid("goal", "status", "is not a known status")
	}
	if g.Progress < 0 || g.Progress > 100 {
		return apperr.Invalid("goal", "progress", "must be between 0 and 100")
	}
	if g.Deadline != "" && !validDate(g.Deadline) {
		return apperr.Invalid("goal", "deadline", "must be YYYY-MM-DD")
	}
	return nil
}
