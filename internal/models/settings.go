package models

import apperr "github.com/julianstephens/glowup/internal/errors"

type Notifications struct {
	HabitReminders   bool `json:"habitReminders"`
	WorkoutReminders bool `json:"workoutReminders"`
	JournalReminders bool `json:"journalReminders"`
}

// Settings represents user preferences stored with the document
type Settings struct {
	Theme                     string        `json:"theme"` // light, dark, system, ocean, sunset, forest, midnight
	SoundEnabled              bool          `json:"soundEnabled"`
	AnimationsEnabled         bool          `json:"animationsEnabled"`
	MinimalMode               bool          `json:"minimalMode"`
	DailyMotivation           string        `json:"dailyMotivation"`
	MotivationTone            string        `json:"motivationTone,omitempty"`   // encorajador, calmo, direto, personal
	MotivationLength          string        `json:"motivationLength,omitempty"` // short, medium, long
	LastMotivationGeneratedAt string        `json:"lastMotivationGeneratedAt,omitempty"`
	Notifications             Notifications `json:"notifications"`
	TestsEnabled              bool          `json:"testsEnabled,omitempty"`
}

// DefaultSettings returns the settings of a fresh document
func DefaultSettings() Settings {
	return Settings{
		Theme:             "system",
		SoundEnabled:      true,
		AnimationsEnabled: true,
		MinimalMode:       false,
		MotivationTone:    "encorajador",
		MotivationLength:  "short",
		Notifications: Notifications{
			HabitReminders:   true,
			WorkoutReminders: true,
			JournalReminders: true,
		},
	}
}

func (s *Settings) Validate() error {
	switch s.Theme {
	case "light", "dark", "system", "ocean", "sunset", "forest", "midnight":
	default:
		return apperr.Invalid("settings", "theme", "is not a known theme")
	}
	switch s.MotivationTone {
	case "", "encorajador", "calmo", "direto", "personal":
	default:
		return apperr.Invalid("settings", "motivationTone", "is not a known tone")
	}
	switch s.MotivationLength {
	case "", "short", "medium", "long":
	default:
		return apperr.Invalid("settings", "motivationLength", "must be short, medium or long")
	}
	return nil
}
