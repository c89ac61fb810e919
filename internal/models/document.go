package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/julianstephens/glowup/internal/constants"
	apperr "github.com/julianstephens/glowup/internal/errors"
)

type StudyData struct {
	Flashcards       []Flashcard       `json:"flashcards"`
	QuizResults      []QuizResult      `json:"quizResults"`
	QuizQuestions    []QuizQuestion    `json:"quizQuestions"`
	Books            []Book            `json:"books"`
	Vocabulary       []VocabularyWord  `json:"vocabulary"`
	Courses          []Course          `json:"courses"`
	StudyNotes       []StudyNote       `json:"studyNotes"`
	PomodoroSessions []PomodoroSession `json:"pomodoroSessions"`
	Quotes           []Quote           `json:"quotes"`
}

type RecordsData struct {
	UploadedFiles       []UploadedFile       `json:"uploadedFiles"`
	Galleries           []PhotoGallery       `json:"galleries"`
	ProgressComparisons []ProgressComparison `json:"progressComparisons"`
	CommunityPosts      []CommunityPost      `json:"communityPosts"`
}

// Document is the single structured snapshot persisted under constants.DocumentKey
type Document struct {
	Habits           []Habit           `json:"habits"`
	HabitCompletions []HabitCompletion `json:"habitCompletions"`
	MonthlyCharts    []MonthlyChart    `json:"monthlyCharts"`
	Workouts         []WorkoutEntry    `json:"workouts"`
	BodyMeasurements []BodyMeasurement `json:"bodyMeasurements"`
	JournalEntries   []JournalEntry    `json:"journalEntries"`
	Goals            []Goal            `json:"goals"`
	Settings         Settings          `json:"settings"`
	Study            StudyData         `json:"study"`
	Records          RecordsData       `json:"records"`
	Finances         []FinancialEntry  `json:"finances"`
	Vices            []Vice            `json:"vices"`
	ViceCompletions  []ViceCompletion  `json:"viceCompletions"`
	LastUpdated      string            `json:"lastUpdated"`
	Version          string            `json:"version"`
}

// NewDocument returns the default empty document
func NewDocument(now time.Time) Document {
	d := Document{
		Settings:    DefaultSettings(),
		LastUpdated: FormatTimestamp(now),
		Version:     constants.DocumentVersion,
	}
	d.Normalize()
	return d
}

// Normalize replaces nil collections with empty ones so absent sections read as empty.
func (d *Document) Normalize() {
	emptyIfNil(&d.Habits)
	emptyIfNil(&d.HabitCompletions)
	emptyIfNil(&d.MonthlyCharts)
	emptyIfNil(&d.Workouts)
	emptyIfNil(&d.BodyMeasurements)
	emptyIfNil(&d.JournalEntries)
	emptyIfNil(&d.Goals)
	emptyIfNil(&d.Finances)
	emptyIfNil(&d.Vices)
	emptyIfNil(&d.ViceCompletions)

	emptyIfNil(&d.Study.Flashcards)
	emptyIfNil(&d.Study.QuizResults)
	emptyIfNil(&d.Study.QuizQuestions)
	emptyIfNil(&d.Study.Books)
	emptyIfNil(&d.Study.Vocabulary)
	emptyIfNil(&d.Study.Courses)
	emptyIfNil(&d.Study.StudyNotes)
	emptyIfNil(&d.Study.PomodoroSessions)
	emptyIfNil(&d.Study.Quotes)

	emptyIfNil(&d.Records.UploadedFiles)
	emptyIfNil(&d.Records.Galleries)
	emptyIfNil(&d.Records.ProgressComparisons)
	emptyIfNil(&d.Records.CommunityPosts)

	for i := range d.MonthlyCharts {
		emptyIfNil(&d.MonthlyCharts[i].DailyStats)
	}
	if d.Version == "" {
		d.Version = constants.DocumentVersion
	}
}

func emptyIfNil[T any](s *[]T) {
	if *s == nil {
		*s = []T{}
	}
}

// ParseDocument decodes a snapshot. Missing sections default to empty collections and
// missing settings fall back to DefaultSettings. Anything other than a JSON object is rejected.
func ParseDocument(data []byte, now time.Time) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Document{}, apperr.Invalid("snapshot", "", "expected a JSON object")
	}

	doc := Document{Settings: DefaultSettings()}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return Document{}, apperr.Invalid("snapshot", "", err.Error())
	}
	doc.Normalize()
	if doc.LastUpdated == "" {
		doc.LastUpdated = FormatTimestamp(now)
	}
	return doc, nil
}

// Marshal serializes the document in its persisted form
func (d *Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}
