package models

import (
	"github.com/julianstephens/glowup/internal/constants"
	apperr "github.com/julianstephens/glowup/internal/errors"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func validDifficulty(d Difficulty) bool {
	switch d {
	case "", DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Flashcard is a question/answer pair scheduled by spaced repetition
type Flashcard struct {
	Meta
	Question     string     `json:"question"`
	Answer       string     `json:"answer"`
	Category     string     `json:"category"`
	Difficulty   Difficulty `json:"difficulty"`
	LastReviewed string     `json:"lastReviewed"` // YYYY-MM-DD, empty when never reviewed
	NextReview   string     `json:"nextReview"`   // YYYY-MM-DD
	Interval     int        `json:"interval"`     // days, >= 1
	Ease         float64    `json:"ease"`
	Streak       int        `json:"streak"`
}

func (f *Flashcard) Validate() error {
	if f.Question == "" {
		return apperr.Invalid("flashcard", "question", "cannot be empty")
	}
	if f.Answer == "" {
		return apperr.Invalid("flashcard", "answer", "cannot be empty")
	}
	if !validDifficulty(f.Difficulty) {
		return apperr.Invalid("flashcard", "difficulty", "must be easy, medium or hard")
	}
	if f.Interval < 1 {
		return apperr.Invalid("flashcard", "interval", "must be at least 1")
	}
	if f.Ease < constants.FlashcardMinEase {
		return apperr.Invalid("flashcard", "ease", "is below the minimum ease")
	}
	if f.NextReview != "" && !validDate(f.NextReview) {
		return apperr.Invalid("flashcard", "nextReview", "must be YYYY-MM-DD")
	}
	return nil
}

// VocabularyWord is a word scheduled for review, at most once per day
type VocabularyWord struct {
	Meta
	Word            string     `json:"word"`
	Definition      string     `json:"definition"`
	Pronunciation   string     `json:"pronunciation,omitempty"`
	ExampleSentence string     `json:"exampleSentence"`
	Category        string     `json:"category"`
	Difficulty      Difficulty `json:"difficulty"`
	ReviewCount     int        `json:"reviewCount"`
	LastReviewed    string     `json:"lastReviewed"`           // YYYY-MM-DD
	NextReviewAt    string     `json:"nextReviewAt,omitempty"` // RFC3339
	IntervalDays    int        `json:"intervalDays,omitempty"`
}

func (w *VocabularyWord) Validate() error {
	if w.Word == "" {
		return apperr.Invalid("vocabulary word", "word", "cannot be empty")
	}
	if !validDifficulty(w.Difficulty) {
		return apperr.Invalid("vocabulary word", "difficulty", "must be easy, medium or hard")
	}
	if w.IntervalDays < 0 {
		return apperr.Invalid("vocabulary word", "intervalDays", "cannot be negative")
	}
	if w.ReviewCount < 0 {
		return apperr.Invalid("vocabulary word", "reviewCount", "cannot be negative")
	}
	return nil
}

type QuizQuestion struct {
	Meta
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correctAnswer"`
	Category      string     `json:"category"`
	Difficulty    Difficulty `json:"difficulty"`
	Explanation   string     `json:"explanation,omitempty"`
	Tags          []string   `json:"tags"`
}

func (q *QuizQuestion) Validate() error {
	if q.Question == "" {
		return apperr.Invalid("quiz question", "question", "cannot be empty")
	}
	if len(q.Options) < 2 {
		return apperr.Invalid("quiz question", "options", "needs at least two options")
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return apperr.Invalid("quiz question", "correctAnswer", "must index an option")
	}
	if !validDifficulty(q.Difficulty) {
		return apperr.Invalid("quiz question", "difficulty", "must be easy, medium or hard")
	}
	return nil
}

type QuizResult struct {
	Meta
	Date           string         `json:"date"`
	Score          float64        `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	CorrectAnswers int            `json:"correctAnswers"`
	TimeSpent      int            `json:"timeSpent"` // seconds
	Category       string         `json:"category"`
	Difficulty     Difficulty     `json:"difficulty"`
	Questions      []QuizQuestion `json:"questions"`
	UserAnswers    []int          `json:"userAnswers"`
}

func (r *QuizResult) Validate() error {
	if r.Score < 0 {
		return apperr.Invalid("quiz result", "score", "cannot be negative")
	}
	if r.TotalQuestions < 0 || r.CorrectAnswers < 0 {
		return apperr.Invalid("quiz result", "totalQuestions", "cannot be negative")
	}
	if r.CorrectAnswers > r.TotalQuestions {
		return apperr.Invalid("quiz result", "correctAnswers", "exceeds totalQuestions")
	}
	if r.TimeSpent < 0 {
		return apperr.Invalid("quiz result", "timeSpent", "cannot be negative")
	}
	return nil
}

type BookStatus string

const (
	BookReading   BookStatus = "reading"
	BookCompleted BookStatus = "completed"
	BookPaused    BookStatus = "paused"
	BookPlanned   BookStatus = "planned"
)

type Book struct {
	Meta
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Category    string     `json:"category"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
	Status      BookStatus `json:"status"`
	StartDate   string     `json:"startDate,omitempty"`
	EndDate     string     `json:"endDate,omitempty"`
	Rating      int        `json:"rating,omitempty"` // 1-5
	Notes       string     `json:"notes,omitempty"`
	CoverURL    string     `json:"coverUrl,omitempty"`
}

func (b *Book) Validate() error {
	if b.Title == "" {
		return apperr.Invalid("book", "title", "cannot be empty")
	}
	if b.CurrentPage < 0 || b.TotalPages < 0 {
		return apperr.Invalid("book", "pages", "cannot be negative")
	}
	if b.TotalPages > 0 && b.CurrentPage > b.TotalPages {
		return apperr.Invalid("book", "currentPage", "exceeds totalPages")
	}
	if b.Rating < 0 || b.Rating > 5 {
		return apperr.Invalid("book", "rating", "must be between 1 and 5")
	}
	switch b.Status {
	case "", BookReading, BookCompleted, BookPaused, BookPlanned:
	default:
		return apperr.Invalid("book", "status", "is not a known status")
	}
	return nil
}

type Course struct {
	Meta
	Title          string `json:"title"`
	Provider       string `json:"provider"`
	Category       string `json:"category"`
	Status         string `json:"status"`   // in_progress, completed, planned
	Progress       int    `json:"progress"` // 0-100
	Duration       int    `json:"duration"` // hours
	StartDate      string `json:"startDate,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
	CertificateURL string `json:"certificateUrl,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

func (c *Course) Validate() error {
	if c.Title == "" {
		return apperr.Invalid("course", "title", "cannot be empty")
	}
	if c.Progress < 0 || c.Progress > 100 {
		return apperr.Invalid("course", "progress", "must be between 0 and 100")
	}
	switch c.Status {
	case "", "in_progress", "completed", "planned":
	default:
		return apperr.Invalid("course", "status", "is not a known status")
	}
	return nil
}

type StudyNote struct {
	Meta
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Summary  string   `json:"summary,omitempty"`
}

func (n *StudyNote) Validate() error {
	if n.Title == "" {
		return apperr.Invalid("study note", "title", "cannot be empty")
	}
	return nil
}

type PomodoroSession struct {
	Meta
	Date              string `json:"date"`
	FocusTime         int    `json:"focusTime"` // minutes
	BreakTime         int    `json:"breakTime"` // minutes
	SessionsCompleted int    `json:"sessionsCompleted"`
	TotalTime         int    `json:"totalTime"` // minutes
	Notes             string `json:"notes,omitempty"`
}

func (p *PomodoroSession) Validate() error {
	if !validDate(p.Date) {
		return apperr.Invalid("pomodoro session", "date", "must be YYYY-MM-DD")
	}
	if p.FocusTime < 0 || p.BreakTime < 0 || p.TotalTime < 0 || p.SessionsCompleted < 0 {
		return apperr.Invalid("pomodoro session", "", "durations cannot be negative")
	}
	return nil
}

type Quote struct {
	Meta
	Quote    string   `json:"quote"`
	Author   string   `json:"author"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Favorite bool     `json:"favorite"`
}

func (q *Quote) Validate() error {
	if q.Quote == "" {
		return apperr.Invalid("quote", "quote", "cannot be empty")
	}
	return nil
}
