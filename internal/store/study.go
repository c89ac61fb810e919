package store

import (
	"github.com/julianstephens/glowup/internal/models"
	"github.com/julianstephens/glowup/internal/srs"
	"github.com/julianstephens/glowup/internal/stats"
)

func flashcards(d *models.Document) *[]models.Flashcard { return &d.Study.Flashcards }
func vocabulary(d *models.Document) *[]models.VocabularyWord { return &d.Study.Vocabulary }
func quizResults(d *models.Document) *[]models.QuizResult { return &d.Study.QuizResults }
func quizQuestions(d *models.Document) *[]models.QuizQuestion { return &d.Study.QuizQuestions }
func books(d *models.Document) *[]models.Book { return &d.Study.Books }
func courses(d *models.Document) *[]models.Course { return &d.Study.Courses }
func studyNotes(d *models.Document) *[]models.StudyNote { return &d.Study.StudyNotes }
func pomodoroSessions(d *models.Document) *[]models.PomodoroSession { return &d.Study.PomodoroSessions }
func quotes(d *models.Document) *[]models.Quote { return &d.Study.Quotes }

// Flashcards

func (s *Store) GetFlashcards() []models.Flashcard { return list(s, flashcards) }

func (s *Store) GetFlashcard(id string) (models.Flashcard, bool) { return get(s, flashcards, id) }

// AddFlashcard creates a card that is due today
func (s *Store) AddFlashcard(card models.Flashcard) (models.Flashcard, error) {
	return add(s, "flashcard", flashcards, s.srs.NewFlashcard(card))
}

func (s *Store) UpdateFlashcard(id string, patch func(*models.Flashcard)) (bool, error) {
	return update(s, "flashcard", flashcards, id, patch)
}

func (s *Store) DeleteFlashcard(id string) (bool, error) {
	return remove(s, "flashcard", flashcards, id)
}

// ReviewFlashcard schedules the next review of a card from the recall outcome
func (s *Store) ReviewFlashcard(id string, outcome srs.Outcome) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLoaded(); err != nil {
		return false, err
	}
	i := indexOf[models.Flashcard](s.doc.Study.Flashcards, id)
	if i < 0 {
		return false, nil
	}
	next, err := s.srs.ReviewFlashcard(s.doc.Study.Flashcards[i], outcome)
	if err != nil {
		return false, err
	}
	next.Touch(s.clock.Now())
	s.doc.Study.Flashcards[i] = next
	return true, s.commitLocked("review", "flashcard", id, true)
}

func (s *Store) DueFlashcards() []models.Flashcard {
	return s.srs.DueFlashcards(s.GetFlashcards())
}

// Vocabulary

func (s *Store) GetVocabulary() []models.VocabularyWord { return list(s, vocabulary) }

func (s *Store) GetVocabularyWord(id string) (models.VocabularyWord, bool) {
	return get(s, vocabulary, id)
}

// AddVocabularyWord creates a word that is due immediately
func (s *Store) AddVocabularyWord(w models.VocabularyWord) (models.VocabularyWord, error) {
	return add(s, "vocabulary", vocabulary, s.srs.NewWord(w))
}

func (s *Store) UpdateVocabularyWord(id string, patch func(*models.VocabularyWord)) (bool, error) {
	return update(s, "vocabulary", vocabulary, id, patch)
}

func (s *Store) DeleteVocabularyWord(id string) (bool, error) {
	return remove(s, "vocabulary", vocabulary, id)
}

// MarkVocabularyReviewed records a review. It returns false for an unknown word and for a
// second review on the same day; neither changes any state.
func (s *Store) MarkVocabularyReviewed(id string, success bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLoaded(); err != nil {
		return false, err
	}
	i := indexOf[models.VocabularyWord](s.doc.Study.Vocabulary, id)
	if i < 0 {
		return false, nil
	}
	next, ok := s.srs.ReviewWord(s.doc.Study.Vocabulary[i], success)
	if !ok {
		return false, nil
	}
	next.Touch(s.clock.Now())
	s.doc.Study.Vocabulary[i] = next
	return true, s.commitLocked("review", "vocabulary", id, true)
}

func (s *Store) DueVocabulary() []models.VocabularyWord {
	return s.srs.DueWords(s.GetVocabulary())
}

func (s *Store) DueVocabularyCount() int { return len(s.DueVocabulary()) }

// Quizzes

func (s *Store) GetQuizResults() []models.QuizResult { return list(s, quizResults) }

func (s *Store) AddQuizResult(r models.QuizResult) (models.QuizResult, error) {
	return add(s, "quizResult", quizResults, r)
}

func (s *Store) DeleteQuizResult(id string) (bool, error) {
	return remove(s, "quizResult", quizResults, id)
}

func (s *Store) QuizStats() stats.QuizSummary { return stats.QuizStats(s.GetQuizResults()) }

func (s *Store) GetQuizQuestions() []models.QuizQuestion { return list(s, quizQuestions) }

func (s *Store) AddQuizQuestion(q models.QuizQuestion) (models.QuizQuestion, error) {
	return add(s, "quizQuestion", quizQuestions, q)
}

func (s *Store) UpdateQuizQuestion(id string, patch func(*models.QuizQuestion)) (bool, error) {
	return update(s, "quizQuestion", quizQuestions, id, patch)
}

func (s *Store) DeleteQuizQuestion(id string) (bool, error) {
	return remove(s, "quizQuestion", quizQuestions, id)
}

// Books, courses, notes, pomodoro sessions and quotes

func (s *Store) GetBooks() []models.Book { return list(s, books) }

func (s *Store) AddBook(b models.Book) (models.Book, error) { return add(s, "book", books, b) }

func (s *Store) UpdateBook(id string, patch func(*models.Book)) (bool, error) {
	return update(s, "book", books, id, patch)
}

func (s *Store) DeleteBook(id string) (bool, error) { return remove(s, "book", books, id) }

func (s *Store) GetCourses() []models.Course { return list(s, courses) }

func (s *Store) AddCourse(c models.Course) (models.Course, error) {
	return add(s, "course", courses, c)
}

func (s *Store) UpdateCourse(id string, patch func(*models.Course)) (bool, error) {
	return update(s, "course", courses, id, patch)
}

func (s *Store) DeleteCourse(id string) (bool, error) { return remove(s, "course", courses, id) }

func (s *Store) GetStudyNotes() []models.StudyNote { return list(s, studyNotes) }

func (s *Store) AddStudyNote(n models.StudyNote) (models.StudyNote, error) {
	return add(s, "studyNote", studyNotes, n)
}

func (s *Store) UpdateStudyNote(id string, patch func(*models.StudyNote)) (bool, error) {
	return update(s, "studyNote", studyNotes, id, patch)
}

func (s *Store) DeleteStudyNote(id string) (bool, error) {
	return remove(s, "studyNote", studyNotes, id)
}

func (s *Store) GetPomodoroSessions() []models.PomodoroSession { return list(s, pomodoroSessions) }

func (s *Store) AddPomodoroSession(p models.PomodoroSession) (models.PomodoroSession, error) {
	return add(s, "pomodoroSession", pomodoroSessions, p)
}

func (s *Store) DeletePomodoroSession(id string) (bool, error) {
	return remove(s, "pomodoroSession", pomodoroSessions, id)
}

func (s *Store) GetQuotes() []models.Quote { return list(s, quotes) }

func (s *Store) AddQuote(q models.Quote) (models.Quote, error) { return add(s, "quote", quotes, q) }

func (s *Store) UpdateQuote(id string, patch func(*models.Quote)) (bool, error) {
	return update(s, "quote", quotes, id, patch)
}

func (s *Store) DeleteQuote(id string) (bool, error) { return remove(s, "quote", quotes, id) }
