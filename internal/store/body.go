package store

import "github.com/julianstephens/glowup/internal/models"

func workouts(d *models.Document) *[]models.WorkoutEntry { return &d.Workouts }

func bodyMeasurements(d *models.Document) *[]models.BodyMeasurement {
	return &d.BodyMeasurements
}

func journalEntries(d *models.Document) *[]models.JournalEntry { return &d.JournalEntries }

func goals(d *models.Document) *[]models.Goal { return &d.Goals }

func (s *Store) GetWorkouts() []models.WorkoutEntry { return list(s, workouts) }

func (s *Store) AddWorkout(w models.WorkoutEntry) (models.WorkoutEntry, error) {
	return add(s, "workout", workouts, w)
}

func (s *Store) UpdateWorkout(id string, patch func(*models.WorkoutEntry)) (bool, error) {
	return update(s, "workout", workouts, id, patch)
}

func (s *Store) DeleteWorkout(id string) (bool, error) { return remove(s, "workout", workouts, id) }

func (s *Store) GetBodyMeasurements() []models.BodyMeasurement { return list(s, bodyMeasurements) }

func (s *Store) AddBodyMeasurement(m models.BodyMeasurement) (models.BodyMeasurement, error) {
	return add(s, "bodyMeasurement", bodyMeasurements, m)
}

func (s *Store) UpdateBodyMeasurement(id string, patch func(*models.BodyMeasurement)) (bool, error) {
	return update(s, "bodyMeasurement", bodyMeasurements, id, patch)
}

func (s *Store) DeleteBodyMeasurement(id string) (bool, error) {
	return remove(s, "bodyMeasurement", bodyMeasurements, id)
}

func (s *Store) GetJournalEntries() []models.JournalEntry { return list(s, journalEntries) }

func (s *Store) AddJournalEntry(j models.JournalEntry) (models.JournalEntry, error) {
	return add(s, "journalEntry", journalEntries, j)
}

func (s *Store) UpdateJournalEntry(id string, patch func(*models.JournalEntry)) (bool, error) {
	return update(s, "journalEntry", journalEntries, id, patch)
}

func (s *Store) DeleteJournalEntry(id string) (bool, error) {
	return remove(s, "journalEntry", journalEntries, id)
}

func (s *Store) GetGoals() []models.Goal { return list(s, goals) }

func (s *Store) AddGoal(g models.Goal) (models.Goal, error) { return add(s, "goal", goals, g) }

func (s *Store) UpdateGoal(id string, patch func(*models.Goal)) (bool, error) {
	return update(s, "goal", goals, id, patch)
}

func (s *Store) DeleteGoal(id string) (bool, error) { return remove(s, "goal", goals, id) }
