package store

import "github.com/julianstephens/glowup/internal/models"

func (s *Store) GetSettings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Clone(s.doc.Settings)
}

// UpdateSettings applies patch to a copy of the settings and keeps it only if it validates
func (s *Store) UpdateSettings(patch func(*models.Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLoaded(); err != nil {
		return err
	}
	next := models.Clone(s.doc.Settings)
	patch(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	s.doc.Settings = next
	return s.commitLocked("update", "settings", "", true)
}
