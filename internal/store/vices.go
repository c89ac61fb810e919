package store

import (
	"github.com/julianstephens/glowup/internal/models"
	"github.com/julianstephens/glowup/internal/stats"
)

func vices(d *models.Document) *[]models.Vice { return &d.Vices }

func viceCompletions(d *models.Document) *[]models.ViceCompletion { return &d.ViceCompletions }

// GetVices returns vices in user order
func (s *Store) GetVices() []models.Vice { return list(s, vices) }

func (s *Store) AddVice(v models.Vice) (models.Vice, error) { return add(s, "vice", vices, v) }

func (s *Store) UpdateVice(id string, patch func(*models.Vice)) (bool, error) {
	return update(s, "vice", vices, id, patch)
}

// DeleteVice removes a vice together with its marked days
func (s *Store) DeleteVice(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLoaded(); err != nil {
		return false, err
	}
	if removeWhere(&s.doc.Vices, func(v *models.Vice) bool { return v.ID == id }) == 0 {
		return false, nil
	}
	removeWhere(&s.doc.ViceCompletions, func(c *models.ViceCompletion) bool { return c.ViceID == id })
	return true, s.commitLocked("delete", "vice", id, true)
}

// ReorderVices moves the listed vices to the front in the given order. Vices not listed keep
// their relative order after them; unknown ids are ignored.
func (s *Store) ReorderVices(ids []string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLoaded(); err != nil {
		return false, err
	}

	byID := make(map[string]models.Vice, len(s.doc.Vices))
	for _, v := range s.doc.Vices {
		byID[v.ID] = v
	}
	ordered := make([]models.Vice, 0, len(s.doc.Vices))
	placed := make(map[string]bool, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok && !placed[id] {
			ordered = append(ordered, v)
			placed[id] = true
		}
	}
	for _, v := range s.doc.Vices {
		if !placed[v.ID] {
			ordered = append(ordered, v)
		}
	}

	changed := false
	for i := range ordered {
		if ordered[i].ID != s.doc.Vices[i].ID {
			changed = true
			break
		}
	}
	if !changed {
		return false, nil
	}
	s.doc.Vices = ordered
	return true, s.commitLocked("reorder", "vice", "", true)
}

// GetViceCompletions returns the marked days of a vice, or of every vice when viceID is empty
func (s *Store) GetViceCompletions(viceID string) []models.ViceCompletion {
	all := list(s, viceCompletions)
	if viceID == "" {
		return all
	}
	out := []models.ViceCompletion{}
	for _, c := range all {
		if c.ViceID == viceID {
			out = append(out, c)
		}
	}
	return out
}

// ToggleViceDay marks date (today when empty) with status. Marking a day again with the
// status it already has clears the mark. It returns false for an unknown vice.
func (s *Store) ToggleViceDay(viceID, date string, status models.ViceStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLoaded(); err != nil {
		return false, err
	}
	if indexOf[models.Vice](s.doc.Vices, viceID) < 0 {
		return false, nil
	}

	now := s.clock.Now()
	if date == "" {
		date = now.Format(dateFormat)
	}
	c := models.ViceCompletion{ViceID: viceID, Date: date, Status: status, RecordedAt: models.FormatTimestamp(now)}
	if err := c.Validate(); err != nil {
		return false, err
	}

	for i := range s.doc.ViceCompletions {
		existing := &s.doc.ViceCompletions[i]
		if existing.ViceID != viceID || existing.Date != date {
			continue
		}
		if existing.Status == status {
			s.doc.ViceCompletions = append(s.doc.ViceCompletions[:i], s.doc.ViceCompletions[i+1:]...)
			return true, s.commitLocked("unmark", "vice", viceID, true)
		}
		existing.Status = status
		existing.RecordedAt = c.RecordedAt
		existing.Touch(now)
		return true, s.commitLocked("mark", "vice", viceID, true)
	}

	c.Initialize(s.newID(), now)
	s.doc.ViceCompletions = append(s.doc.ViceCompletions, c)
	return true, s.commitLocked("mark", "vice", viceID, true)
}

// ViceStreak returns the current clean-day streak of a vice
func (s *Store) ViceStreak(viceID string) int {
	return stats.ViceStreak(viceID, s.GetViceCompletions(viceID), s.Today())
}
