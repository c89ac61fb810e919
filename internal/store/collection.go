package store

import (
	"github.com/julianstephens/glowup/internal/models"
)

// record constrains P to the pointer type of a stored record
type record[T any] interface {
	*T
	models.Entity
}

func list[T any](s *Store, pick func(*models.Document) *[]T) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Clone(*pick(&s.doc))
}

func get[T any, P record[T]](s *Store, pick func(*models.Document) *[]T, id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := *pick(&s.doc)
	if i := indexOf[T, P](items, id); i >= 0 {
		return models.Clone(items[i]), true
	}
	var zero T
	return zero, false
}

func indexOf[T any, P record[T]](items []T, id string) int {
	for i := range items {
		if P(&items[i]).GetID() == id {
			return i
		}
	}
	return -1
}

// add assigns an id and creation time to rec, validates it and appends it.
func add[T any, P record[T]](s *Store, kind string, pick func(*models.Document) *[]T, rec T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLoaded(); err != nil {
		return rec, err
	}

	rec = models.Clone(rec)
	P(&rec).Initialize(s.newID(), s.clock.Now())
	if err := P(&rec).Validate(); err != nil {
		return rec, err
	}

	coll := pick(&s.doc)
	*coll = append(*coll, rec)
	err := s.commitLocked("add", kind, P(&rec).GetID(), true)
	return models.Clone(rec), err
}

// update applies patch to a copy of the record with the given id. Identity fields are
// restored after the patch, so a patch cannot move or re-date a record.
func update[T any, P record[T]](s *Store, kind string, pick func(*models.Document) *[]T, id string, patch func(*T)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLoaded(); err != nil {
		return false, err
	}

	coll := pick(&s.doc)
	i := indexOf[T, P](*coll, id)
	if i < 0 {
		return false, nil
	}

	orig := *P(&(*coll)[i]).Identity()
	next := models.Clone((*coll)[i])
	patch(&next)
	meta := P(&next).Identity()
	*meta = orig
	if err := P(&next).Validate(); err != nil {
		return false, err
	}
	P(&next).Touch(s.clock.Now())

	(*coll)[i] = next
	return true, s.commitLocked("update", kind, id, true)
}

func remove[T any, P record[T]](s *Store, kind string, pick func(*models.Document) *[]T, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLoaded(); err != nil {
		return false, err
	}

	coll := pick(&s.doc)
	i := indexOf[T, P](*coll, id)
	if i < 0 {
		return false, nil
	}
	*coll = append((*coll)[:i], (*coll)[i+1:]...)
	return true, s.commitLocked("delete", kind, id, true)
}

// removeWhere drops every element matching fn and reports how many were removed
func removeWhere[T any](items *[]T, fn func(*T) bool) int {
	kept := (*items)[:0]
	n := 0
	for i := range *items {
		if fn(&(*items)[i]) {
			n++
			continue
		}
		kept = append(kept, (*items)[i])
	}
	*items = kept
	return n
}
