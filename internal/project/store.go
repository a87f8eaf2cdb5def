package project

import "time"

// Store holds the current project for one window and derives the dirty
// flag from a clean snapshot of file contents. The snapshot is replaced
// wholesale on load, create, and successful save; never patched in place.
//
// A Store is owned exclusively by its window. It is not safe for
// concurrent use.
type Store struct {
	current     *Project
	snapshot    map[string]string
	dirty       bool
	lastSavedAt time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{snapshot: map[string]string{}}
}

// Current returns the loaded project, or nil.
func (s *Store) Current() *Project {
	return s.current
}

// Dirty reports whether any file differs from the clean snapshot.
func (s *Store) Dirty() bool {
	return s.dirty
}

// LastSavedAt returns the time of the last MarkClean, zero if never.
func (s *Store) LastSavedAt() time.Time {
	return s.lastSavedAt
}

// SetCurrent replaces the project and resets the clean snapshot to the
// incoming file contents. This is the load path: the result is never dirty.
func (s *Store) SetCurrent(p *Project) {
	s.current = p
	s.snapshot = map[string]string{}
	if p != nil {
		for _, f := range p.Files {
			s.snapshot[f.Name] = f.Content
		}
	}
	s.dirty = false
}

// UpdateFile replaces the content of the named file and recomputes the
// dirty flag over every file, not just the changed one. Editing a file
// back to its snapshot content makes the project clean again.
// Returns false (no-op) if no project is loaded or the file is unknown.
func (s *Store) UpdateFile(name, content string) bool {
	if s.current == nil {
		return false
	}
	f := s.current.FileByName(name)
	if f == nil {
		return false
	}
	f.Content = content
	s.current.UpdatedAt = time.Now()
	s.dirty = s.computeDirty()
	return true
}

// MarkClean snapshots the current file contents as the new clean baseline.
// Called after a confirmed save, and when the user explicitly discards
// unsaved changes. Idempotent.
func (s *Store) MarkClean() {
	s.snapshot = map[string]string{}
	if s.current != nil {
		for _, f := range s.current.Files {
			s.snapshot[f.Name] = f.Content
		}
	}
	s.dirty = false
	s.lastSavedAt = time.Now()
}

func (s *Store) computeDirty() bool {
	if s.current == nil {
		return false
	}
	for _, f := range s.current.Files {
		if s.snapshot[f.Name] != f.Content {
			return true
		}
	}
	return false
}
