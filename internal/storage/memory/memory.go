// Package memory provides an in-process implementation of the
// storage.Storage interface backed by a plain Go map.
//
// Everything lives in RAM: the data disappears when the process exits.
//
// CONCURRENCY
// ───────────
// net/http serves every request on its own goroutine, so two requests
// can touch the map at the same time. Go maps are NOT safe for that —
// concurrent writes crash the program. A sync.RWMutex serialises access:
//
//   - readers (Get*, Count) take RLock and may run side by side
//   - writers (Create, Update, Delete) take Lock and run alone
//
// Update reads, merges and writes under a single Lock, so no other
// request can observe a half-merged record or lose an update.
package memory

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

// Memory is the map-backed implementation of storage.Storage.
// The zero value is not usable; construct it with New.
type Memory struct {
	mu       sync.RWMutex
	students map[int64]types.Student
}

// New returns an empty store.
func New() *Memory {
	return &Memory{students: make(map[int64]types.Student)}
}

// CreateStudent inserts student under id unless the id is taken.
func (m *Memory) CreateStudent(id int64, student types.Student) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[id]; ok {
		return types.Student{}, fmt.Errorf("CreateStudent: id %d: %w", id, storage.ErrAlreadyExists)
	}
	m.students[id] = student
	return student, nil
}

// GetStudentByID returns the record stored under id.
func (m *Memory) GetStudentByID(id int64) (types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	student, ok := m.students[id]
	if !ok {
		return types.Student{}, fmt.Errorf("GetStudentByID: id %d: %w", id, storage.ErrNotFound)
	}
	return student, nil
}

// GetStudentByName scans ids in ascending order and returns the first
// exact match. Map iteration order in Go is random, so the keys are
// sorted first to make "first" well defined.
func (m *Memory) GetStudentByName(name string) (int64, types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range slices.Sorted(maps.Keys(m.students)) {
		if student := m.students[id]; student.Name == name {
			return id, student, nil
		}
	}
	return 0, types.Student{}, fmt.Errorf("GetStudentByName: name %q: %w", name, storage.ErrNotFound)
}

// GetStudents returns a copy of the whole map.
func (m *Memory) GetStudents() (map[int64]types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return maps.Clone(m.students), nil
}

// UpdateStudentByID merges patch onto the stored record.
func (m *Memory) UpdateStudentByID(id int64, patch types.StudentPatch) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.students[id]
	if !ok {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: id %d: %w", id, storage.ErrNotFound)
	}
	updated := patch.Apply(existing)
	m.students[id] = updated
	return updated, nil
}

// DeleteStudentByID removes the record stored under id.
func (m *Memory) DeleteStudentByID(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[id]; !ok {
		return fmt.Errorf("DeleteStudentByID: id %d: %w", id, storage.ErrNotFound)
	}
	delete(m.students, id)
	return nil
}

// Count returns the number of stored records.
func (m *Memory) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.students), nil
}

// Close drops every record. The store is empty (but still usable) afterwards.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.students)
	return nil
}

var _ storage.Storage = (*Memory)(nil)
