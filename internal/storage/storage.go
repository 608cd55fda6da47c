// Package storage defines the Storage interface — a contract that any
// record-store backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// Handlers (HTTP layer) should not know or care which backend they are
// talking to. Two backends ship with the service:
//
//   - memory: a plain Go map behind a mutex (the default)
//   - sqlite: the same contract on top of SQLite
//
// Tests for the HTTP layer use the memory backend, so no database is
// needed to exercise the handlers.
package storage

import "github.com/aanand-mishra/student-records/internal/types"

// Storage is the record-store contract.
//
// IDs are chosen by the caller (they come from the URL path); the store
// never generates them. All methods are safe for concurrent use.
type Storage interface {
	// CreateStudent inserts student under id.
	// Returns ErrAlreadyExists (and leaves the store unchanged) if id is taken.
	CreateStudent(id int64, student types.Student) (types.Student, error)

	// GetStudentByID fetches a single student by id.
	// Returns ErrNotFound if there is no such id.
	GetStudentByID(id int64) (types.Student, error)

	// GetStudentByName returns the first student (lowest id) whose name
	// equals name exactly. Returns ErrNotFound if nobody matches.
	GetStudentByName(name string) (int64, types.Student, error)

	// GetStudents returns every student keyed by id.
	// The map is a copy: mutating it does not touch the store.
	GetStudents() (map[int64]types.Student, error)

	// UpdateStudentByID merges the present fields of patch onto the stored
	// record and returns the result. Returns ErrNotFound if there is no such id.
	UpdateStudentByID(id int64, patch types.StudentPatch) (types.Student, error)

	// DeleteStudentByID removes a student. Returns ErrNotFound if there is
	// no such id.
	DeleteStudentByID(id int64) error

	// Count returns the number of stored students.
	Count() (int, error)

	// Close releases backend resources. The store must not be used afterwards.
	Close() error
}
