// Package instrumented wraps a storage.Storage and reports the outcome of
// every call to a Recorder.
package instrumented

import (
	"errors"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

// Recorder receives one call per store operation.
// *metrics.Manager satisfies it.
type Recorder interface {
	RecordStoreOperation(operation, result string)
}

// Store forwards to the wrapped backend and records each result.
type Store struct {
	next     storage.Storage
	recorder Recorder
}

// New wraps next.
func New(next storage.Storage, recorder Recorder) *Store {
	return &Store{next: next, recorder: recorder}
}

func (s *Store) record(operation string, err error) {
	s.recorder.RecordStoreOperation(operation, result(err))
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, storage.ErrNotFound):
		return "not_found"
	case errors.Is(err, storage.ErrAlreadyExists):
		return "already_exists"
	default:
		return "error"
	}
}

// CreateStudent forwards to the wrapped store and records the result as "create".
func (s *Store) CreateStudent(id int64, student types.Student) (types.Student, error) {
	created, err := s.next.CreateStudent(id, student)
	s.record("create", err)
	return created, err
}

// GetStudentByID forwards to the wrapped store and records the result as "get_by_id".
func (s *Store) GetStudentByID(id int64) (types.Student, error) {
	student, err := s.next.GetStudentByID(id)
	s.record("get_by_id", err)
	return student, err
}

// GetStudentByName forwards to the wrapped store and records the result as "get_by_name".
func (s *Store) GetStudentByName(name string) (int64, types.Student, error) {
	id, student, err := s.next.GetStudentByName(name)
	s.record("get_by_name", err)
	return id, student, err
}

// GetStudents forwards to the wrapped store and records the result as "list".
func (s *Store) GetStudents() (map[int64]types.Student, error) {
	students, err := s.next.GetStudents()
	s.record("list", err)
	return students, err
}

// UpdateStudentByID forwards to the wrapped store and records the result as "update".
func (s *Store) UpdateStudentByID(id int64, patch types.StudentPatch) (types.Student, error) {
	updated, err := s.next.UpdateStudentByID(id, patch)
	s.record("update", err)
	return updated, err
}

// DeleteStudentByID forwards to the wrapped store and records the result as "delete".
func (s *Store) DeleteStudentByID(id int64) error {
	err := s.next.DeleteStudentByID(id)
	s.record("delete", err)
	return err
}

// Count is not recorded; it is polled by the records gauge on every scrape.
func (s *Store) Count() (int, error) {
	return s.next.Count()
}

// Close closes the wrapped store. It is not recorded.
func (s *Store) Close() error {
	return s.next.Close()
}

var _ storage.Storage = (*Store)(nil)
