package storage

import (
	"fmt"
	"maps"
	"slices"

	"github.com/aanand-mishra/student-records/internal/types"
)

// SeedStudents returns the records a fresh store starts with.
// A new map is built on every call so callers may modify it freely.
func SeedStudents() map[int64]types.Student {
	return map[int64]types.Student{
		1: {Name: "John", Age: 20, Enrolled: true},
		2: {Name: "Jane", Age: 22, Enrolled: false},
		3: {Name: "Doe", Age: 21, Enrolled: true},
		4: {Name: "Alice", Age: 23, Enrolled: true},
		5: {Name: "Bob", Age: 24, Enrolled: false},
		6: {Name: "Charlie", Age: 25, Enrolled: true},
	}
}

// Seed inserts students into s in ascending id order and stops at the
// first failure. Seeding a store that already holds one of the ids
// therefore fails with ErrAlreadyExists.
func Seed(s Storage, students map[int64]types.Student) error {
	for _, id := range slices.Sorted(maps.Keys(students)) {
		if _, err := s.CreateStudent(id, students[id]); err != nil {
			return fmt.Errorf("Seed: id %d: %w", id, err)
		}
	}
	return nil
}
