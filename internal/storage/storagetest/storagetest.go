// Package storagetest holds the behaviour every storage.Storage backend
// must show. Backend packages call Run from their own tests.
package storagetest

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Factory builds a fresh, empty store for one test case.
type Factory func(t *testing.T) storage.Storage

func ptr[T any](v T) *T { return &v }

// Run executes the shared contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	Convey("Given a seeded store", t, func() {
		s := newStore(t)
		Reset(func() { _ = s.Close() })
		So(storage.Seed(s, storage.SeedStudents()), ShouldBeNil)

		Convey("When getting a seeded id", func() {
			got, err := s.GetStudentByID(2)

			Convey("Then the exact record comes back", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, types.Student{Name: "Jane", Age: 22, Enrolled: false})
			})
		})

		Convey("When getting ids that were never stored", func() {
			Convey("Then every lookup is ErrNotFound", func() {
				for _, id := range []int64{0, 7, 42, 1 << 40} {
					_, err := s.GetStudentByID(id)
					So(errors.Is(err, storage.ErrNotFound), ShouldBeTrue)
				}
			})
		})

		Convey("When getting by name", func() {
			Convey("Then Jane resolves to id 2", func() {
				id, got, err := s.GetStudentByName("Jane")
				So(err, ShouldBeNil)
				So(id, ShouldEqual, int64(2))
				So(got, ShouldResemble, types.Student{Name: "Jane", Age: 22, Enrolled: false})
			})

			Convey("Then the match is case-sensitive", func() {
				_, _, err := s.GetStudentByName("jane")
				So(errors.Is(err, storage.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then an empty name matches no seeded student", func() {
				_, _, err := s.GetStudentByName("")
				So(errors.Is(err, storage.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then duplicates resolve to the lowest id", func() {
				_, err := s.CreateStudent(9, types.Student{Name: "Bob", Age: 40})
				So(err, ShouldBeNil)
				id, _, err := s.GetStudentByName("Bob")
				So(err, ShouldBeNil)
				So(id, ShouldEqual, int64(5))
			})
		})

		Convey("When listing", func() {
			all, err := s.GetStudents()

			Convey("Then the whole seed set comes back", func() {
				So(err, ShouldBeNil)
				So(all, ShouldResemble, storage.SeedStudents())
			})

			Convey("Then mutating the result does not touch the store", func() {
				delete(all, 1)
				n, err := s.Count()
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 6)
			})
		})

		Convey("When creating a new id", func() {
			rec := types.Student{Name: "Eve", Age: 19, Enrolled: false}
			created, err := s.CreateStudent(7, rec)

			Convey("Then the created record is returned and readable", func() {
				So(err, ShouldBeNil)
				So(created, ShouldResemble, rec)
				got, err := s.GetStudentByID(7)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, rec)
			})
		})

		Convey("When creating an existing id", func() {
			_, err := s.CreateStudent(1, types.Student{Name: "Mallory", Age: 99})

			Convey("Then ErrAlreadyExists is returned and the store is unchanged", func() {
				So(errors.Is(err, storage.ErrAlreadyExists), ShouldBeTrue)
				all, err := s.GetStudents()
				So(err, ShouldBeNil)
				So(all, ShouldResemble, storage.SeedStudents())
			})
		})

		Convey("When updating only age", func() {
			got, err := s.UpdateStudentByID(1, types.StudentPatch{Age: ptr(21)})

			Convey("Then unspecified fields keep their values", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, types.Student{Name: "John", Age: 21, Enrolled: true})
				stored, err := s.GetStudentByID(1)
				So(err, ShouldBeNil)
				So(stored, ShouldResemble, got)
			})
		})

		Convey("When updating with an empty patch", func() {
			got, err := s.UpdateStudentByID(3, types.StudentPatch{})

			Convey("Then the record is returned unchanged", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, types.Student{Name: "Doe", Age: 21, Enrolled: true})
			})
		})

		Convey("When updating a missing id", func() {
			_, err := s.UpdateStudentByID(99, types.StudentPatch{Name: ptr("Ghost")})

			Convey("Then ErrNotFound is returned and nothing is created", func() {
				So(errors.Is(err, storage.ErrNotFound), ShouldBeTrue)
				_, err := s.GetStudentByID(99)
				So(errors.Is(err, storage.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When deleting a seeded id", func() {
			So(s.DeleteStudentByID(4), ShouldBeNil)

			Convey("Then a later get is ErrNotFound", func() {
				_, err := s.GetStudentByID(4)
				So(errors.Is(err, storage.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then deleting it again is ErrNotFound", func() {
				So(errors.Is(s.DeleteStudentByID(4), storage.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When running N creates and M deletes", func() {
			want := storage.SeedStudents()
			for id := int64(10); id < 20; id++ {
				rec := types.Student{Name: fmt.Sprintf("S%d", id), Age: int(id), Enrolled: id%2 == 0}
				_, err := s.CreateStudent(id, rec)
				So(err, ShouldBeNil)
				want[id] = rec
			}
			for _, id := range []int64{1, 3, 11, 17} {
				So(s.DeleteStudentByID(id), ShouldBeNil)
				delete(want, id)
			}

			Convey("Then the listing is exactly the surviving set", func() {
				all, err := s.GetStudents()
				So(err, ShouldBeNil)
				So(all, ShouldResemble, want)
				n, err := s.Count()
				So(err, ShouldBeNil)
				So(n, ShouldEqual, len(want))
			})
		})

		Convey("When seeding the same store twice", func() {
			err := storage.Seed(s, storage.SeedStudents())

			Convey("Then the collision is reported", func() {
				So(errors.Is(err, storage.ErrAlreadyExists), ShouldBeTrue)
			})
		})

		Convey("When many goroutines bump the same record", func() {
			const workers = 20
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, _ = s.UpdateStudentByID(6, types.StudentPatch{Age: ptr(100 + i)})
					_, _ = s.GetStudentByID(6)
				}(i)
			}
			wg.Wait()

			Convey("Then the record holds one of the written values intact", func() {
				got, err := s.GetStudentByID(6)
				So(err, ShouldBeNil)
				So(got.Name, ShouldEqual, "Charlie")
				So(got.Enrolled, ShouldBeTrue)
				So(got.Age, ShouldBeBetweenOrEqual, 100, 100+workers-1)
			})
		})
	})
}
