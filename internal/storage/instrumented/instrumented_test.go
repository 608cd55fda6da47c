package instrumented

import (
	"sync"
	"testing"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/memory"
	"github.com/aanand-mishra/student-records/internal/storage/storagetest"
	"github.com/aanand-mishra/student-records/internal/types"
	. "github.com/smartystreets/goconvey/convey"
)

type call struct{ operation, result string }

// fakeRecorder is shared by the concurrent contract cases, so it locks.
type fakeRecorder struct {
	mu    sync.Mutex
	calls []call
}

func (f *fakeRecorder) RecordStoreOperation(operation, result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{operation, result})
}

func (f *fakeRecorder) snapshot() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func TestInstrumentedContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		return New(memory.New(), &fakeRecorder{})
	})
}

func TestInstrumentedRecords(t *testing.T) {
	Convey("Given an instrumented memory store", t, func() {
		rec := &fakeRecorder{}
		s := New(memory.New(), rec)

		Convey("When operations succeed and fail", func() {
			_, _ = s.CreateStudent(1, types.Student{Name: "John", Age: 20, Enrolled: true})
			_, _ = s.CreateStudent(1, types.Student{Name: "John", Age: 20, Enrolled: true})
			_, _ = s.GetStudentByID(2)
			_, _, _ = s.GetStudentByName("John")
			_, _ = s.GetStudents()
			_, _ = s.UpdateStudentByID(3, types.StudentPatch{})
			_ = s.DeleteStudentByID(1)
			_, _ = s.Count()

			Convey("Then each outcome is recorded in order", func() {
				So(rec.snapshot(), ShouldResemble, []call{
					{"create", "ok"},
					{"create", "already_exists"},
					{"get_by_id", "not_found"},
					{"get_by_name", "ok"},
					{"list", "ok"},
					{"update", "not_found"},
					{"delete", "ok"},
				})
			})
		})

		Convey("When many goroutines read at once", func() {
			_, _ = s.CreateStudent(1, types.Student{Name: "John", Age: 20, Enrolled: true})

			var wg sync.WaitGroup
			for range 20 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _ = s.GetStudentByID(1)
				}()
			}
			wg.Wait()

			Convey("Then every call is recorded", func() {
				calls := rec.snapshot()
				So(calls, ShouldHaveLength, 21)
				for _, c := range calls[1:] {
					So(c, ShouldResemble, call{"get_by_id", "ok"})
				}
			})
		})
	})
}
