package memory

import (
	"testing"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/storagetest"
	"github.com/aanand-mishra/student-records/internal/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage { return New() })
}

func TestMemoryClose(t *testing.T) {
	Convey("Given a store with one record", t, func() {
		m := New()
		_, err := m.CreateStudent(1, types.Student{Name: "John", Age: 20, Enrolled: true})
		So(err, ShouldBeNil)

		Convey("When it is closed", func() {
			So(m.Close(), ShouldBeNil)

			Convey("Then it is empty", func() {
				n, err := m.Count()
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
			})
		})
	})
}
