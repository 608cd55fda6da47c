package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage/memory"
	"github.com/aanand-mishra/student-records/internal/storage/sqlite"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOpenStorage(t *testing.T) {
	Convey("Given storage configs", t, func() {
		Convey("memory opens a map store", func() {
			s, err := openStorage(&config.Config{Storage: config.Storage{Backend: config.BackendMemory}})
			So(err, ShouldBeNil)
			_, ok := s.(*memory.Memory)
			So(ok, ShouldBeTrue)
		})

		Convey("sqlite opens an in-memory database", func() {
			s, err := openStorage(&config.Config{Storage: config.Storage{Backend: config.BackendSQLite, Path: ":memory:"}})
			So(err, ShouldBeNil)
			_, ok := s.(*sqlite.SQLite)
			So(ok, ShouldBeTrue)
			So(s.Close(), ShouldBeNil)
		})

		Convey("an unknown backend is rejected", func() {
			_, err := openStorage(&config.Config{Storage: config.Storage{Backend: "redis"}})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSetupLogger(t *testing.T) {
	Convey("Given each environment", t, func() {
		ctx := context.Background()

		So(setupLogger("prod").Enabled(ctx, slog.LevelDebug), ShouldBeFalse)
		So(setupLogger("prod").Enabled(ctx, slog.LevelInfo), ShouldBeTrue)
		So(setupLogger("staging").Enabled(ctx, slog.LevelDebug), ShouldBeTrue)
		So(setupLogger("dev").Enabled(ctx, slog.LevelDebug), ShouldBeTrue)
	})
}
