package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	Convey("Given a minimal config file", t, func() {
		path := writeConfig(t, "http_server:\n  address: \"localhost:9999\"\n")

		Convey("When it is loaded", func() {
			cfg, err := Load(path)

			Convey("Then defaults fill the gaps", func() {
				So(err, ShouldBeNil)
				So(cfg.Env, ShouldEqual, "dev")
				So(cfg.App.Name, ShouldEqual, "students-api")
				So(cfg.App.Version, ShouldEqual, "0.1")
				So(cfg.Storage.Backend, ShouldEqual, BackendMemory)
				So(cfg.Storage.Path, ShouldEqual, ":memory:")
				So(cfg.Storage.SkipSeed, ShouldBeFalse)
				So(cfg.HTTPServer.Addr, ShouldEqual, "localhost:9999")
				So(cfg.HTTPServer.ReadTimeout, ShouldEqual, 10*time.Second)
				So(cfg.HTTPServer.ShutdownTimeout, ShouldEqual, 5*time.Second)
				So(cfg.Metrics.Disabled, ShouldBeFalse)
				So(cfg.Metrics.Namespace, ShouldEqual, "students")
			})
		})
	})

	Convey("Given a full config file", t, func() {
		path := writeConfig(t, `
env: "prod"
app:
  name: "registry"
  version: "2.0"
storage:
  backend: "sqlite"
  path: "/tmp/students.db"
  skip_seed: true
http_server:
  address: ":8082"
  read_timeout: 3s
metrics:
  disabled: true
`)

		Convey("When it is loaded", func() {
			cfg, err := Load(path)

			Convey("Then every value comes from the file", func() {
				So(err, ShouldBeNil)
				So(cfg.Env, ShouldEqual, "prod")
				So(cfg.App.Name, ShouldEqual, "registry")
				So(cfg.Storage.Backend, ShouldEqual, BackendSQLite)
				So(cfg.Storage.Path, ShouldEqual, "/tmp/students.db")
				So(cfg.Storage.SkipSeed, ShouldBeTrue)
				So(cfg.HTTPServer.ReadTimeout, ShouldEqual, 3*time.Second)
				So(cfg.Metrics.Disabled, ShouldBeTrue)
			})
		})
	})

	Convey("Given an unknown storage backend", t, func() {
		path := writeConfig(t, "storage:\n  backend: \"postgres\"\nhttp_server:\n  address: \":1\"\n")

		Convey("Then loading fails validation", func() {
			_, err := Load(path)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "Backend")
		})
	})

	Convey("Given a config without an address", t, func() {
		path := writeConfig(t, "env: \"dev\"\n")

		Convey("Then loading fails", func() {
			_, err := Load(path)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a path that does not exist", t, func() {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		Convey("Then loading fails", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, fs.ErrNotExist), ShouldBeTrue)
		})
	})
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("HTTP_SERVER_ADDR", ":7000")

	Convey("Given a file and overriding environment variables", t, func() {
		path := writeConfig(t, "storage:\n  backend: \"memory\"\nhttp_server:\n  address: \":1\"\n")

		Convey("Then the environment wins", func() {
			cfg, err := Load(path)
			So(err, ShouldBeNil)
			So(cfg.Storage.Backend, ShouldEqual, BackendSQLite)
			So(cfg.HTTPServer.Addr, ShouldEqual, ":7000")
		})
	})
}
