package router

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aanand-mishra/student-records/internal/http/middleware"
	"github.com/aanand-mishra/student-records/internal/metrics"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/memory"
	"github.com/aanand-mishra/student-records/internal/types"
	. "github.com/smartystreets/goconvey/convey"
)

var meta = types.Metadata{Name: "students-api", Version: "0.1"}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newServer(m *metrics.Manager) *httptest.Server {
	store := memory.New()
	if err := storage.Seed(store, storage.SeedStudents()); err != nil {
		panic(err)
	}
	return httptest.NewServer(New(store, meta, m, quietLogger()))
}

func send(srv *httptest.Server, method, path, body string) (*http.Response, string) {
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	So(err, ShouldBeNil)
	resp, err := srv.Client().Do(req)
	So(err, ShouldBeNil)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	So(err, ShouldBeNil)
	return resp, string(b)
}

func TestRouterLifecycle(t *testing.T) {
	Convey("Given a running server", t, func() {
		srv := newServer(metrics.NewManager())
		Reset(srv.Close)

		Convey("When a student goes through create, update, read and delete", func() {
			resp, _ := send(srv, http.MethodPost, "/create-student/10", `{"name":"Ana","age":30,"enrolled":true}`)
			So(resp.StatusCode, ShouldEqual, http.StatusCreated)

			resp, body := send(srv, http.MethodPut, "/update-student/10", `{"name":"Ana Maria"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body, ShouldEqual, "{\"name\":\"Ana Maria\",\"age\":30,\"enrolled\":true}\n")

			resp, body = send(srv, http.MethodGet, "/get-student-by-name?name=Ana+Maria", "")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body, ShouldStartWith, "{\"10\":")

			resp, _ = send(srv, http.MethodDelete, "/delete-student/10", "")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			Convey("Then the listing is back to the seed set", func() {
				resp, body := send(srv, http.MethodGet, "/get-all-students", "")
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var all map[int64]types.Student
				So(json.Unmarshal([]byte(body), &all), ShouldBeNil)
				So(all, ShouldResemble, storage.SeedStudents())
			})
		})

		Convey("When calling the root", func() {
			resp, body := send(srv, http.MethodGet, "/", "")

			Convey("Then metadata is returned with a request id", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body, ShouldEqual, "{\"name\":\"students-api\",\"version\":\"0.1\"}\n")
				So(resp.Header.Get(middleware.RequestIDHeader), ShouldNotBeEmpty)
			})
		})

		Convey("When calling an unknown path", func() {
			resp, _ := send(srv, http.MethodGet, "/nope", "")
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("When using the wrong method", func() {
			resp, _ := send(srv, http.MethodGet, "/delete-student/1", "")
			So(resp.StatusCode, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("When checking health", func() {
			resp, body := send(srv, http.MethodGet, "/healthz", "")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body, ShouldEqual, "{\"status\":\"ok\"}\n")
		})
	})
}

func TestRouterMetrics(t *testing.T) {
	Convey("Given a server with metrics", t, func() {
		m := metrics.NewManager(metrics.WithNamespace("rt"))
		srv := newServer(m)
		Reset(srv.Close)

		Convey("When requests succeed and fail", func() {
			send(srv, http.MethodGet, "/get-student/1", "")
			send(srv, http.MethodGet, "/get-student/99", "")

			Convey("Then /metrics exposes both outcomes", func() {
				resp, body := send(srv, http.MethodGet, "/metrics", "")
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body, ShouldContainSubstring, fmt.Sprintf(`rt_api_http_requests_total{endpoint="get_student",method="GET",status_code="%d"} 1`, http.StatusOK))
				So(body, ShouldContainSubstring, `rt_api_http_requests_total{endpoint="get_student",method="GET",status_code="404"} 1`)
				So(body, ShouldContainSubstring, `rt_api_errors_by_endpoint_total{endpoint="get_student",error_type="not_found",method="GET"} 1`)
			})
		})
	})

	Convey("Given a server without metrics", t, func() {
		srv := newServer(nil)
		Reset(srv.Close)

		Convey("Then /metrics is not routed", func() {
			resp, _ := send(srv, http.MethodGet, "/metrics", "")
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}
