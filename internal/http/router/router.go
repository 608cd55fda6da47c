// Package router builds the service's route table.
package router

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-records/internal/http/handlers/student"
	"github.com/aanand-mishra/student-records/internal/http/middleware"
	"github.com/aanand-mishra/student-records/internal/metrics"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/utils/response"
)

// Route table:
//
//	GET    /                       → service name and version
//	GET    /get-student/{id}       → one student by id
//	GET    /get-student-by-name    → first student with ?name=
//	GET    /get-all-students       → every student keyed by id
//	POST   /create-student/{id}    → create a student under id
//	PUT    /update-student/{id}    → merge fields onto a student
//	DELETE /delete-student/{id}    → delete a student
//	GET    /healthz                → liveness
//	GET    /metrics                → Prometheus exposition (when enabled)
//
// "GET /{$}" matches only the bare root; a plain "/" pattern would
// swallow every unknown path.

// New returns the fully wrapped handler. m may be nil to disable metrics.
func New(store storage.Storage, meta types.Metadata, m *metrics.Manager, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	handle := func(pattern, endpoint string, h http.HandlerFunc) {
		if m == nil {
			mux.Handle(pattern, h)
			return
		}
		mux.Handle(pattern, middleware.Metrics(m, endpoint, h))
	}

	handle("GET /{$}", "index", student.Index(meta))
	handle("GET /get-student/{id}", "get_student", student.GetByID(store))
	handle("GET /get-student-by-name", "get_student_by_name", student.GetByName(store))
	handle("GET /get-all-students", "get_all_students", student.GetList(store))
	handle("POST /create-student/{id}", "create_student", student.New(store))
	handle("PUT /update-student/{id}", "update_student", student.Update(store))
	handle("DELETE /delete-student/{id}", "delete_student", student.Delete(store))
	handle("GET /healthz", "healthz", health)

	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	return middleware.RequestID(middleware.Logger(log)(mux))
}

func health(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": response.StatusOK})
}
