// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a store.
// Each exported function below is a factory: it accepts the dependencies
// once, at route registration, and returns the handler that runs on
// every request.
//
//	router.HandleFunc("GET /get-student/{id}", student.GetByID(storage))
//
// ERROR MAPPING
// ─────────────
//
//	storage.ErrNotFound      → 404 { "status": "error", "error": "not found" }
//	storage.ErrAlreadyExists → 409 { "status": "error", "error": "already exists" }
//	bad id / body            → 400
//	anything else            → 500
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// Client-facing error messages.
const (
	msgNotFound      = "not found"
	msgAlreadyExists = "already exists"
	msgInvalidID     = "invalid id: must be a positive integer"
	msgEmptyBody     = "request body is empty"
	msgInternal      = "internal server error"
	msgDeleted       = "deleted"
)

// validator.Validate caches struct metadata and is safe for concurrent use,
// so one instance serves every request.
var validate = validator.New()

// ─────────────────────────────────────────────────────────────────────────────
// Index handles GET /
// Returns the service name and version:
//
//	{ "name": "students-api", "version": "0.1" }
//
// ─────────────────────────────────────────────────────────────────────────────
func Index(meta types.Metadata) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, meta)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /get-student/{id}
//
// Success response (200 OK):
//
//	{ "name": "Jane", "age": 22, "enrolled": false }
//
// Error responses:
//
//	400 Bad Request — id is not a positive integer
//	404 Not Found   — no student with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", slog.Int64("id", id))

		student, err := storage.GetStudentByID(id)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByName handles GET /get-student-by-name?name=Jane
//
// Returns the first student (lowest id) whose name matches exactly,
// keyed by id:
//
//	{ "2": { "name": "Jane", "age": 22, "enrolled": false } }
//
// The match is case-sensitive. A request without the name parameter is
// always 404, even if some student has an empty name; an explicit
// ?name= searches for the empty name literally.
// ─────────────────────────────────────────────────────────────────────────────
func GetByName(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if !query.Has("name") {
			slog.Info("getting a student by name without a name")
			response.WriteJSON(w, http.StatusNotFound, response.ErrorMessage(msgNotFound))
			return
		}
		name := query.Get("name")
		slog.Info("getting a student by name", slog.String("name", name))

		id, student, err := storage.GetStudentByName(name)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, map[int64]types.Student{id: student})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /get-all-students
// Returns every student keyed by id. encoding/json writes integer map keys
// as strings, sorted:
//
//	{ "1": { ... }, "2": { ... } }
//
// An empty store encodes as {} (never null).
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := storage.GetStudents()
		if err != nil {
			writeStoreError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /create-student/{id}
//
// Request body (JSON) — every field required:
//
//	{ "name": "Eve", "age": 19, "enrolled": false }
//
// Success response (201 Created) — the created student.
//
// Error responses:
//
//	400 Bad Request — invalid id, empty/malformed body, or missing field
//	409 Conflict    — the id is already taken
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("creating a student", slog.Int64("id", id))

		var req types.CreateStudentRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if err := validate.Struct(req); err != nil {
			var validateErrs validator.ValidationErrors
			if errors.As(err, &validateErrs) {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(validateErrs))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		created, err := storage.CreateStudent(id, req.Student())
		if err != nil {
			writeStoreError(w, err)
			return
		}

		slog.Info("student created", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /update-student/{id}
// Merges the given fields onto the existing student. Fields left out of
// the body keep their current values.
//
// Request body (JSON) — any subset of fields:
//
//	{ "age": 21 }
//
// Success response (200 OK) — the merged student.
//
// Error responses:
//
//	400 Bad Request — invalid id or empty/malformed body
//	404 Not Found   — no student with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		var patch types.StudentPatch
		if !decodeBody(w, r, &patch) {
			return
		}

		updated, err := storage.UpdateStudentByID(id, patch)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /delete-student/{id}
//
// Success response (200 OK):
//
//	{ "message": "deleted" }
//
// Error responses:
//
//	400 Bad Request — invalid id
//	404 Not Found   — no student with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		if err := storage.DeleteStudentByID(id); err != nil {
			writeStoreError(w, err)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, response.Message{Message: msgDeleted})
	}
}

// parseID reads the {id} path segment. On failure it writes the 400
// response itself and returns ok == false.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		slog.Debug("rejecting id", slog.String("id", raw))
		response.WriteJSON(w, http.StatusBadRequest, response.ErrorMessage(msgInvalidID))
		return 0, false
	}
	return id, true
}

// decodeBody decodes the JSON request body into dst. On failure it writes
// the 400 response itself and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest, response.ErrorMessage(msgEmptyBody))
		return false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}
	return true
}

// writeStoreError maps a store error to its status code and body.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.WriteJSON(w, http.StatusNotFound, response.ErrorMessage(msgNotFound))
	case errors.Is(err, storage.ErrAlreadyExists):
		response.WriteJSON(w, http.StatusConflict, response.ErrorMessage(msgAlreadyExists))
	default:
		slog.Error("store error", slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.ErrorMessage(msgInternal))
	}
}
