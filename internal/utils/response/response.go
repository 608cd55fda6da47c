// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Success responses may be any JSON shape (a student, a map of students,
// a message). Error responses always look like:
//
//	{ "status": "error", "error": "not found" }
package response

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the standard envelope returned for error cases.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Message is the body of acknowledgements such as a successful delete:
//
//	{ "message": "deleted" }
type Message struct {
	Message string `json:"message"`
}

// Status values used in Response.Status.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON sets the JSON content type, writes status, then encodes data.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// The status line is already on the wire; all we can do is log.
		slog.Error("failed to encode response", slog.String("error", err.Error()))
		return fmt.Errorf("WriteJSON: encode: %w", err)
	}
	return nil
}

// GeneralError wraps any Go error into the standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ErrorMessage builds the standard Response from a plain message.
// Handlers use it for domain errors so internal wrapping context
// ("GetStudentByID: id 7: not found") never reaches the client.
func ErrorMessage(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError converts validator.ValidationErrors into a single
// human-readable Response, one sentence per failing field:
//
//	{ "status": "error", "error": "field Name is required, field Age is required" }
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}
