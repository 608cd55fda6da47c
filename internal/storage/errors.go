package storage

import "errors"

// Sentinel errors shared by every backend. Backends wrap them with
// fmt.Errorf("...: %w", ErrNotFound) so callers match with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)
