// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file (or, with the special path
// ":memory:", entirely in RAM). There is no network, no separate server
// process, and no installation beyond the driver.
//
// The default configuration uses ":memory:", which keeps the service's
// "lost on restart" behaviour. Point storage.path at a file to keep data.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"

	// Importing the driver registers "sqlite3" with database/sql.
	// We also use its Error type to recognise constraint violations.
	"github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.Storage.Path, creates the
// students table if it does not already exist, and returns a
// ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Every connection to ":memory:" gets its OWN private database.
	// With a pool of several connections, a row written on one would be
	// invisible on another. Pinning the pool to a single connection
	// fixes that and also serialises every statement, which is exactly
	// the single-writer discipline this store needs.
	db.SetMaxOpenConns(1)

	// Schema:
	//   id       — chosen by the caller, so no AUTOINCREMENT
	//   name     — student's name
	//   age      — student's age in years
	//   enrolled — 0 / 1
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id       INTEGER PRIMARY KEY,
			name     TEXT    NOT NULL,
			age      INTEGER NOT NULL,
			enrolled BOOLEAN NOT NULL
		)
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateStudent inserts a new row under the caller's id.
//
// We don't check for the id first and then insert — another request could
// slip in between. Instead we let the PRIMARY KEY constraint reject the
// duplicate and translate that specific driver error into
// storage.ErrAlreadyExists.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) CreateStudent(id int64, student types.Student) (types.Student, error) {
	stmt, err := s.Db.Prepare(
		"INSERT INTO students (id, name, age, enrolled) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(id, student.Name, student.Age, student.Enrolled)
	if err != nil {
		if isPrimaryKeyViolation(err) {
			return types.Student{}, fmt.Errorf("CreateStudent: id %d: %w", id, storage.ErrAlreadyExists)
		}
		return types.Student{}, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	return student, nil
}

// GetStudentByID fetches exactly one student row matched by primary key.
func (s *SQLite) GetStudentByID(id int64) (types.Student, error) {
	stmt, err := s.Db.Prepare(
		"SELECT name, age, enrolled FROM students WHERE id = ? LIMIT 1",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	var student types.Student
	err = stmt.QueryRow(id).Scan(&student.Name, &student.Age, &student.Enrolled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, fmt.Errorf("GetStudentByID: id %d: %w", id, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// GetStudentByName returns the lowest-id row whose name matches exactly.
// SQLite's = on TEXT is case-sensitive by default (BINARY collation).
func (s *SQLite) GetStudentByName(name string) (int64, types.Student, error) {
	stmt, err := s.Db.Prepare(
		"SELECT id, name, age, enrolled FROM students WHERE name = ? ORDER BY id LIMIT 1",
	)
	if err != nil {
		return 0, types.Student{}, fmt.Errorf("GetStudentByName: prepare: %w", err)
	}
	defer stmt.Close()

	var (
		id      int64
		student types.Student
	)
	err = stmt.QueryRow(name).Scan(&id, &student.Name, &student.Age, &student.Enrolled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, types.Student{}, fmt.Errorf("GetStudentByName: name %q: %w", name, storage.ErrNotFound)
		}
		return 0, types.Student{}, fmt.Errorf("GetStudentByName: scan: %w", err)
	}

	return id, student, nil
}

// GetStudents returns all rows keyed by id.
func (s *SQLite) GetStudents() (map[int64]types.Student, error) {
	stmt, err := s.Db.Prepare("SELECT id, name, age, enrolled FROM students")
	if err != nil {
		return nil, fmt.Errorf("GetStudents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	// Non-nil so an empty store encodes as {} rather than null.
	students := make(map[int64]types.Student)

	for rows.Next() {
		var (
			id      int64
			student types.Student
		)
		if err := rows.Scan(&id, &student.Name, &student.Age, &student.Enrolled); err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students[id] = student
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateStudentByID merges patch onto the stored row.
//
// Read, merge and write happen inside one transaction so the merge is
// always applied to the row as it is at write time.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) UpdateStudentByID(id int64, patch types.StudentPatch) (types.Student, error) {
	tx, err := s.Db.Begin()
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op returning ErrTxDone.
	defer func() { _ = tx.Rollback() }()

	var existing types.Student
	err = tx.QueryRow(
		"SELECT name, age, enrolled FROM students WHERE id = ?", id,
	).Scan(&existing.Name, &existing.Age, &existing.Enrolled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, fmt.Errorf("UpdateStudentByID: id %d: %w", id, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("UpdateStudentByID: select: %w", err)
	}

	updated := patch.Apply(existing)

	_, err = tx.Exec(
		"UPDATE students SET name = ?, age = ?, enrolled = ? WHERE id = ?",
		updated.Name, updated.Age, updated.Enrolled, id,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: commit: %w", err)
	}

	return updated, nil
}

// DeleteStudentByID removes a student row by primary key.
// RowsAffected tells us whether the id existed.
func (s *SQLite) DeleteStudentByID(id int64) error {
	stmt, err := s.Db.Prepare("DELETE FROM students WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("DeleteStudentByID: id %d: %w", id, storage.ErrNotFound)
	}

	return nil
}

// Count returns the number of rows in the students table.
func (s *SQLite) Count() (int, error) {
	var n int
	if err := s.Db.QueryRow("SELECT COUNT(*) FROM students").Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: scan: %w", err)
	}
	return n, nil
}

// Close closes the connection pool. For ":memory:" this discards the data.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// isPrimaryKeyViolation reports whether err is SQLite's
// "UNIQUE constraint failed" on the primary key.
func isPrimaryKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

var _ storage.Storage = (*SQLite)(nil)
