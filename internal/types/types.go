// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
package types

// Student represents a student record in our system.
//
// The student's ID is NOT a field here: it is the key the record is
// stored under, chosen by the caller and carried in the URL path.
// Responses therefore look like { "name": "John", "age": 20, "enrolled": true }
// and listings look like { "1": { ... }, "2": { ... } }.
type Student struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Enrolled bool   `json:"enrolled"`
}

// CreateStudentRequest is the body of POST /create-student/{id}.
//
// Every field is a pointer so that "missing" can be told apart from a
// legitimate zero value. Without pointers, { "age": 0, "enrolled": false }
// would fail validate:"required", because validator treats 0 and false
// as "not set".
//
// On a pointer, "required" means: the pointer must be non-nil.
type CreateStudentRequest struct {
	Name     *string `json:"name"     validate:"required"`
	Age      *int    `json:"age"      validate:"required"`
	Enrolled *bool   `json:"enrolled" validate:"required"`
}

// Student converts a validated request into a Student.
// Call it only after validation has passed; nil fields become zero values.
func (r CreateStudentRequest) Student() Student {
	var s Student
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Age != nil {
		s.Age = *r.Age
	}
	if r.Enrolled != nil {
		s.Enrolled = *r.Enrolled
	}
	return s
}

// StudentPatch is the body of PUT /update-student/{id}.
//
// A nil field means "leave this field alone". This is merge semantics,
// not replace semantics:
//
//	existing: { "name": "John", "age": 20, "enrolled": true }
//	patch:    { "age": 21 }
//	result:   { "name": "John", "age": 21, "enrolled": true }
type StudentPatch struct {
	Name     *string `json:"name,omitempty"`
	Age      *int    `json:"age,omitempty"`
	Enrolled *bool   `json:"enrolled,omitempty"`
}

// Apply returns a copy of s with every present field of p written over it.
func (p StudentPatch) Apply(s Student) Student {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Age != nil {
		s.Age = *p.Age
	}
	if p.Enrolled != nil {
		s.Enrolled = *p.Enrolled
	}
	return s
}

// IsEmpty reports whether the patch sets no field at all.
func (p StudentPatch) IsEmpty() bool {
	return p.Name == nil && p.Age == nil && p.Enrolled == nil
}

// Metadata is returned by GET / and identifies the running service.
type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
