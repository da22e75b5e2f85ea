package result

import (
	"net/http"
	"sort"
)

// Failure codes shared across resources
const (
	CodeValidation   = "validation-error"
	CodeUnauthorized = "unauthorized"
)

// FieldErrors maps a field path to every message reported for it
type FieldErrors map[string][]string

// Add appends a message for a field
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Merge copies every field of other that f does not report yet.
// Fields already in f keep their own messages.
func (f FieldErrors) Merge(other FieldErrors) {
	for field, messages := range other {
		if _, exists := f[field]; !exists {
			f[field] = messages
		}
	}
}

// Fields returns the field paths in sorted order
func (f FieldErrors) Fields() []string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Failure is the error side of a Result. It carries a stable code, a human
// description and the HTTP status it maps to.
type Failure struct {
	Code        string      `json:"code"`
	Description string      `json:"description"`
	Status      int         `json:"-"`
	FieldErrors FieldErrors `json:"fieldErrors,omitempty"`
}

// NewFailure declares a failure kind
func NewFailure(code, description string, status int) *Failure {
	return &Failure{Code: code, Description: description, Status: status}
}

// Error implements error
func (f *Failure) Error() string {
	return f.Code + ": " + f.Description
}

// Is matches failures by code so declared kinds work with errors.Is
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	return ok && t.Code == f.Code
}

// Unauthorized is returned by the auth gate when no session is present
var Unauthorized = NewFailure(CodeUnauthorized, "A valid session is required", http.StatusUnauthorized)

// Validation builds a validation failure carrying every field violation
func Validation(fieldErrors FieldErrors) *Failure {
	return &Failure{
		Code:        CodeValidation,
		Description: "The request contains invalid fields",
		Status:      http.StatusBadRequest,
		FieldErrors: fieldErrors,
	}
}
