// Package apperr holds the error taxonomy shared by services and adapters.
package apperr

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a slug, id or username does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when a user tries to change something they do not own.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict is returned when a unique constraint is violated.
	ErrConflict = errors.New("conflict")

	// ErrUnauthenticated is returned when an operation needs a signed-in user.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

// Invalid builds a ValidationError with a single field message.
func Invalid(field, message string) *ValidationError {
	return (&ValidationError{}).Add(field, message)
}

// Add records a message for field. The first message per field wins.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
	return e
}

// OrNil returns nil when no field was recorded, so callers can write
// `return v.OrNil()` after a run of checks.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// AsValidation unwraps err into a *ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
