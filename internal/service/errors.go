package service

import (
	"blogicum/internal/data"
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a record is absent or hidden from the viewer.
	// It is the repository sentinel so errors.Is works across both layers.
	ErrNotFound = data.ErrNotFound
	// ErrNotOwner is returned when the acting user did not author the record.
	ErrNotOwner = errors.New("not the owner of this record")
	// ErrInvalidCredentials is returned by Authenticate on any mismatch.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username is already taken")
)

// ValidationError carries one message per rejected form field.
type ValidationError struct {
	Fields map[string]string
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
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for field, keeping the first one.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// OrNil returns e when it holds at least one message.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// FieldErrors extracts the per-field messages from err, if it is a
// ValidationError.
func FieldErrors(err error) (map[string]string, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}
