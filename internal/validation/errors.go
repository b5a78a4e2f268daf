package validation

import (
	"errors"
	"sort"
	"strings"
)

// ValidationError maps form fields to a message for each rule they break.
type ValidationError struct {
	Fields map[string]string
}

// Add records msg for field, keeping the first message per field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Err returns e when any field failed and nil otherwise.
func (e *ValidationError) Err() error {
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
	return "validation failed: " + strings.Join(parts, "; ")
}

// Lifecycle errors for attendance operations issued out of order.
var (
	ErrAlreadyCheckedIn  = errors.New("trainer already checked in for this session")
	ErrNotCheckedIn      = errors.New("trainer has not checked in for this session")
	ErrAlreadyCheckedOut = errors.New("trainer already checked out for this session")
	ErrAlreadyApproved   = errors.New("attendance already approved")
	ErrRejected          = errors.New("attendance was rejected")
)

// StateError reports an operation that the record's current state does not allow.
type StateError struct {
	Op  string
	Err error
}

func (e *StateError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StateError) Unwrap() error { return e.Err }
