package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when an id does not match any stored entity.
	ErrNotFound = errors.New("not found")
	// ErrScheduleFull is returned when joining a schedule at capacity.
	ErrScheduleFull = errors.New("schedule is full")
)

// FieldError represents a single field's validation error.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"message"`
}

func (e FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }

// ValidationError is returned before any state changes when input is
// incomplete or out of range.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ImportValidationError rejects a restore document. Nothing is written.
type ImportValidationError struct {
	Missing []string
	Invalid []string
	Detail  string
}

func (e *ImportValidationError) Error() string {
	var parts []string
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	if len(e.Missing) > 0 {
		parts = append(parts, "missing keys: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid keys: "+strings.Join(e.Invalid, ", "))
	}
	return "invalid backup document: " + strings.Join(parts, "; ")
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
