package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Sentinels classify every error the task API can return. Adapters wrap
// them; the HTTP layer maps them to statuses with errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("conflict")
	ErrForbidden   = errors.New("forbidden")
	ErrUnavailable = errors.New("unavailable")
)

// MsgRequired is the message for a missing field.
const MsgRequired = "is required"

// ValidationError lists invalid input by field name. It wraps
// ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

// Error lists the fields in name order so messages are stable.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrValidation.Error())
	for i, field := range slices.Sorted(maps.Keys(e.Fields)) {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(field + ": " + e.Fields[field])
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// InvalidTaskTypeError reports a task type outside the supported set.
// It wraps ErrValidation.
type InvalidTaskTypeError struct {
	Type string
}

func (e *InvalidTaskTypeError) Error() string {
	return fmt.Sprintf("%s: task type %q is not supported", ErrValidation.Error(), e.Type)
}

func (e *InvalidTaskTypeError) Unwrap() error {
	return ErrValidation
}

// InvalidTaskStatusError reports a task status outside the supported set.
// It wraps ErrValidation.
type InvalidTaskStatusError struct {
	Status string
}

func (e *InvalidTaskStatusError) Error() string {
	return fmt.Sprintf("%s: task status %q is not supported", ErrValidation.Error(), e.Status)
}

func (e *InvalidTaskStatusError) Unwrap() error {
	return ErrValidation
}

// InvalidTaskStatusTransitionError reports a lifecycle transition the task
// state machine does not allow. It wraps ErrConflict so the HTTP layer maps
// it to 409.
type InvalidTaskStatusTransitionError struct {
	From string
	To   string
}

func (e *InvalidTaskStatusTransitionError) Error() string {
	return fmt.Sprintf("%s: task status cannot change from %s to %s", ErrConflict.Error(), e.From, e.To)
}

func (e *InvalidTaskStatusTransitionError) Unwrap() error {
	return ErrConflict
}
