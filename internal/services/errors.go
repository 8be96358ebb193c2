package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for outcomes that carry no extra data. Handlers map these
// onto the HTTP status taxonomy.
var (
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNoChange           = errors.New("no updatable fields provided")
	ErrPasswordRequired   = errors.New("password is required")
	ErrIdentityRequired   = errors.New("username or email is required")
)

// MissingFieldsError enumerates every absent required key of a request.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// NotFoundError identifies the resource kind that could not be resolved.
// Resolution failures always win over ownership checks.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ConflictError reports a unique-constraint violation on registration.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// InvalidDateError reports unparseable date text in a payload field.
type InvalidDateError struct {
	Field string
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date for %s: %q", e.Field, e.Value)
}

// InvalidStatusError reports a task status outside the allowed enum.
type InvalidStatusError struct {
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("status must be one of: 'todo', 'in_progress', 'done', got %q", e.Value)
}
