package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated = errors.New("user is not authenticated")
	ErrNotFound         = errors.New("not found")
)

// ValidationError points at the form field that failed, so clients can render the message next to it.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return ValidationError{Field: field, Message: message}
}

// PersistenceError wraps a failed read or write against a backing store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
