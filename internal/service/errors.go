package service

import (
	"errors"
	"fmt"
)

var (
	// ErrBackend marks failures of the document store or object storage.
	// Callers report them as a generic server error.
	ErrBackend = errors.New("backend error")
	// ErrNotFound is only returned by single-item reads.
	ErrNotFound = errors.New("not found")
)

// ValidationError is a client input problem. Message is safe to show.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func backend(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
