package errors

import (
	"fmt"
	"strings"
)

// PreconditionError indicates an operation that requires a workspace was
// invoked while no workspace is established.
type PreconditionError struct {
	Operation string `json:"operation"`
	Message   string `json:"message"`
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed for %s: %s", e.Operation, e.Message)
}

// NewPreconditionError creates a new PreconditionError for the given operation
func NewPreconditionError(operation, message string) *PreconditionError {
	return &PreconditionError{
		Operation: operation,
		Message:   message,
	}
}

// IOError indicates an OS-level file operation reported failure, e.g. a
// failed move to trash. Name carries the base filename of the resource.
type IOError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Cause   error  `json:"cause,omitempty"`
}

func (e *IOError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s '%s': %v", e.Message, e.Name, e.Cause)
	}
	return fmt.Sprintf("%s '%s'", e.Message, e.Name)
}

func (e *IOError) Unwrap() error {
	return e.Cause
}

// NewIOError creates a new IOError naming the affected file
func NewIOError(name, message string, cause error) *IOError {
	return &IOError{
		Name:    name,
		Message: message,
		Cause:   cause,
	}
}

// Error classification functions

// IsPreconditionError checks if the error is a precondition error
func IsPreconditionError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(*PreconditionError); ok {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "precondition")
}

// IsIOError checks if the error is an OS-level I/O error
func IsIOError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(*IOError); ok {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "permission denied") ||
		strings.Contains(errMsg, "no such file") ||
		strings.Contains(errMsg, "i/o error") ||
		strings.Contains(errMsg, "input/output")
}

// Error wrapping utilities

// WrapWithContext wraps an error with operation context. Errors surfaced
// unchanged from the engine are never passed through here; callers retain
// the original diagnostic detail.
func WrapWithContext(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", operation, err)
}
