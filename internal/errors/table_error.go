// Package errors provides the standardized error type used across the
// engine. Every public API reports failures as a TableError carrying
// the operation name, the column involved when applicable, and an
// optional wrapped cause.
package errors

import (
	"fmt"
)

// TableError is the standardized error for engine operations.
type TableError struct {
	Op      string // Operation name (e.g. "Take", "Align", "Comparison")
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *TableError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s operation failed on column '%s': %s", e.Op, e.Column, e.Message)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support
func (e *TableError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is()
func (e *TableError) Is(target error) bool {
	if te, ok := target.(*TableError); ok {
		return e.Op == te.Op && e.Column == te.Column && e.Message == te.Message
	}
	return false
}

// NewValidationError creates an error for constructor and input
// validation failures. These are caller contract violations and are
// never caught internally.
func NewValidationError(op, message string) *TableError {
	return &TableError{
		Op:      op,
		Message: message,
	}
}

// NewLengthMismatchError creates an error for operands that do not
// represent the same logical vector length.
func NewLengthMismatchError(op string, left, right int) *TableError {
	return &TableError{
		Op:      op,
		Message: fmt.Sprintf("length mismatch: %d vs. %d", left, right),
	}
}

// NewIndexError creates an error for out-of-bounds position access.
func NewIndexError(op, message string) *TableError {
	return &TableError{
		Op:      op,
		Message: message,
	}
}

// NewTypeError creates an error for incompatible operand types,
// naming both sides.
func NewTypeError(op, leftType, rightType string) *TableError {
	return &TableError{
		Op:      op,
		Message: fmt.Sprintf("incompatible types: %s and %s", leftType, rightType),
	}
}

// NewUnsupportedOpError creates an error for an operation a storage
// type does not implement.
func NewUnsupportedOpError(op, typeName string) *TableError {
	return &TableError{
		Op:      op,
		Message: fmt.Sprintf("operation not supported for type %s", typeName),
	}
}

// NewColumnNotFoundError creates an error for operations on
// non-existent columns.
func NewColumnNotFoundError(op, column string) *TableError {
	return &TableError{
		Op:      op,
		Column:  column,
		Message: "column does not exist",
	}
}

// NewInternalError creates an error wrapping an unexpected failure.
func NewInternalError(op string, cause error) *TableError {
	return &TableError{
		Op:      op,
		Message: "internal error occurred",
		Cause:   cause,
	}
}

// Predefined error variables for common cases
var (
	// ErrEmptyTable indicates operations on empty tables
	ErrEmptyTable = &TableError{
		Op:      "validation",
		Message: "operation not supported on an empty table",
	}

	// ErrInvalidIndex indicates out-of-bounds index access
	ErrInvalidIndex = &TableError{
		Op:      "indexing",
		Message: "index out of bounds",
	}
)
