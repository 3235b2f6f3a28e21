// ABOUTME: Custom error types for the core business logic
// ABOUTME: Distinguishes recoverable cache misses from unexpected I/O failures

package errors

import (
	"errors"
	"fmt"
)

// CorruptEntryError represents an on-disk record that failed validation
// and was deleted. It is a recoverable condition: the caller sees the
// same outcome as a plain cache miss.
type CorruptEntryError struct {
	Path   string
	Reason string
}

// Error implements the error interface
func (e *CorruptEntryError) Error() string {
	return fmt.Sprintf("corrupt cache entry %s: %s", e.Path, e.Reason)
}

// StoreIOError represents an unexpected filesystem failure (permissions,
// disk full) during a cache operation.
type StoreIOError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface
func (e *StoreIOError) Error() string {
	return fmt.Sprintf("cache %s failed on %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error
func (e *StoreIOError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// IsCorruptEntry checks if an error is a CorruptEntryError
func IsCorruptEntry(err error) bool {
	var corruptErr *CorruptEntryError
	return errors.As(err, &corruptErr)
}

// IsStoreIO checks if an error is a StoreIOError
func IsStoreIO(err error) bool {
	var ioErr *StoreIOError
	return errors.As(err, &ioErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
