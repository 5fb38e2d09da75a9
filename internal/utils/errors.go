// Package utils provides low-level helpers shared across the frame,
// blobstore, and feed/version packages.
package utils

import "fmt"

// LogError represents a structured, contextual error raised while
// parsing or writing a feed or blob file.
type LogError struct {
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *LogError) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Cause)
}

// WrapError creates a contextual error. Returns nil if cause is nil, so
// callers can write `return utils.WrapError("...", err)` unconditionally.
func WrapError(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &LogError{
		Context: context,
		Cause:   cause,
	}
}

// Unwrap provides compatibility with errors.Unwrap().
func (e *LogError) Unwrap() error {
	return e.Cause
}
