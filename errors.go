// Package cpudispatch structured error types for better error handling
package cpudispatch

import (
	"fmt"
)

// ErrorType represents categories of errors
type ErrorType int

const (
	// Malformed -C target option, empty CPU name, bad base(...) clause.
	ErrTypeParse ErrorType = iota
	// No sysimg target is eligible for the host's feature set.
	ErrTypeSelection
	// Missing symbol, missing GOT entry, nfeature mismatch: the sysimg
	// itself is corrupt.
	ErrTypeCorruption
)

// DispatchError represents a structured error with context
type DispatchError struct {
	Type    ErrorType
	Op      string      // Operation that failed
	Message string      // Human-readable message
	Err     error       // Underlying error if any
	Context interface{} // Additional context
}

// Error implements the error interface
func (e *DispatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cpudispatch %s error in %s: %s (caused by: %v)",
			e.Type.String(), e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("cpudispatch %s error in %s: %s",
		e.Type.String(), e.Op, e.Message)
}

// Unwrap allows error chain inspection
func (e *DispatchError) Unwrap() error {
	return e.Err
}

// String returns the error type as a string
func (t ErrorType) String() string {
	switch t {
	case ErrTypeParse:
		return "Parse"
	case ErrTypeSelection:
		return "Selection"
	case ErrTypeCorruption:
		return "Corruption"
	default:
		return "Unknown"
	}
}

// Common error constructors

// NewParseError creates a target-string parse error
func NewParseError(op string, message string) error {
	return &DispatchError{
		Type:    ErrTypeParse,
		Op:      op,
		Message: message,
	}
}

// NewSelectionError creates a sysimg-version-selection error
func NewSelectionError(op string, message string) error {
	return &DispatchError{
		Type:    ErrTypeSelection,
		Op:      op,
		Message: message,
	}
}

// NewCorruptionError creates a sysimg-corruption error
func NewCorruptionError(op string, message string, err error) error {
	return &DispatchError{
		Type:    ErrTypeCorruption,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// Common pre-defined errors

var (
	// ErrEmptyCPUName indicates a target segment with no CPU name
	ErrEmptyCPUName = NewParseError("ParseTargets", "empty CPU name")

	// ErrNoEligibleTarget indicates selection found no compatible target
	ErrNoEligibleTarget = NewSelectionError("Select", "no compatible sysimg target")
)

// IsParseError checks if an error is a target-string parse error
func IsParseError(err error) bool {
	if e, ok := err.(*DispatchError); ok {
		return e.Type == ErrTypeParse
	}
	return false
}

// IsSelectionError checks if an error is a sysimg-selection error
func IsSelectionError(err error) bool {
	if e, ok := err.(*DispatchError); ok {
		return e.Type == ErrTypeSelection
	}
	return false
}

// IsCorruptionError checks if an error is a sysimg-corruption error
func IsCorruptionError(err error) bool {
	if e, ok := err.(*DispatchError); ok {
		return e.Type == ErrTypeCorruption
	}
	return false
}
