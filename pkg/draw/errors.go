// Package-level error types for template assembly and output handling.
package draw

import "fmt"

// StructureError reports that an expected data container or node is missing
// from a loaded template asset. It is fatal and never retried: the check
// runs once, before any mutation.
type StructureError struct {
	Part    string
	Message string
}

func (e *StructureError) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("template structure error in %s: %s", e.Part, e.Message)
	}
	return fmt.Sprintf("template structure error: %s", e.Message)
}

// NewStructureError creates a new template structure error.
func NewStructureError(part, message string) error {
	return &StructureError{
		Part:    part,
		Message: message,
	}
}

// DocumentError represents an error during document container operations.
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error.
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// ConversionError reports a failure of the external LibreOffice converter.
// It is a degraded result, not a fatal one: the filled draft that was
// handed to the converter remains usable.
type ConversionError struct {
	Message string
	Stderr  string
	Cause   error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("conversion error: %s", e.Message)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// NewConversionError creates a new conversion error.
func NewConversionError(message string, cause error) error {
	return &ConversionError{
		Message: message,
		Cause:   cause,
	}
}

// IsStructureError checks if an error is a template structure error.
func IsStructureError(err error) bool {
	_, ok := err.(*StructureError)
	return ok
}

// IsDocumentError checks if an error is a document error.
func IsDocumentError(err error) bool {
	_, ok := err.(*DocumentError)
	return ok
}

// IsConversionError checks if an error is a conversion error.
func IsConversionError(err error) bool {
	_, ok := err.(*ConversionError)
	return ok
}
