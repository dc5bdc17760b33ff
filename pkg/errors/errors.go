// Package errors holds the error types that stop a reconciliation: bad
// settings, unreadable files, and gradebooks whose columns cannot be lined up.
// Unmatched students and unparseable scores are outcomes, not errors.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-exported so callers need only this package.
var (
	New = errors.New
	Is  = errors.Is
	As  = errors.As
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrDuplicateKey  = errors.New("duplicate canonical key")
	ErrMissingColumn = errors.New("missing column")
	ErrCanceled      = errors.New("operation canceled")
)

// NotFoundError reports a missing file or gradebook.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError returns a NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError reports a setting or argument out of range.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError returns a ValidationError for field.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// DuplicateKeyError means two assignment columns of one gradebook share a
// canonical key, so scores cannot be routed unambiguously.
type DuplicateKeyError struct {
	Dataset  string // primary or secondary
	Key      string
	First    string
	Conflict string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s gradebook: columns %q and %q both normalize to %q", e.Dataset, e.First, e.Conflict, e.Key)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

// NewDuplicateKeyError returns a DuplicateKeyError. first is the label that
// claimed key before conflict.
func NewDuplicateKeyError(dataset, key, first, conflict string) *DuplicateKeyError {
	return &DuplicateKeyError{Dataset: dataset, Key: key, First: first, Conflict: conflict}
}

// MissingColumnError lists identity columns absent from a header.
type MissingColumnError struct {
	Dataset string
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s gradebook is missing required column(s): %s", e.Dataset, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// NewMissingColumnError returns a MissingColumnError.
func NewMissingColumnError(dataset string, columns ...string) *MissingColumnError {
	return &MissingColumnError{Dataset: dataset, Columns: columns}
}

// ConfigError reports an unreadable or inconsistent config source.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Component == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError returns a ConfigError wrapping err.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// ParseError reports a gradebook file that could not be decoded.
type ParseError struct {
	Format  string // csv or xlsx
	File    string
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	case e.File != "":
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError returns a ParseError wrapping err.
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError reports a failed filesystem operation.
type IOError struct {
	Operation string
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ResourceError reports a failed pipeline step on one dataset.
type ResourceError struct {
	Operation string // read, write, create, match, merge
	Resource  string
	ID        string
	Err       error
}

func (e *ResourceError) Error() string {
	what := e.Resource
	if e.ID != "" {
		what += " " + e.ID
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Operation, what, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidationError reports whether err is or wraps ErrInvalidInput.
func IsValidationError(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsDuplicateKey reports whether err is or wraps ErrDuplicateKey.
func IsDuplicateKey(err error) bool { return errors.Is(err, ErrDuplicateKey) }

// IsMissingColumn reports whether err is or wraps ErrMissingColumn.
func IsMissingColumn(err error) bool { return errors.Is(err, ErrMissingColumn) }

// IsCanceled reports whether err is or wraps ErrCanceled.
func IsCanceled(err error) bool { return errors.Is(err, ErrCanceled) }

// The Wrap helpers return nil for a nil err.

// WrapValidation turns err into a ValidationError for field.
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps err in an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapResource wraps err in a ResourceError.
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Err: err}
}

// WrapParse wraps err in a ParseError.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
