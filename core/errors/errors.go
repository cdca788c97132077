// Package errors holds the typed errors shared by ingestion, parsing, storage
// and the CLI. Every type unwraps to one of the sentinels below so callers can
// branch with Is.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrReferenceUnparsable means no segment of a reference text parsed.
	ErrReferenceUnparsable = errors.New("unable to parse reference")
	// ErrNoVersesMatched means the reference parsed but selected nothing.
	ErrNoVersesMatched = errors.New("reference did not match any verses")
)

// NotFoundError names a missing book, chapter or bible text.
type NotFoundError struct {
	Resource string
	ID       string
	Err      error
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError rejects a configuration or registry value.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError records which file operation failed and where.
type IOError struct {
	Operation string
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError reports a malformed OSIS document or config file.
type ParseError struct {
	Format  string
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// UnknownAbbreviationError is raised by ingestion when a verse marker names a
// book the registry does not know. It aborts the whole ingestion.
type UnknownAbbreviationError struct {
	Abbreviation string // Book token as it appeared in the source
	Line         string // Full (trimmed) source line
	LineNumber   int    // 1-based line number, 0 if unknown
}

func (e *UnknownAbbreviationError) Error() string {
	if e.LineNumber > 0 {
		return fmt.Sprintf("unknown book abbreviation %q at line %d: %q", e.Abbreviation, e.LineNumber, e.Line)
	}
	return fmt.Sprintf("unknown book abbreviation %q: %q", e.Abbreviation, e.Line)
}

func (e *UnknownAbbreviationError) Unwrap() error {
	return ErrInvalidInput
}

// DuplicateAbbreviationError is returned when two registry entries share an
// abbreviation.
type DuplicateAbbreviationError struct {
	Abbreviation string
	First        string // Key of the entry that claimed the abbreviation first
	Second       string // Key of the conflicting entry
}

func (e *DuplicateAbbreviationError) Error() string {
	return fmt.Sprintf("duplicate book abbreviation %q (%s, %s)", e.Abbreviation, e.First, e.Second)
}

func (e *DuplicateAbbreviationError) Unwrap() error {
	return ErrInvalidInput
}

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// Wrap prefixes err with message. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's chain matches target. It saves
// callers that import this package from also importing the standard one.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
