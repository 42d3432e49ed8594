package grammar

import (
	"errors"
	"fmt"
)

// Errors for grammar loading.
var (
	// ErrUnsupportedFormat is returned for files that are not grammar files.
	ErrUnsupportedFormat = errors.New("unsupported grammar format")

	// ErrInvalidGrammar is returned when a grammar document has the wrong shape.
	ErrInvalidGrammar = errors.New("invalid grammar")

	// ErrNoResult is returned when a Lua grammar does not return a table.
	ErrNoResult = errors.New("lua grammar returned no table")
)

// ParseError represents an error while reading a grammar file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// fieldError reports a grammar document with a bad field.
func fieldError(path, field, format string, args ...any) error {
	return &ParseError{
		Path:    path,
		Message: field + ": " + fmt.Sprintf(format, args...),
		Err:     ErrInvalidGrammar,
	}
}
