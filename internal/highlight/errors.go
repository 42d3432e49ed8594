package highlight

import (
	"errors"
	"fmt"
)

// Errors reported while compiling a grammar.
var (
	// ErrUnbalancedRange is reported for a range without an end pattern.
	ErrUnbalancedRange = errors.New("range has no end pattern")

	// ErrMissingStart is reported for a range without a start pattern.
	ErrMissingStart = errors.New("range has no start pattern")

	// ErrEmptyAttribute is reported for a group without an attribute name.
	ErrEmptyAttribute = errors.New("group has no attribute")

	// ErrBadCapture is reported when a capture selector exceeds the
	// pattern's group count.
	ErrBadCapture = errors.New("capture group out of range")

	// ErrDuplicateRange is reported for a range start already declared in
	// the same scope.
	ErrDuplicateRange = errors.New("duplicate range start")

	// ErrEmptyPattern is reported for keyword or regex rules with no text.
	ErrEmptyPattern = errors.New("empty pattern")
)

// CompileError describes a rule that could not be compiled.
type CompileError struct {
	Group   string
	Pattern string
	Message string
	Err     error
}

func (e *CompileError) Error() string {
	if e.Group != "" {
		return fmt.Sprintf("group %s: pattern %q: %s", e.Group, e.Pattern, e.Message)
	}
	return fmt.Sprintf("pattern %q: %s", e.Pattern, e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

func newCompileError(group, pattern string, err error) *CompileError {
	return &CompileError{
		Group:   group,
		Pattern: pattern,
		Message: err.Error(),
		Err:     err,
	}
}

// CacheInconsistency is the panic value raised when a line state is read
// while invalid. It indicates a bug in the coordinator, never bad input.
type CacheInconsistency struct {
	Line int
}

func (e *CacheInconsistency) Error() string {
	return fmt.Sprintf("highlight: line state %d read while invalid", e.Line)
}
