package outline

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPath indicates the caller did not name a file to outline.
	ErrNoPath = errors.New("No file path provided")

	// ErrNotText indicates the file content is not valid UTF-8 text.
	ErrNotText = errors.New("file is not valid UTF-8 text")

	// ErrSyntax indicates the source does not parse as Python.
	ErrSyntax = errors.New("invalid syntax")
)

// SyntaxError reports the first position where the parser gave up.
type SyntaxError struct {
	Line   int // 1-based
	Column int // 1-based, in bytes
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", ErrSyntax, e.Line, e.Column)
}

// Unwrap lets errors.Is match ErrSyntax.
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// NewErrorRecord converts an extraction error into the record printed on failure.
func NewErrorRecord(err error) ErrorRecord {
	return ErrorRecord{Error: err.Error()}
}
