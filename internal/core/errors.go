package core

import (
	"errors"
	"fmt"
)

// ErrEmptyFile is reported when the input has no header row.
var ErrEmptyFile = errors.New("empty file")

// ErrRaggedRow is reported when a data row has more fields than the header.
var ErrRaggedRow = errors.New("row has more fields than the header")

// ErrInvalidDelimiter is reported for a delimiter encoding/csv cannot use.
var ErrInvalidDelimiter = errors.New("invalid csv delimiter")

// ParseError reports malformed tabular input. Line and Column are 1-based
// and zero when the problem is not tied to a position.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("parse error: %v", e.Err)
	}
	return fmt.Sprintf("parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnknownColumnError reports an export column that the table does not have.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Column)
}
