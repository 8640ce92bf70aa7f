package engine

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Issue codes produced by the engine.
const (
	CodeSyntax       = "parse_error"
	CodeDuplicateKey = "duplicate_key"
	CodeMaxDepth     = "max_depth"
	CodeTruncated    = "truncated"
)

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
	Offset  int64
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// ParseError reports a document that could not be parsed. Line and Column are
// 1-based and zero when the position could not be resolved.
type ParseError struct {
	Code   string
	Msg    string
	Path   string // JSON Pointer of the enclosing value, when known
	Offset int64
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	loc := "offset " + strconv.FormatInt(e.Offset, 10)
	if e.Line > 0 {
		loc = fmt.Sprintf("line %d, column %d (offset %d)", e.Line, e.Column, e.Offset)
	}
	return "json: " + e.Msg + " at " + loc
}

// NewSyntaxError builds a ParseError for malformed input at offset.
func NewSyntaxError(msg string, offset int64) *ParseError {
	return &ParseError{Code: CodeSyntax, Msg: msg, Offset: offset}
}

// ToParseError converts errors surfaced while reading tokens into a
// *ParseError, filling the position from pos when it is non-nil. Errors that
// do not describe the input (for example a failing reader) are returned as is.
func ToParseError(err error, offset int64, pos Positioner) error {
	if err == nil {
		return nil
	}
	var pe *ParseError
	switch {
	case errors.As(err, &pe):
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		pe = NewSyntaxError("unexpected end of input", offset)
	default:
		var ie IssueError
		if !errors.As(err, &ie) {
			return err
		}
		off := ie.Offset
		if off < 0 {
			off = offset
		}
		pe = &ParseError{Code: ie.Code, Msg: ie.Message, Path: ie.Path, Offset: off}
	}
	if pe.Offset < 0 {
		pe.Offset = 0
	}
	if pos != nil && pe.Line == 0 {
		pe.Line, pe.Column = pos.Position(pe.Offset)
	}
	return pe
}
