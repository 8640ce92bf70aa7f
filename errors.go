package restfb

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/restfb/restfb-sub000/i18n"
	eng "github.com/restfb/restfb-sub000/internal/engine"
	"github.com/restfb/restfb-sub000/mapper"
)

// Issue codes
const (
	CodeParseError    = eng.CodeSyntax
	CodeDuplicateKey  = eng.CodeDuplicateKey
	CodeMaxDepth      = eng.CodeMaxDepth
	CodeTruncated     = eng.CodeTruncated
	CodeInvalidType   = mapper.CodeInvalidType
	CodeUnknownKey    = mapper.CodeUnknownKey
	CodeHookFailed    = mapper.CodeHookFailed
	CodeInvalidTarget = mapper.CodeInvalidTarget
)

// Issue represents a single parse or mapping failure.
type Issue struct {
	Path    string // JSON Pointer (for example: /data/2/from).
	Code    string // One of the codes listed above.
	Message string // Localized through the i18n translator.
	Detail  string // Untranslated description from the parser or mapper.
	Offset  int64  // Byte offset in the input source (-1 when unknown).
	Line    int    // 1-based; 0 when unknown.
	Column  int
	// Field names the Go field as Type.Field for mapping failures.
	Field string
	Cause error
}

func (it Issue) String() string {
	s := it.Code + " at " + it.Path
	if it.Line > 0 {
		s += " (line " + strconv.Itoa(it.Line) + ", column " + strconv.Itoa(it.Column) + ")"
	}
	if it.Detail != "" {
		s += ": " + it.Detail
	}
	return s
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].String())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the underlying causes to errors.Is and errors.As.
func (iss Issues) Unwrap() []error {
	var errs []error
	for _, it := range iss {
		if it.Cause != nil {
			errs = append(errs, it.Cause)
		}
	}
	return errs
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func newIssue(code, path, detail string) Issue {
	if path == "" {
		path = "/"
	}
	return Issue{
		Path:    path,
		Code:    code,
		Message: i18n.T(code, map[string]string{"detail": detail}),
		Detail:  detail,
		Offset:  -1,
	}
}

// toIssues converts errors from the parser and the mapper into Issues.
// Failures unrelated to the input, such as a failing reader, are returned
// unchanged.
func toIssues(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsIssues(err); ok {
		return err
	}
	var pe *eng.ParseError
	if errors.As(err, &pe) {
		it := newIssue(pe.Code, pe.Path, pe.Msg)
		it.Offset, it.Line, it.Column = pe.Offset, pe.Line, pe.Column
		it.Cause = err
		return Issues{it}
	}
	var me *mapper.Error
	if errors.As(err, &me) {
		detail := me.Msg
		if me.Err != nil {
			detail += ": " + me.Err.Error()
		}
		it := newIssue(me.Code, me.Path, detail)
		it.Field = me.Field
		it.Cause = err
		return Issues{it}
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		it := newIssue(ie.Code, ie.Path, ie.Message)
		it.Offset = ie.Offset
		it.Cause = err
		return Issues{it}
	}
	return err
}

func singleIssue(code, detail string) Issues { return Issues{newIssue(code, "/", detail)} }
