package jsonvalue

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// WriterConfig controls how a Writer formats its output.
type WriterConfig struct {
	// Indent is written once per nesting level after each newline. An empty
	// Indent produces single-line output.
	Indent string
	// SpaceAfterColon writes "name": value instead of "name":value.
	SpaceAfterColon bool
	// EscapeHTML escapes <, > and & so the output can be embedded in HTML.
	EscapeHTML bool
	// EscapeNonASCII writes every non-ASCII character as a \u escape.
	EscapeNonASCII bool
	// SortKeys orders object members by name when whole values are written.
	// Members written one by one through Name keep the caller's order.
	SortKeys bool
}

// Minimal is the most compact configuration.
var Minimal = WriterConfig{}

// Pretty returns a configuration that indents by n spaces per level.
func Pretty(n int) WriterConfig {
	return WriterConfig{Indent: strings.Repeat(" ", n), SpaceAfterColon: true}
}

// ErrInvalidState is wrapped by errors reporting a call that would produce
// malformed JSON.
var ErrInvalidState = errors.New("jsonvalue: invalid writer state")

// WriterError is returned for misuse of a Writer and for unrepresentable
// values.
type WriterError struct {
	Op  string
	Msg string
	Err error
}

func (e *WriterError) Error() string { return "jsonvalue: " + e.Op + ": " + e.Msg }
func (e *WriterError) Unwrap() error { return e.Err }

type wframe struct {
	object bool
	n      int  // values (or members) written so far
	named  bool // a member name was written and awaits its value
}

// Writer emits a JSON document incrementally. Every method checks that the
// call keeps the document well formed; the first failure sticks and is
// returned by all later calls.
type Writer struct {
	w        *bufio.Writer
	cfg      WriterConfig
	stack    []wframe
	rootDone bool
	err      error
	scratch  []byte
}

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer, cfg WriterConfig) *Writer {
	return &Writer{w: bufio.NewWriter(w), cfg: cfg}
}

func (w *Writer) fail(op, msg string, cause error) error {
	if w.err == nil {
		w.err = &WriterError{Op: op, Msg: msg, Err: cause}
	}
	return w.err
}

func (w *Writer) newline(depth int) {
	if w.cfg.Indent == "" {
		return
	}
	w.w.WriteByte('\n')
	for i := 0; i < depth; i++ {
		w.w.WriteString(w.cfg.Indent)
	}
}

// beforeValue validates and writes the separator that precedes a value.
func (w *Writer) beforeValue(op string) error {
	if w.err != nil {
		return w.err
	}
	if len(w.stack) == 0 {
		if w.rootDone {
			return w.fail(op, "document already complete", ErrInvalidState)
		}
		return nil
	}
	top := &w.stack[len(w.stack)-1]
	if top.object {
		if !top.named {
			return w.fail(op, "object member without a name", ErrInvalidState)
		}
		top.named = false
		return nil
	}
	if top.n > 0 {
		w.w.WriteByte(',')
	}
	w.newline(len(w.stack))
	top.n++
	return nil
}

func (w *Writer) afterValue() {
	if len(w.stack) == 0 {
		w.rootDone = true
	}
}

// BeginObject starts an object.
func (w *Writer) BeginObject() error {
	if err := w.beforeValue("BeginObject"); err != nil {
		return err
	}
	w.w.WriteByte('{')
	w.stack = append(w.stack, wframe{object: true})
	return nil
}

// Name writes a member name; the next call must write its value.
func (w *Writer) Name(name string) error {
	if w.err != nil {
		return w.err
	}
	if len(w.stack) == 0 || !w.stack[len(w.stack)-1].object {
		return w.fail("Name", "name outside of an object", ErrInvalidState)
	}
	top := &w.stack[len(w.stack)-1]
	if top.named {
		return w.fail("Name", "previous member has no value", ErrInvalidState)
	}
	if top.n > 0 {
		w.w.WriteByte(',')
	}
	w.newline(len(w.stack))
	w.writeString(name)
	w.w.WriteByte(':')
	if w.cfg.SpaceAfterColon {
		w.w.WriteByte(' ')
	}
	top.named = true
	top.n++
	return nil
}

// EndObject closes the innermost object.
func (w *Writer) EndObject() error { return w.end(true, '}', "EndObject") }

// BeginArray starts an array.
func (w *Writer) BeginArray() error {
	if err := w.beforeValue("BeginArray"); err != nil {
		return err
	}
	w.w.WriteByte('[')
	w.stack = append(w.stack, wframe{})
	return nil
}

// EndArray closes the innermost array.
func (w *Writer) EndArray() error { return w.end(false, ']', "EndArray") }

func (w *Writer) end(object bool, c byte, op string) error {
	if w.err != nil {
		return w.err
	}
	n := len(w.stack)
	if n == 0 || w.stack[n-1].object != object {
		return w.fail(op, "no matching open container", ErrInvalidState)
	}
	top := w.stack[n-1]
	if top.named {
		return w.fail(op, "member has no value", ErrInvalidState)
	}
	w.stack = w.stack[:n-1]
	if top.n > 0 {
		w.newline(len(w.stack))
	}
	w.w.WriteByte(c)
	w.afterValue()
	return nil
}

// String writes a string value.
func (w *Writer) String(s string) error {
	if err := w.beforeValue("String"); err != nil {
		return err
	}
	w.writeString(s)
	w.afterValue()
	return nil
}

// Number writes a number literal. The literal must be valid JSON.
func (w *Writer) Number(n Number) error {
	if w.err != nil {
		return w.err
	}
	if !IsValidNumber(string(n)) {
		return w.fail("Number", "invalid number literal "+strconv.Quote(string(n)), nil)
	}
	if err := w.beforeValue("Number"); err != nil {
		return err
	}
	w.w.WriteString(string(n))
	w.afterValue()
	return nil
}

// Int writes an integer value.
func (w *Writer) Int(i int64) error {
	if err := w.beforeValue("Int"); err != nil {
		return err
	}
	w.scratch = strconv.AppendInt(w.scratch[:0], i, 10)
	w.w.Write(w.scratch)
	w.afterValue()
	return nil
}

// Float writes a floating point value. NaN and infinities are rejected.
func (w *Writer) Float(f float64) error {
	if w.err != nil {
		return w.err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return w.fail("Float", "unsupported value "+strconv.FormatFloat(f, 'g', -1, 64), nil)
	}
	if err := w.beforeValue("Float"); err != nil {
		return err
	}
	w.scratch = appendFloat(w.scratch[:0], f)
	w.w.Write(w.scratch)
	w.afterValue()
	return nil
}

// Bool writes a boolean value.
func (w *Writer) Bool(b bool) error {
	if err := w.beforeValue("Bool"); err != nil {
		return err
	}
	if b {
		w.w.WriteString("true")
	} else {
		w.w.WriteString("false")
	}
	w.afterValue()
	return nil
}

// Null writes the null literal.
func (w *Writer) Null() error {
	if err := w.beforeValue("Null"); err != nil {
		return err
	}
	w.w.WriteString("null")
	w.afterValue()
	return nil
}

// Value writes a whole value tree. A nil Value is written as null.
func (w *Writer) Value(v Value) error {
	switch v := v.(type) {
	case nil, Null:
		return w.Null()
	case Bool:
		return w.Bool(bool(v))
	case Number:
		return w.Number(v)
	case String:
		return w.String(string(v))
	case *Array:
		if err := w.BeginArray(); err != nil {
			return err
		}
		for _, e := range v.Values() {
			if err := w.Value(e); err != nil {
				return err
			}
		}
		return w.EndArray()
	case *Object:
		if err := w.BeginObject(); err != nil {
			return err
		}
		members := v.Members()
		if w.cfg.SortKeys && len(members) > 1 {
			members = append([]Member(nil), members...)
			sort.SliceStable(members, func(i, j int) bool { return members[i].Name < members[j].Name })
		}
		for _, m := range members {
			if err := w.Name(m.Name); err != nil {
				return err
			}
			if err := w.Value(m.Value); err != nil {
				return err
			}
		}
		return w.EndObject()
	}
	return w.fail("Value", "unsupported value type", nil)
}

// Flush writes buffered output to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.w.Flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Close flushes and verifies that exactly one complete value was written.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	if len(w.stack) > 0 || !w.rootDone {
		return w.fail("Close", "incomplete document", ErrInvalidState)
	}
	return nil
}

func (w *Writer) writeString(s string) {
	w.scratch = appendQuoted(w.scratch[:0], s, w.cfg.EscapeHTML, w.cfg.EscapeNonASCII)
	w.w.Write(w.scratch)
}

// Marshal renders v with the given configuration.
func Marshal(v Value, cfg WriterConfig) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf, cfg)
	if err := w.Value(v); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Compact renders v on a single line without optional whitespace.
func Compact(v Value) ([]byte, error) { return Marshal(v, Minimal) }

// appendFloat formats f the way encoding/json does: shortest representation,
// exponent form only for very small or very large magnitudes.
func appendFloat(b []byte, f float64) []byte {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b = strconv.AppendFloat(b, f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return b
}

// IsValidNumber reports whether s matches the JSON number grammar.
func IsValidNumber(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' {
		s = s[1:]
		if s == "" {
			return false
		}
	}
	switch {
	case s[0] == '0':
		s = s[1:]
	case '1' <= s[0] && s[0] <= '9':
		s = s[1:]
		for len(s) > 0 && isDigit(s[0]) {
			s = s[1:]
		}
	default:
		return false
	}
	if len(s) >= 2 && s[0] == '.' && isDigit(s[1]) {
		s = s[2:]
		for len(s) > 0 && isDigit(s[0]) {
			s = s[1:]
		}
	}
	if len(s) >= 2 && (s[0] == 'e' || s[0] == 'E') {
		s = s[1:]
		if s[0] == '+' || s[0] == '-' {
			s = s[1:]
			if s == "" {
				return false
			}
		}
		for len(s) > 0 && isDigit(s[0]) {
			s = s[1:]
		}
	}
	return s == ""
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
