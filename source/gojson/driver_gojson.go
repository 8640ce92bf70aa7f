// Package gojson provides a JSON driver backed by goccy/go-json.
package gojson

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"

	restfb "github.com/restfb/restfb-sub000"
	eng "github.com/restfb/restfb-sub000/internal/engine"
	"github.com/restfb/restfb-sub000/jsonvalue"
)

// Driver returns a restfb.JSONDriver backed by goccy/go-json.
func Driver() restfb.JSONDriver { return driverGoJSON{} }

type driverGoJSON struct{}

func (driverGoJSON) NewReader(r io.Reader) restfb.Source { return NewReader(r) }
func (driverGoJSON) NewBytes(b []byte) restfb.Source     { return NewBytes(b) }
func (driverGoJSON) Name() string                        { return "go-json" }

// ---- engine.TokenSource implementation using go-json Decoder ----

// go-json's Decoder.Token skips ',' and ':' without checking them, so the
// source keeps the bytes the decoder has read and validates the separators
// between tokens itself.
type source struct {
	dec        *j.Decoder
	lines      *eng.LineCounter
	tape       *tape
	grammar    eng.Grammar
	lastOffset int64
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	lc := eng.NewLineCounter(r)
	tp := &tape{r: lc}
	dec := j.NewDecoder(tp)
	dec.UseNumber()
	return &source{dec: dec, lines: lc, tape: tp}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if err == io.EOF {
			if s.grammar.Depth() == 0 {
				if sep, _ := s.tape.separators(s.lastOffset); len(sep) > 0 {
					return eng.Token{}, s.syntaxError(s.grammar.End(sep).Error(), s.lastOffset)
				}
			}
			return eng.Token{}, io.EOF
		}
		var se *j.SyntaxError
		if errors.As(err, &se) {
			return eng.Token{}, s.syntaxError(se.Error(), se.Offset)
		}
		return eng.Token{}, err
	}
	sep, start := s.tape.separators(s.lastOffset)

	t := eng.Token{Offset: start}
	var size int64
	switch v := tok.(type) {
	case j.Delim:
		size = 1
		switch v {
		case '{':
			t.Kind = eng.KindBeginObject
		case '[':
			t.Kind = eng.KindBeginArray
		case '}':
			t.Kind = eng.KindEndObject
		default:
			t.Kind = eng.KindEndArray
		}
	case string:
		t.Kind, t.String = eng.KindString, v
		if size, err = s.tape.stringLen(start); err != nil {
			return eng.Token{}, s.syntaxError(err.Error(), start+size)
		}
	case bool:
		t.Kind, t.Bool = eng.KindBool, v
		size = 5
		if v {
			size = 4
		}
	case j.Number:
		// the literal aliases the decoder's buffer
		t.Kind, t.Number = eng.KindNumber, strings.Clone(string(v))
		size = int64(len(v))
	case float64:
		t.Kind, t.Number = eng.KindNumber, strconv.FormatFloat(v, 'g', -1, 64)
		size = s.tape.numberLen(start)
	default:
		t.Kind = eng.KindNull
		size = 4
	}
	if t.Kind == eng.KindNumber && !jsonvalue.IsValidNumber(t.Number) {
		return eng.Token{}, s.syntaxError("invalid number literal "+strconv.Quote(t.Number), start)
	}
	if t.Kind, err = s.grammar.Accept(t.Kind, sep); err != nil {
		return eng.Token{}, s.syntaxError(err.Error(), start)
	}
	// Offsets come from the raw bytes: go-json rewrites invalid UTF-8 in its
	// own buffer, which shifts InputOffset.
	s.lastOffset = start + size
	s.tape.discard(s.lastOffset)
	return t, nil
}

func (s *source) syntaxError(msg string, offset int64) *eng.ParseError {
	if offset < 0 {
		offset = 0
	}
	pe := eng.NewSyntaxError(msg, offset)
	pe.Line, pe.Column = s.lines.Position(offset)
	return pe
}

func (s *source) Location() int64 { return s.lastOffset }

func (s *source) Position(offset int64) (int, int) { return s.lines.Position(offset) }

// tape records the bytes read by the decoder that lie past the end of the
// last token.
type tape struct {
	r    io.Reader
	base int64 // input offset of buf[0]
	buf  []byte
}

func (t *tape) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	t.buf = append(t.buf, p[:n]...)
	return n, err
}

// separators scans from offset over whitespace, ',' and ':' and returns the
// separators found plus the offset of the first other byte.
func (t *tape) separators(from int64) ([]byte, int64) {
	var sep []byte
	i := from - t.base
	for ; i < int64(len(t.buf)); i++ {
		switch c := t.buf[i]; c {
		case ' ', '\t', '\r', '\n':
		case ',', ':':
			sep = append(sep, c)
		default:
			return sep, t.base + i
		}
	}
	return sep, t.base + i
}

// stringLen returns the byte length of the string literal starting at
// offset, quotes included. Raw control characters are rejected.
func (t *tape) stringLen(offset int64) (int64, error) {
	i := offset - t.base + 1
	for ; i < int64(len(t.buf)); i++ {
		switch c := t.buf[i]; {
		case c == '\\':
			i++
		case c == '"':
			return t.base + i + 1 - offset, nil
		case c < 0x20:
			return t.base + i - offset, fmt.Errorf("invalid character %s in string literal", strconv.QuoteRune(rune(c)))
		}
	}
	return t.base + i - offset, io.ErrUnexpectedEOF
}

// numberLen returns the byte length of the number literal starting at offset.
func (t *tape) numberLen(offset int64) int64 {
	i := offset - t.base
	for ; i < int64(len(t.buf)); i++ {
		if !strings.ContainsRune("0123456789+-.eE", rune(t.buf[i])) {
			break
		}
	}
	return t.base + i - offset
}

// discard drops bytes before offset once they make up half of the buffer.
func (t *tape) discard(offset int64) {
	n := offset - t.base
	if n <= 0 || n < int64(len(t.buf))/2 {
		return
	}
	t.buf = append(t.buf[:0], t.buf[n:]...)
	t.base = offset
}
