package jsonvalue

import (
	"bytes"
	"errors"
	"io"
	"strings"

	eng "github.com/restfb/restfb-sub000/internal/engine"
	jsonsrc "github.com/restfb/restfb-sub000/source/json"
)

// ParseError describes malformed input. Line and Column are 1-based.
type ParseError = eng.ParseError

// DefaultMaxDepth bounds nesting when no explicit limit is given.
const DefaultMaxDepth = 10000

// DuplicatePolicy selects how repeated member names inside one object are
// handled.
type DuplicatePolicy int

const (
	// DuplicateLastWins keeps the last value at the position of the first name.
	DuplicateLastWins DuplicatePolicy = iota
	// DuplicateReject fails the parse.
	DuplicateReject
)

type parseConfig struct {
	maxDepth  int
	maxBytes  int64
	dup       DuplicatePolicy
	tokenizer func(io.Reader) eng.TokenSource
}

// ParseOption configures Parse, ParseReader and ParseString.
type ParseOption func(*parseConfig)

// WithMaxDepth limits container nesting. Zero or negative disables the limit.
func WithMaxDepth(n int) ParseOption { return func(c *parseConfig) { c.maxDepth = n } }

// WithMaxBytes stops parsing once more than n input bytes were consumed.
func WithMaxBytes(n int64) ParseOption { return func(c *parseConfig) { c.maxBytes = n } }

// WithDuplicateKeys selects the duplicate member policy.
func WithDuplicateKeys(p DuplicatePolicy) ParseOption { return func(c *parseConfig) { c.dup = p } }

// WithTokenizer replaces the encoding/json based tokenizer, for example with
// gojson.NewReader.
func WithTokenizer(f func(io.Reader) eng.TokenSource) ParseOption {
	return func(c *parseConfig) {
		if f != nil {
			c.tokenizer = f
		}
	}
}

// Parse parses a single JSON document.
func Parse(data []byte, opts ...ParseOption) (Value, error) {
	return ParseReader(bytes.NewReader(data), opts...)
}

// ParseString parses a single JSON document held in s.
func ParseString(s string, opts ...ParseOption) (Value, error) {
	return ParseReader(strings.NewReader(s), opts...)
}

// ParseReader parses a single JSON document read from r. Data after the
// top-level value is an error.
func ParseReader(r io.Reader, opts ...ParseOption) (Value, error) {
	cfg := parseConfig{maxDepth: DefaultMaxDepth, tokenizer: jsonsrc.NewReader}
	for _, o := range opts {
		o(&cfg)
	}
	src := cfg.tokenizer(r)
	eo := eng.EnforceOptions{MaxDepth: cfg.maxDepth, MaxBytes: cfg.maxBytes}
	if cfg.dup == DuplicateReject {
		eo.OnDuplicate = eng.DupError
	}
	if !eo.Disabled() {
		src = eng.WrapWithEnforcement(src, eo)
	}
	return Build(src)
}

// Build consumes a complete document from src and returns its value tree.
// Errors describing the input are returned as *ParseError.
func Build(src eng.TokenSource) (Value, error) {
	b := &builder{src: src}
	v, err := b.document()
	if err != nil {
		pos, _ := eng.FindPositioner(src)
		return nil, eng.ToParseError(err, src.Location(), pos)
	}
	return v, nil
}

type builder struct {
	src eng.TokenSource
}

func (b *builder) document() (Value, error) {
	tok, err := b.src.NextToken()
	if err == io.EOF {
		return nil, eng.NewSyntaxError("empty input", 0)
	}
	if err != nil {
		return nil, err
	}
	v, err := b.value(tok)
	if err != nil {
		return nil, err
	}
	next, err := b.src.NextToken()
	switch {
	case err == io.EOF:
		return v, nil
	case err != nil:
		return nil, err
	}
	return nil, eng.NewSyntaxError("unexpected data after top-level value", b.offset(next))
}

// next reads a token inside a container, where running out of input is an
// error.
func (b *builder) next() (eng.Token, error) {
	tok, err := b.src.NextToken()
	if errors.Is(err, io.EOF) {
		return eng.Token{}, io.ErrUnexpectedEOF
	}
	return tok, err
}

func (b *builder) value(tok eng.Token) (Value, error) {
	switch tok.Kind {
	case eng.KindBeginObject:
		obj := &Object{}
		for {
			kt, err := b.next()
			if err != nil {
				return nil, err
			}
			if kt.Kind == eng.KindEndObject {
				return obj, nil
			}
			if kt.Kind != eng.KindKey {
				return nil, eng.NewSyntaxError("expected object key, found "+kt.Kind.String(), b.offset(kt))
			}
			vt, err := b.next()
			if err != nil {
				return nil, err
			}
			v, err := b.value(vt)
			if err != nil {
				return nil, err
			}
			obj.Set(kt.String, v)
		}
	case eng.KindBeginArray:
		arr := &Array{}
		for {
			et, err := b.next()
			if err != nil {
				return nil, err
			}
			if et.Kind == eng.KindEndArray {
				return arr, nil
			}
			v, err := b.value(et)
			if err != nil {
				return nil, err
			}
			arr.Append(v)
		}
	case eng.KindString:
		return String(tok.String), nil
	case eng.KindNumber:
		return Number(tok.Number), nil
	case eng.KindBool:
		return Bool(tok.Bool), nil
	case eng.KindNull:
		return Null{}, nil
	}
	return nil, eng.NewSyntaxError("unexpected "+tok.Kind.String(), b.offset(tok))
}

func (b *builder) offset(tok eng.Token) int64 {
	if tok.Offset >= 0 {
		return tok.Offset
	}
	return b.src.Location()
}
